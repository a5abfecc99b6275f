package domain

import "fmt"

// ToolNotFoundError indicates the decision collaborator named a tool that is
// not in the catalog.
type ToolNotFoundError struct {
	Name string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// ToolArgumentError indicates malformed or missing tool arguments.
type ToolArgumentError struct {
	Tool   string
	Reason string
}

func (e *ToolArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, e.Reason)
}

// DriverError wraps a failure from an underlying input or page driver.
type DriverError struct {
	Driver string
	Op     string
	Err    error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("%s driver: %s: %v", e.Driver, e.Op, e.Err)
}

func (e *DriverError) Unwrap() error {
	return e.Err
}
