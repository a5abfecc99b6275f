package main

import "github.com/dodocode/screenpilot/cmd"

func main() {
	cmd.Execute()
}
