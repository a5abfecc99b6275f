// Package browser drives a Chromium page through Playwright for the browser
// tool catalog.
package browser

// Locator identifies a page element by strategy and value.
type Locator struct {
	By    string `json:"by"`
	Value string `json:"value"`
}

// Locator strategies.
const (
	ByCSS      = "css"
	ByXPath    = "xpath"
	ByID       = "id"
	ByName     = "name"
	ByLinkText = "link_text"
)

// FormElement describes one form control found on the page.
type FormElement struct {
	Tag         string `json:"tag"`
	Type        string `json:"type,omitempty"`
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Value       string `json:"value,omitempty"`
	Label       string `json:"label,omitempty"`
	Visible     bool   `json:"visible"`
}

// ClickableElement describes one clickable element found on the page.
type ClickableElement struct {
	Tag     string `json:"tag"`
	Text    string `json:"text,omitempty"`
	ID      string `json:"id,omitempty"`
	Href    string `json:"href,omitempty"`
	Classes string `json:"classes,omitempty"`
	Visible bool   `json:"visible"`
}

// SelectSpec names the option to pick in a select element. Exactly one field
// should be set; RandomOption picks uniformly among the real options.
type SelectSpec struct {
	VisibleText  string
	Value        string
	Index        *int
	RandomOption bool
}

// SelectResult reports which option was selected.
type SelectResult struct {
	Selected string `json:"selected"`
	Value    string `json:"value"`
	Index    int    `json:"index"`
	Method   string `json:"method"`
}
