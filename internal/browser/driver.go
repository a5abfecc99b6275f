package browser

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"

	"github.com/playwright-community/playwright-go"

	logger "github.com/dodocode/screenpilot/internal/logger"
)

// Default driver settings.
const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
	DefaultTimeoutSeconds = 10
)

// Options configures the page driver.
type Options struct {
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
	TimeoutSeconds int
}

// Driver owns one Chromium page through Playwright. It is created idle;
// Start launches the browser lazily on first use.
type Driver struct {
	mu      sync.Mutex
	opts    Options
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	started bool
}

// NewDriver creates an idle page driver.
func NewDriver(opts Options) *Driver {
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = DefaultViewportWidth
	}
	if opts.ViewportHeight <= 0 {
		opts.ViewportHeight = DefaultViewportHeight
	}
	if opts.TimeoutSeconds <= 0 {
		opts.TimeoutSeconds = DefaultTimeoutSeconds
	}
	return &Driver{opts: opts}
}

// Start launches Playwright and opens the page. Safe to call more than once.
func (d *Driver) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.startLocked()
}

func (d *Driver) startLocked() error {
	if d.started {
		return nil
	}

	// Playwright's installer writes progress to stdout; discard it so driver
	// startup does not interleave with CLI output.
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(runOpts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(d.opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  d.opts.ViewportWidth,
			Height: d.opts.ViewportHeight,
		},
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		_ = context.Close()
		_ = browser.Close()
		_ = pw.Stop()
		return fmt.Errorf("failed to create page: %w", err)
	}

	page.SetDefaultTimeout(float64(d.opts.TimeoutSeconds) * 1000)

	d.pw = pw
	d.browser = browser
	d.context = context
	d.page = page
	d.started = true

	logger.Debug("Browser driver started", "headless", d.opts.Headless,
		"viewport_width", d.opts.ViewportWidth, "viewport_height", d.opts.ViewportHeight)
	return nil
}

// ensurePage starts the driver if needed and returns the page.
func (d *Driver) ensurePage() (playwright.Page, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.startLocked(); err != nil {
		return nil, err
	}
	return d.page, nil
}

// Close shuts down the page, browser, and Playwright.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return nil
	}

	_ = d.page.Close()
	_ = d.context.Close()
	_ = d.browser.Close()
	err := d.pw.Stop()
	d.started = false
	return err
}

// Goto navigates to the URL and waits for the load event.
func (d *Driver) Goto(url string) (string, error) {
	page, err := d.ensurePage()
	if err != nil {
		return "", err
	}

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		return "", fmt.Errorf("navigation failed: %w", err)
	}

	return page.URL(), nil
}

// CurrentURL returns the page URL.
func (d *Driver) CurrentURL() (string, error) {
	page, err := d.ensurePage()
	if err != nil {
		return "", err
	}
	return page.URL(), nil
}

// Title returns the page title.
func (d *Driver) Title() (string, error) {
	page, err := d.ensurePage()
	if err != nil {
		return "", err
	}
	return page.Title()
}

// WaitFor waits for an element to be attached. A timeout is an outcome, not
// a failure: it returns (false, nil).
func (d *Driver) WaitFor(loc Locator, timeoutSeconds int) (bool, error) {
	page, err := d.ensurePage()
	if err != nil {
		return false, err
	}

	sel, err := SelectorFor(loc)
	if err != nil {
		return false, err
	}

	if timeoutSeconds <= 0 {
		timeoutSeconds = d.opts.TimeoutSeconds
	}

	state := playwright.WaitForSelectorStateAttached
	_, err = page.WaitForSelector(sel, playwright.PageWaitForSelectorOptions{
		State:   state,
		Timeout: playwright.Float(float64(timeoutSeconds) * 1000),
	})
	if err != nil {
		if strings.Contains(err.Error(), "Timeout") {
			return false, nil
		}
		return false, fmt.Errorf("wait failed: %w", err)
	}

	return true, nil
}

// Click clicks the element matching the locator.
func (d *Driver) Click(loc Locator) error {
	page, err := d.ensurePage()
	if err != nil {
		return err
	}

	sel, err := SelectorFor(loc)
	if err != nil {
		return err
	}

	if err := page.Click(sel); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

// Type fills the element with text, optionally pressing Enter afterwards.
func (d *Driver) Type(loc Locator, text string, submit bool) error {
	page, err := d.ensurePage()
	if err != nil {
		return err
	}

	sel, err := SelectorFor(loc)
	if err != nil {
		return err
	}

	if err := page.Fill(sel, text); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}

	if submit {
		if err := page.Press(sel, "Enter"); err != nil {
			return fmt.Errorf("submit failed: %w", err)
		}
	}
	return nil
}

// GetText returns the text content of the element matching the locator.
func (d *Driver) GetText(loc Locator) (string, error) {
	page, err := d.ensurePage()
	if err != nil {
		return "", err
	}

	sel, err := SelectorFor(loc)
	if err != nil {
		return "", err
	}

	element, err := page.QuerySelector(sel)
	if err != nil {
		return "", fmt.Errorf("selector query failed: %w", err)
	}
	if element == nil {
		return "", fmt.Errorf("no element found matching %s=%s", loc.By, loc.Value)
	}

	text, err := element.TextContent()
	if err != nil {
		return "", fmt.Errorf("text extraction failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// ScrollBy scrolls the window by the given pixel deltas.
func (d *Driver) ScrollBy(dx, dy int) error {
	page, err := d.ensurePage()
	if err != nil {
		return err
	}

	if _, err := page.Evaluate(fmt.Sprintf("window.scrollBy(%d, %d)", dx, dy)); err != nil {
		return fmt.Errorf("scroll failed: %w", err)
	}
	return nil
}

// HTML returns the full page source.
func (d *Driver) HTML() (string, error) {
	page, err := d.ensurePage()
	if err != nil {
		return "", err
	}
	return page.Content()
}

// Screenshot captures the viewport as PNG bytes.
func (d *Driver) Screenshot() ([]byte, error) {
	page, err := d.ensurePage()
	if err != nil {
		return nil, err
	}

	data, err := page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return data, nil
}

const formElementsJS = `() => Array.from(
	document.querySelectorAll('input, textarea, select, button[type="submit"]')
).map(el => {
	const rect = el.getBoundingClientRect();
	let label = '';
	if (el.id) {
		const forLabel = document.querySelector('label[for="' + el.id + '"]');
		if (forLabel) label = forLabel.textContent.trim();
	}
	if (!label) {
		const parent = el.closest('label');
		if (parent) label = parent.textContent.trim();
	}
	return {
		tag: el.tagName.toLowerCase(),
		type: el.type || '',
		id: el.id || '',
		name: el.name || '',
		placeholder: el.placeholder || '',
		value: el.value || '',
		label: label,
		visible: rect.width > 0 && rect.height > 0,
	};
})`

const clickableElementsJS = `() => Array.from(
	document.querySelectorAll('a[href], button, input[type="submit"], input[type="button"], [role="button"], [onclick]')
).map(el => {
	const rect = el.getBoundingClientRect();
	return {
		tag: el.tagName.toLowerCase(),
		text: (el.textContent || el.value || '').trim().slice(0, 120),
		id: el.id || '',
		href: el.getAttribute('href') || '',
		classes: el.className && el.className.toString ? el.className.toString() : '',
		visible: rect.width > 0 && rect.height > 0,
	};
})`

// ListFormElements inventories the form controls on the page.
func (d *Driver) ListFormElements() ([]FormElement, error) {
	page, err := d.ensurePage()
	if err != nil {
		return nil, err
	}

	raw, err := page.Evaluate(formElementsJS)
	if err != nil {
		return nil, fmt.Errorf("form inspection failed: %w", err)
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected form inspection result type %T", raw)
	}

	elements := make([]FormElement, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		elements = append(elements, FormElement{
			Tag:         asString(m["tag"]),
			Type:        asString(m["type"]),
			ID:          asString(m["id"]),
			Name:        asString(m["name"]),
			Placeholder: asString(m["placeholder"]),
			Value:       asString(m["value"]),
			Label:       asString(m["label"]),
			Visible:     asBool(m["visible"]),
		})
	}
	return elements, nil
}

// ListClickableElements inventories links, buttons, and other click targets.
func (d *Driver) ListClickableElements() ([]ClickableElement, error) {
	page, err := d.ensurePage()
	if err != nil {
		return nil, err
	}

	raw, err := page.Evaluate(clickableElementsJS)
	if err != nil {
		return nil, fmt.Errorf("clickable inspection failed: %w", err)
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected clickable inspection result type %T", raw)
	}

	elements := make([]ClickableElement, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		elements = append(elements, ClickableElement{
			Tag:     asString(m["tag"]),
			Text:    asString(m["text"]),
			ID:      asString(m["id"]),
			Href:    asString(m["href"]),
			Classes: asString(m["classes"]),
			Visible: asBool(m["visible"]),
		})
	}
	return elements, nil
}

// selectOption describes one <option> read back from the page.
type selectOption struct {
	Text  string
	Value string
}

// SelectOption picks an option in a select element per the spec.
func (d *Driver) SelectOption(loc Locator, spec SelectSpec) (*SelectResult, error) {
	page, err := d.ensurePage()
	if err != nil {
		return nil, err
	}

	sel, err := SelectorFor(loc)
	if err != nil {
		return nil, err
	}

	handle, err := page.QuerySelector(sel)
	if err != nil {
		return nil, fmt.Errorf("selector query failed: %w", err)
	}
	if handle == nil {
		return nil, fmt.Errorf("no select element found matching %s=%s", loc.By, loc.Value)
	}

	options, err := readSelectOptions(handle)
	if err != nil {
		return nil, err
	}
	if len(options) == 0 {
		return nil, fmt.Errorf("select element has no options")
	}

	index, method, err := chooseOption(options, spec)
	if err != nil {
		return nil, err
	}

	if _, err := handle.SelectOption(playwright.SelectOptionValues{
		Indexes: playwright.IntSlice(index),
	}); err != nil {
		return nil, fmt.Errorf("select failed: %w", err)
	}

	return &SelectResult{
		Selected: options[index].Text,
		Value:    options[index].Value,
		Index:    index,
		Method:   method,
	}, nil
}

func readSelectOptions(handle playwright.ElementHandle) ([]selectOption, error) {
	raw, err := handle.Evaluate(`el => Array.from(el.options).map(o => ({text: o.text.trim(), value: o.value}))`)
	if err != nil {
		return nil, fmt.Errorf("option inspection failed: %w", err)
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected option inspection result type %T", raw)
	}

	options := make([]selectOption, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		options = append(options, selectOption{
			Text:  asString(m["text"]),
			Value: asString(m["value"]),
		})
	}
	return options, nil
}

// chooseOption resolves a SelectSpec against the option list, returning the
// chosen index and the method used.
func chooseOption(options []selectOption, spec SelectSpec) (int, string, error) {
	switch {
	case spec.RandomOption:
		// Skip a leading placeholder with an empty value when there is a
		// real alternative.
		candidates := make([]int, 0, len(options))
		for i, opt := range options {
			if opt.Value != "" {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) == 0 {
			candidates = append(candidates, 0)
		}
		return candidates[rand.Intn(len(candidates))], "random_option", nil

	case spec.VisibleText != "":
		for i, opt := range options {
			if opt.Text == spec.VisibleText {
				return i, "visible_text", nil
			}
		}
		return 0, "", fmt.Errorf("no option with visible text %q", spec.VisibleText)

	case spec.Value != "":
		for i, opt := range options {
			if opt.Value == spec.Value {
				return i, "value", nil
			}
		}
		return 0, "", fmt.Errorf("no option with value %q", spec.Value)

	case spec.Index != nil:
		if *spec.Index < 0 || *spec.Index >= len(options) {
			return 0, "", fmt.Errorf("option index %d out of range [0, %d)", *spec.Index, len(options))
		}
		return *spec.Index, "index", nil

	default:
		return 0, "", fmt.Errorf("one of visible_text, value, index, or random_option is required")
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}
