package browser

import (
	"fmt"
	"strings"
)

// SelectorFor translates a Locator into a Playwright selector string.
func SelectorFor(loc Locator) (string, error) {
	if loc.Value == "" {
		return "", fmt.Errorf("locator value cannot be empty")
	}

	switch loc.By {
	case ByCSS, "":
		return loc.Value, nil
	case ByXPath:
		return "xpath=" + loc.Value, nil
	case ByID:
		return fmt.Sprintf(`[id=%q]`, loc.Value), nil
	case ByName:
		return fmt.Sprintf(`[name=%q]`, loc.Value), nil
	case ByLinkText:
		return fmt.Sprintf(`xpath=//a[normalize-space(.)=%s]`, xpathLiteral(loc.Value)), nil
	default:
		return "", fmt.Errorf("unknown locator strategy: %s (must be css, xpath, id, name, or link_text)", loc.By)
	}
}

// xpathLiteral quotes a string for use inside an XPath expression. XPath 1.0
// has no escape sequences, so strings containing both quote kinds are built
// with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}

	parts := strings.Split(s, `"`)
	quoted := make([]string, 0, len(parts)*2)
	for i, part := range parts {
		if i > 0 {
			quoted = append(quoted, `'"'`)
		}
		if part != "" {
			quoted = append(quoted, `"`+part+`"`)
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
