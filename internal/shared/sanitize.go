package shared

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	plainOnce   sync.Once
	plainPolicy *bluemonday.Policy
)

// PlainText strips markup from free-text input and trims surrounding space.
// The result is unescaped text; templates escape it on output.
func PlainText(s string) string {
	plainOnce.Do(func() {
		plainPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(s)))
}
