// Package validation provides input validation for campground, review, and
// user payloads. Every free-text field is checked against a strict no-HTML
// policy; all violations for a payload are aggregated into a single
// comma-joined message.
package validation

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"campwild/internal/models"
)

// stripPolicy removes every tag and attribute, mirroring a sanitize-then-diff
// HTML check: if stripping changes the value, the value contained markup.
var stripPolicy = bluemonday.StrictPolicy()

// containsHTML reports whether sanitizing value changes it.
func containsHTML(value string) bool {
	return stripPolicy.Sanitize(value) != value
}

// violations accumulates field-level messages for one payload.
type violations []string

func (v *violations) add(msg string) {
	*v = append(*v, msg)
}

// checkText applies the required/max-length/no-HTML rules shared by every
// free-text field and records any violations under the given field name.
func (v *violations) checkText(field, value string, required bool, maxLen int) {
	if value == "" {
		if required {
			v.add(field + " is required")
		}
		return
	}
	if maxLen > 0 && utf8.RuneCountInString(value) > maxLen {
		v.add(field + " must be at most " + strconv.Itoa(maxLen) + " characters")
	}
	if containsHTML(value) {
		v.add(field + " must not include HTML!")
	}
}

// err converts the accumulated violations into a single validation error, or
// nil when the payload was clean.
func (v violations) err() error {
	if len(v) == 0 {
		return nil
	}
	return models.NewValidationError(strings.Join(v, ","))
}
