// Package tagname turns free-text tag input into the canonical slug stored in
// the tags table: trimmed, lowercased, whitespace runs collapsed to one hyphen.
//
//	"  React   Hooks " → "react-hooks"
package tagname

import (
	"strings"

	"github.com/sakif/datanest/internal/apperror"
)

// Normalize returns the canonical form of raw. It fails with a validation
// error when nothing is left after trimming, so callers never create a tag
// with an empty name.
func Normalize(raw string) (string, error) {
	fields := strings.Fields(strings.ToLower(raw))
	if len(fields) == 0 {
		return "", apperror.ValidationFailed("name", "tag name is required")
	}
	return strings.Join(fields, "-"), nil
}
