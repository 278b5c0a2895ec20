// Package sizing canonicalizes raw marketplace size labels into comparable keys.
package sizing

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	wholeSize   = regexp.MustCompile(`^[0-9]+$`)
	wholeYouth  = regexp.MustCompile(`^[0-9]+Y$`)
	decimalSize = regexp.MustCompile(`^[0-9]+\.[05]Y?$`)
)

// MalformedSizeError is returned for a size label that has no canonical form.
type MalformedSizeError struct {
	Input string
}

func (e *MalformedSizeError) Error() string {
	return fmt.Sprintf("malformed size %q", e.Input)
}

// Normalize returns the canonical form of a size label.
//
//	"36"   -> "36.0"
//	"5y"   -> "5.0Y"
//	"36.5" -> "36.5"
//
// Normalize is idempotent.
func Normalize(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case wholeSize.MatchString(s):
		return s + ".0", nil
	case wholeYouth.MatchString(s):
		return strings.TrimSuffix(s, "Y") + ".0Y", nil
	case decimalSize.MatchString(s):
		return s, nil
	default:
		return "", &MalformedSizeError{Input: raw}
	}
}
