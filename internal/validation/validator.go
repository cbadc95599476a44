// Package validation checks user-typed values before they reach storage:
// filenames from the create dialog and tags from the tag editor.
//
// Validation failures are returned as AppErrors with the VALIDATION_ERROR
// code so the session can show them as banners.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dpshade/promptdeck/internal/errors"
)

// FieldValidator provides validation rules for a single text field
type FieldValidator struct {
	Name      string
	Required  bool
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
	// PatternHint is shown when Pattern does not match
	PatternHint string
	Custom      func(string) error
}

// Validate checks value against the field rules. Lengths are counted in
// user-perceived characters, not bytes.
func (f FieldValidator) Validate(value string) error {
	value = strings.TrimSpace(value)

	if value == "" {
		if f.Required {
			return errors.ValidationError(fmt.Sprintf("%s is required", f.Name)).
				WithContext("field", f.Name)
		}
		return nil
	}

	length := uniseg.GraphemeClusterCount(value)
	if f.MinLength > 0 && length < f.MinLength {
		return errors.ValidationError(fmt.Sprintf("%s must be at least %d characters", f.Name, f.MinLength)).
			WithContext("field", f.Name)
	}
	if f.MaxLength > 0 && length > f.MaxLength {
		return errors.ValidationError(fmt.Sprintf("%s must be at most %d characters", f.Name, f.MaxLength)).
			WithContext("field", f.Name)
	}

	if f.Pattern != nil && !f.Pattern.MatchString(value) {
		msg := fmt.Sprintf("%s has an invalid format", f.Name)
		if f.PatternHint != "" {
			msg = fmt.Sprintf("%s %s", f.Name, f.PatternHint)
		}
		return errors.ValidationError(msg).WithContext("field", f.Name).WithContext("value", value)
	}

	if f.Custom != nil {
		if err := f.Custom(value); err != nil {
			return errors.Wrap(err, errors.ErrCodeValidation, fmt.Sprintf("%s: %v", f.Name, err)).
				WithContext("field", f.Name)
		}
	}
	return nil
}

var (
	// FilenameField validates the create dialog's filename. Separators and
	// characters that are awkward on common filesystems are rejected.
	FilenameField = FieldValidator{
		Name:        "filename",
		Required:    true,
		MaxLength:   100,
		Pattern:     regexp.MustCompile(`^[^/\\:*?"<>|\x00-\x1f]+$`),
		PatternHint: `cannot contain / \ : * ? " < > | or control characters`,
		Custom: func(s string) error {
			if s == "." || s == ".." || strings.HasPrefix(s, ".") {
				return fmt.Errorf("cannot start with a dot")
			}
			return nil
		},
	}

	// TagField validates a single tag
	TagField = FieldValidator{
		Name:        "tag",
		Required:    true,
		MaxLength:   50,
		Pattern:     regexp.MustCompile(`^[^\s,]+$`),
		PatternHint: "cannot contain spaces or commas",
	}
)

// Filename validates a filename typed into the create dialog
func Filename(name string) error {
	return FilenameField.Validate(name)
}

// Tag validates a tag typed into the tag editor
func Tag(tag string) error {
	return TagField.Validate(tag)
}
