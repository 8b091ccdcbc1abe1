package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxLabelLength bounds label, title and legend text.
const maxLabelLength = 1024

// ValidateText validates user supplied text that ends up in rendered output
// (titles, labels, legend items, mouseover text).
//
// The validation rules are intentionally conservative:
//   - No control characters other than tab
//   - No null bytes
//   - Maximum length of 1024 bytes
//
// Empty text is allowed; callers decide whether empty means "no label".
func ValidateText(field, text string) error {
	if len(text) > maxLabelLength {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", field, maxLabelLength)
	}
	for _, r := range text {
		if r != '\t' && unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", field)
		}
	}
	return nil
}

// ValidateHyperlink validates a link target attached to a range.
// It accepts http, https and mailto URLs as well as relative references.
// Script URLs are rejected because image maps and SVG output embed the link
// verbatim.
func ValidateHyperlink(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "hyperlink cannot be empty")
	}
	if err := ValidateText("hyperlink", rawURL); err != nil {
		return err
	}

	lower := strings.ToLower(strings.TrimSpace(rawURL))
	if i := strings.Index(lower, ":"); i > 0 && !strings.ContainsAny(lower[:i], "/?#") {
		switch lower[:i] {
		case "http", "https", "mailto":
			return nil
		default:
			return New(ErrCodeInvalidInput, "hyperlink scheme %q not allowed", lower[:i])
		}
	}
	return nil
}

// colorRegex matches #rgb, #rrggbb and #rrggbbaa colours.
var colorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateColor validates a hex colour string.
func ValidateColor(s string) error {
	if !colorRegex.MatchString(s) {
		return New(ErrCodeInvalidConfig, "invalid colour %q (want #rgb, #rrggbb or #rrggbbaa)", s)
	}
	return nil
}

// ValidatePath validates an output path for safety.
//
// The validation rules are:
//   - Not empty
//   - No null bytes or control characters
//   - Maximum length of 4096 characters
//
// Absolute paths are allowed: the CLI writes wherever the user asks.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
