package resource

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/portfolio-space/core/internal/models"
)

// Input is the untyped key/value form of a request body: a decoded JSON
// object or the text fields of a form.
type Input map[string]any

// Checker reads fields out of an Input and collects violations in the order
// the fields are checked.
type Checker struct {
	in   Input
	errs []FieldError
}

func NewChecker(in Input) *Checker {
	if in == nil {
		in = Input{}
	}
	return &Checker{in: in}
}

// Errors returns the collected violations, nil when there are none.
func (c *Checker) Errors() []FieldError { return c.errs }

// Fail records a violation on field.
func (c *Checker) Fail(field, message string) {
	c.errs = append(c.errs, FieldError{Field: field, Message: message})
}

// Required returns the trimmed text of field, recording message when it is
// missing or blank.
func (c *Checker) Required(field, message string) string {
	s, ok := c.text(field)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		c.Fail(field, message)
	}
	return s
}

// Optional returns the trimmed text of field, or nil when it is absent or blank.
func (c *Checker) Optional(field string) *string {
	s, ok := c.text(field)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Passthrough returns the text of field unchanged, including empty strings.
func (c *Checker) Passthrough(field string) *string {
	if _, present := c.lookup(field); !present {
		return nil
	}
	s, ok := c.text(field)
	if !ok {
		return nil
	}
	return &s
}

// OneOf returns the trimmed text of field and requires it to be in allowed.
func (c *Checker) OneOf(field string, allowed []string, missing string) string {
	s := c.Required(field, missing)
	if s == "" {
		return ""
	}
	for _, a := range allowed {
		if s == a {
			return s
		}
	}
	c.Fail(field, fmt.Sprintf("Invalid %s %q, expected one of %s", field, s, strings.Join(allowed, ", ")))
	return s
}

// URL returns the trimmed text of field when it is an absolute URL. Blank
// values count as absent; anything else that does not parse is a violation.
func (c *Checker) URL(field, message string) *string {
	s := c.Optional(field)
	if s == nil {
		return nil
	}
	if !IsURL(*s) {
		c.Fail(field, message)
	}
	return s
}

// List reads an ordered list of tokens from a sequence or a comma separated
// string. Tokens are trimmed and empty ones dropped; message is recorded when
// nothing is left.
func (c *Checker) List(field, message string) []string {
	raw, present := c.lookup(field)
	var out []string
	switch v := raw.(type) {
	case nil:
	case string:
		out = models.SplitList(v)
	case []string:
		for _, s := range v {
			if t := strings.TrimSpace(s); t != "" {
				out = append(out, t)
			}
		}
	case []any:
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				c.Fail(field, fmt.Sprintf("Item %d must be a string", i))
				return nil
			}
			if t := strings.TrimSpace(s); t != "" {
				out = append(out, t)
			}
		}
	default:
		if present {
			c.Fail(field, "Expected a list or a comma separated string")
			return nil
		}
	}
	if len(out) == 0 {
		c.Fail(field, message)
		return nil
	}
	return out
}

func (c *Checker) lookup(field string) (any, bool) {
	v, ok := c.in[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// text returns the string at field. Missing fields read as "" and ok; a
// value of another type records a violation and reports !ok.
func (c *Checker) text(field string) (string, bool) {
	raw, present := c.lookup(field)
	if !present {
		return "", true
	}
	switch v := raw.(type) {
	case string:
		return v, true
	case []string:
		if len(v) == 1 {
			return v[0], true
		}
	}
	c.Fail(field, "Expected a string")
	return "", false
}

// IsURL reports whether s parses as an absolute URL with a host.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
