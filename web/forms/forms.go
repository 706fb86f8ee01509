// Package forms implements declarative form validation. A form is a set of
// named fields, each with an ordered list of rules. Validation is
// all-or-nothing: either every field passes and the trimmed data is returned,
// or the accumulated per-field messages are returned and no data is.
package forms

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/forumkit/forumkit/web/locale"
)

// Rule validates a single field value against the whole submission and
// returns a localized error message, or "" if the value passes.
type Rule func(values url.Values, name string) string

// Field couples a field name with its validation rules. Rules run in order;
// the first failure wins for that field.
type Field struct {
	Name  string
	Rules []Rule
}

// Form is a reusable, immutable description of a submission.
type Form struct {
	fields []Field
}

// Errors maps field names to their validation messages.
type Errors map[string]string

func New(fields ...Field) *Form {
	return &Form{fields: fields}
}

// Handle validates values against the form. On success it returns the
// sanitized (whitespace-trimmed) data for every declared field and a nil
// error map; otherwise data is nil and every failing field has a message.
func (f *Form) Handle(values url.Values) (map[string]string, Errors) {
	errs := make(Errors)
	for _, field := range f.fields {
		for _, rule := range field.Rules {
			if msg := rule(values, field.Name); msg != "" {
				errs[field.Name] = msg
				break
			}
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	data := make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		data[field.Name] = strings.TrimSpace(values.Get(field.Name))
	}
	return data, nil
}

// Required rejects an empty (or all-whitespace) field.
func Required() Rule {
	return func(values url.Values, name string) string {
		if strings.TrimSpace(values.Get(name)) == "" {
			return locale.I18n("form.required")
		}
		return ""
	}
}

// MaxLength rejects a field longer than max characters.
func MaxLength(max int) Rule {
	return func(values url.Values, name string) string {
		if len([]rune(strings.TrimSpace(values.Get(name)))) > max {
			return locale.I18n("form.tooLong", "Max=="+strconv.Itoa(max))
		}
		return ""
	}
}

// MatchField rejects the field when its value differs from other's value.
func MatchField(other string) Rule {
	return func(values url.Values, name string) string {
		if values.Get(name) != values.Get(other) {
			return locale.I18n("form.mismatch", "Other=="+other)
		}
		return ""
	}
}

// Check wraps an arbitrary predicate over the raw value. The message key is
// localized when the predicate rejects the value. Used for rules that need
// storage access, such as the username-availability fast path.
func Check(pred func(value string) bool, msgKey string) Rule {
	return func(values url.Values, name string) string {
		if !pred(strings.TrimSpace(values.Get(name))) {
			return locale.I18n(msgKey)
		}
		return ""
	}
}
