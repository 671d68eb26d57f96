// Package form validates form drafts and converts their string fields.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Thutra02/mypham-fe/internal/domain"
)

// DateLayout is the layout of <input type="date"> values.
const DateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return fieldName(f)
	})
	return v
}

// FieldErrors maps form field names to a message for the operator.
type FieldErrors map[string]string

// Add records msg for field unless the field already has a message.
func (fe FieldErrors) Add(field, msg string) {
	if _, ok := fe[field]; !ok {
		fe[field] = msg
	}
}

// Has reports whether field has an error.
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// Err returns a validation AppError carrying the messages, or nil when empty.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return domain.NewValidationError(map[string]string(fe))
}

// Validate runs the struct tag rules of v and returns one message per invalid
// field. Field names come from the `form` tag and labels from the `label` tag.
func Validate(v any) FieldErrors {
	fe := FieldErrors{}
	err := validate.Struct(v)
	if err == nil {
		return fe
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		fe.Add("_", err.Error())
		return fe
	}

	labels := labelMap(v)
	for _, e := range ve {
		label := labels[e.Field()]
		if label == "" {
			label = e.Field()
		}
		fe.Add(e.Field(), message(label, e))
	}
	return fe
}

func message(label string, e validator.FieldError) string {
	isString := e.Kind() == reflect.String
	switch e.Tag() {
	case "required":
		return label + " is required"
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", label, e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, e.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", label, e.Param())
		}
		return fmt.Sprintf("%s must be at most %s", label, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, e.Param())
	case "numeric", "number":
		return label + " must be a number"
	case "email":
		return label + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(e.Param(), " ", ", "))
	case "alphanum":
		return label + " may only contain letters and digits"
	case "uppercase":
		return label + " must be upper case"
	default:
		return label + " is invalid"
	}
}

func fieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// labelMap returns field name -> human label for the struct behind v.
func labelMap(v any) map[string]string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	m := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if label := f.Tag.Get("label"); label != "" {
			m[fieldName(f)] = label
		}
	}
	return m
}

// Decimal parses a money/amount field. Blank input is zero; invalid input is
// reported by Validate through the `numeric` rule, so it also maps to zero.
func Decimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatDecimal renders a decimal for an input value. Zero renders as "0".
func FormatDecimal(d decimal.Decimal) string {
	return d.String()
}

// Date parses a <input type="date"> value as UTC midnight. Blank input is the
// zero time.
func Date(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate renders t for a date input, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return FormatDate(a) == FormatDate(b)
}

// DecimalOr parses s and returns orig when the value is unchanged, so an
// untouched field round-trips with its original representation.
func DecimalOr(orig decimal.Decimal, s string) decimal.Decimal {
	d := Decimal(s)
	if d.Equal(orig) {
		return orig
	}
	return d
}

// DateOr parses s and returns orig when it falls on the same day, keeping the
// time of day the server stored.
func DateOr(orig time.Time, s string) time.Time {
	d, err := Date(s)
	if err != nil {
		return orig
	}
	if !orig.IsZero() && SameDay(d, orig) {
		return orig
	}
	return d
}

// FieldNames returns the form field names of the struct behind v in
// declaration order. Fields tagged `form:"-"` are skipped.
func FieldNames(v any) []string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("form") == "-" {
			continue
		}
		names = append(names, fieldName(f))
	}
	return names
}
