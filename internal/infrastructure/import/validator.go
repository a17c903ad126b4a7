package fileimport

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FieldType represents the expected type of a field
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInt     FieldType = "int"
	TypeDecimal FieldType = "decimal"
	TypeDate    FieldType = "date"
)

// DateLayouts are the accepted layouts for date columns, tried in order
var DateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"02.01.2006",
	"01/02/2006",
}

// FieldRule defines validation rules for a column
type FieldRule struct {
	Column      string
	Type        FieldType
	Required    bool
	MaxLength   int
	MinValue    *decimal.Decimal
	MaxValue    *decimal.Decimal
	Pattern     *regexp.Regexp
	PatternDesc string
	CustomFunc  func(value string) error
}

// FieldRuleBuilder helps build field rules fluently
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field creates a new field rule builder
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{rule: FieldRule{Column: column, Type: TypeString}}
}

// Required marks the field as required
func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

// Int sets the field type to integer
func (b *FieldRuleBuilder) Int() *FieldRuleBuilder {
	b.rule.Type = TypeInt
	return b
}

// Decimal sets the field type to decimal
func (b *FieldRuleBuilder) Decimal() *FieldRuleBuilder {
	b.rule.Type = TypeDecimal
	return b
}

// Date sets the field type to date
func (b *FieldRuleBuilder) Date() *FieldRuleBuilder {
	b.rule.Type = TypeDate
	return b
}

// MaxLength sets the maximum length in characters
func (b *FieldRuleBuilder) MaxLength(n int) *FieldRuleBuilder {
	b.rule.MaxLength = n
	return b
}

// MinValue sets the minimum numeric value
func (b *FieldRuleBuilder) MinValue(v decimal.Decimal) *FieldRuleBuilder {
	b.rule.MinValue = &v
	return b
}

// MaxValue sets the maximum numeric value
func (b *FieldRuleBuilder) MaxValue(v decimal.Decimal) *FieldRuleBuilder {
	b.rule.MaxValue = &v
	return b
}

// Pattern sets a regex the value must match
func (b *FieldRuleBuilder) Pattern(pattern, description string) *FieldRuleBuilder {
	b.rule.Pattern = regexp.MustCompile(pattern)
	b.rule.PatternDesc = description
	return b
}

// Custom sets a custom validation function
func (b *FieldRuleBuilder) Custom(fn func(value string) error) *FieldRuleBuilder {
	b.rule.CustomFunc = fn
	return b
}

// Build returns the built rule
func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// FieldValidator checks rows against rules, collecting errors
type FieldValidator struct {
	rules  []FieldRule
	errors *ErrorCollection
}

// NewFieldValidator creates a new field validator. Rules are applied in the given order.
func NewFieldValidator(rules []FieldRule, errors *ErrorCollection) *FieldValidator {
	return &FieldValidator{rules: rules, errors: errors}
}

// ValidateRow validates every rule against row; it returns false when any failed
func (v *FieldValidator) ValidateRow(row *Row) bool {
	ok := true
	for _, rule := range v.rules {
		value := row.Get(rule.Column)
		if value == "" {
			if rule.Required {
				v.errors.AddRequiredError(row, rule.Column)
				ok = false
			}
			continue
		}

		if err := validateType(value, rule.Type); err != nil {
			v.errors.AddTypeError(row, rule.Column, string(rule.Type), value)
			ok = false
			continue
		}
		if rule.MaxLength > 0 && len([]rune(value)) > rule.MaxLength {
			v.errors.AddLengthError(row, rule.Column, rule.MaxLength)
			ok = false
		}
		if rule.Type == TypeInt || rule.Type == TypeDecimal {
			if msg := checkRange(value, rule.MinValue, rule.MaxValue); msg != "" {
				v.errors.AddRangeError(row, rule.Column, msg)
				ok = false
			}
		}
		if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
			v.errors.AddValidationError(row, rule.Column, ErrCodeInvalidFormat,
				fmt.Sprintf("value does not match %s", rule.PatternDesc))
			ok = false
		}
		if rule.CustomFunc != nil {
			if err := rule.CustomFunc(value); err != nil {
				v.errors.AddValidationError(row, rule.Column, ErrCodeValidation, err.Error())
				ok = false
			}
		}
	}
	return ok
}

func validateType(value string, fieldType FieldType) error {
	switch fieldType {
	case TypeInt:
		_, err := ParseInt(value)
		return err
	case TypeDecimal:
		_, err := ParseDecimal(value)
		return err
	case TypeDate:
		_, err := ParseDate(value)
		return err
	}
	return nil
}

func checkRange(value string, min, max *decimal.Decimal) string {
	d, err := ParseDecimal(value)
	if err != nil {
		return ""
	}
	if min != nil && d.LessThan(*min) {
		return fmt.Sprintf("value must be at least %s", min.String())
	}
	if max != nil && d.GreaterThan(*max) {
		return fmt.Sprintf("value must be at most %s", max.String())
	}
	return ""
}

// ParseDecimal parses a number, accepting a decimal comma and spaces as thousands separators
func ParseDecimal(value string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(trimSpaces(value), " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

// ParseInt parses an integer; spreadsheet values such as "5.0" are accepted when whole
func ParseInt(value string) (int, error) {
	s := trimSpaces(value)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	d, err := ParseDecimal(s)
	if err != nil || !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("invalid integer %q", value)
	}
	return int(d.IntPart()), nil
}

// ParseDate parses a value with the first matching DateLayouts entry, in UTC
func ParseDate(value string) (time.Time, error) {
	s := trimSpaces(value)
	for _, layout := range DateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}
