// Package validate checks parsed contact records against the import rules.
//
// Rules run in a fixed order and independently of each other; every violation
// is reported, so a single record may produce several messages:
//  1. the full name must be present and non-empty;
//  2. the full name must not contain any of < > | : * ? " \ /;
//  3. the record must have at least one telephone or email;
//  4. every telephone may only contain digits, whitespace, +, -, ( and ).
package validate

import (
	"regexp"
	"vcfclean/pkg/domain"
)

// Violation messages. Messages of rules 2 and 4 are followed by the offending value.
const (
	MsgMissingFullName  = "Missing full name"
	MsgInvalidNameChars = "Invalid characters in name: "
	MsgMissingContact   = "Missing phone and/or email"
	MsgInvalidPhone     = "Invalid phone format: "
)

var (
	invalidNameChars = regexp.MustCompile(`[<>|:*?"\\/]`)  //nolint: gochecknoglobals
	phonePattern     = regexp.MustCompile(`^[+0-9\s\-()]+$`) //nolint: gochecknoglobals
)

// Validator validates records.
type Validator interface {
	Validate(record domain.Record) domain.ValidationResult
}

// Rule is a single check. It appends its messages to result and returns it.
type Rule func(record domain.Record, result domain.ValidationResult) domain.ValidationResult

// Rules returns the built-in rules in evaluation order.
func Rules() []Rule {
	return []Rule{fullNamePresent, fullNameCharset, contactable, phoneFormat}
}

type validator struct {
	rules []Rule
}

// New returns a Validator running the built-in rules.
func New() Validator {
	return validator{rules: Rules()}
}

// Validate runs every rule in order and returns the concatenated messages.
// The result is empty for a valid record. Validate is pure and deterministic.
func (v validator) Validate(record domain.Record) domain.ValidationResult {
	result := domain.ValidationResult{}
	for _, rule := range v.rules {
		result = rule(record, result)
	}

	return result
}

func fullNamePresent(record domain.Record, result domain.ValidationResult) domain.ValidationResult {
	if name, ok := record.Name(); !ok || name == "" {
		return append(result, MsgMissingFullName)
	}

	return result
}

func fullNameCharset(record domain.Record, result domain.ValidationResult) domain.ValidationResult {
	if name, ok := record.Name(); ok && invalidNameChars.MatchString(name) {
		return append(result, MsgInvalidNameChars+name)
	}

	return result
}

func contactable(record domain.Record, result domain.ValidationResult) domain.ValidationResult {
	if len(record.Telephones) == 0 && len(record.Emails) == 0 {
		return append(result, MsgMissingContact)
	}

	return result
}

func phoneFormat(record domain.Record, result domain.ValidationResult) domain.ValidationResult {
	for _, tel := range record.Telephones {
		if !phonePattern.MatchString(tel) {
			result = append(result, MsgInvalidPhone+tel)
		}
	}

	return result
}
