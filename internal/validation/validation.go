// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package validation defines form schemas once and evaluates them through
// JSON Schema, so the same rules can be served to other clients.
package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the value type of a field.
type Type string

// Field types
const (
	String  Type = "string"
	Text    Type = "text" // multi-line string
	Number  Type = "number"
	Integer Type = "integer"
	Boolean Type = "boolean"
	File    Type = "file"
	Date    Type = "date"
)

func (t Type) jsonType() string {
	switch t {
	case Number:
		return "number"
	case Integer:
		return "integer"
	case Boolean:
		return "boolean"
	}
	return "string"
}

// Mode selects create or update rules.
type Mode int

// Validation modes
const (
	Create Mode = iota
	Update
)

// Requirement tells when a field must be present.
type Requirement int

// Field requirements
const (
	Optional Requirement = iota
	Required
	RequiredOnCreate
)

func (r Requirement) applies(mode Mode) bool {
	return r == Required || (r == RequiredOnCreate && mode == Create)
}

// Pattern is a regular expression rule with its message.
type Pattern struct {
	Expr       string
	Message    string
	CreateOnly bool
}

// Field describes one form input and its rules.
type Field struct {
	Name        string
	Label       string
	Type        Type
	Requirement Requirement
	MinLength   int
	Patterns    []Pattern
	Enum        []string
	Min         *float64
	Max         *float64
	Accept      string // file inputs only
	MaxBytes    int64  // file inputs only
	WriteOnly   bool   // cleared when a record is loaded for editing
	Hidden      bool   // not rendered as an input
	Default     string
	Help        string

	RequiredMessage string
	// MinLengthCreateOnly limits MinLength to new records.
	MinLengthCreateOnly bool
	// Check runs after the schema rules when the value is present.
	Check func(value string, values Values) string
}

// Values holds raw form values keyed by field name. File fields hold the
// uploaded file name.
type Values map[string]string

// Get returns the trimmed value of name.
func (v Values) Get(name string) string {
	return strings.TrimSpace(v[name])
}

// Bool interprets a checkbox value.
func (v Values) Bool(name string) bool {
	return ParseBool(v[name])
}

// ParseBool interprets form checkbox values.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// Errors maps a field name to its first failing message.
type Errors map[string]string

// Error implements error.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has an error.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Has reports whether field has an error.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Any reports whether there is at least one error.
func (e Errors) Any() bool {
	return len(e) > 0
}

// DisplayLabel returns the label shown next to the input.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

func (f Field) requiredMessage() string {
	if f.RequiredMessage != "" {
		return f.RequiredMessage
	}
	return f.DisplayLabel() + " is required"
}

func (f Field) minLengthMessage() string {
	return fmt.Sprintf("%s must be at least %d characters", f.DisplayLabel(), f.MinLength)
}

func (f Field) typeMessage() string {
	if f.Type == Integer {
		return f.DisplayLabel() + " must be a whole number"
	}
	return f.DisplayLabel() + " must be a valid number"
}

func (f Field) enumMessage() string {
	return "Please select a valid " + strings.ToLower(f.DisplayLabel())
}

func (f Field) rangeMessage() string {
	switch {
	case f.Min != nil && f.Max != nil:
		return fmt.Sprintf("%s must be between %s and %s", f.DisplayLabel(), formatBound(*f.Min), formatBound(*f.Max))
	case f.Min != nil:
		return fmt.Sprintf("%s must be at least %s", f.DisplayLabel(), formatBound(*f.Min))
	case f.Max != nil:
		return fmt.Sprintf("%s must be at most %s", f.DisplayLabel(), formatBound(*f.Max))
	}
	return f.DisplayLabel() + " is out of range"
}

func formatBound(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
}

// Bound returns a pointer to v for Field.Min and Field.Max.
func Bound(v float64) *float64 {
	return &v
}
