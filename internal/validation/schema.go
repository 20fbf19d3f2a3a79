// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package validation

import (
	"fmt"
	"strconv"

	"github.com/xeipuuv/gojsonschema"
)

// FormKey is the Errors key for problems not tied to a single field.
const FormKey = "_form"

// error ordering within one field; the lowest rank wins
const (
	rankRequired = 0
	rankType     = 1
	rankLength   = 2
	rankPattern  = 3
	rankEnum     = 100
	rankRange    = 101
	rankCheck    = 200
)

// Schema is the rule set of one resource form.
type Schema struct {
	Resource string
	Title    string
	Fields   []Field

	compiled [2]*gojsonschema.Schema
}

// MustSchema builds and compiles a schema. It panics if a rule does not
// compile, like regexp.MustCompile.
func MustSchema(resource, title string, fields ...Field) *Schema {
	s := &Schema{Resource: resource, Title: title, Fields: fields}
	for _, mode := range []Mode{Create, Update} {
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(s.Document(mode)))
		if err != nil {
			panic(fmt.Sprintf("validation: compiling %s schema: %v", resource, err))
		}
		s.compiled[mode] = compiled
	}
	return s
}

// Field returns the field named name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// HasFile reports whether any field is a file upload.
func (s *Schema) HasFile() bool {
	for _, f := range s.Fields {
		if f.Type == File {
			return true
		}
	}
	return false
}

// Document returns the JSON Schema for mode.
func (s *Schema) Document(mode Mode) map[string]any {
	props := make(map[string]any, len(s.Fields))
	var required []string

	for _, f := range s.Fields {
		p := map[string]any{
			"type":  f.Type.jsonType(),
			"title": f.DisplayLabel(),
		}
		if f.Type == File {
			p["contentMediaType"] = f.Accept
		}
		if n := f.minLength(mode); n > 0 {
			p["minLength"] = n
		}
		patterns := f.patterns(mode)
		switch len(patterns) {
		case 0:
		case 1:
			p["pattern"] = patterns[0].Expr
		default:
			all := make([]any, len(patterns))
			for i, pat := range patterns {
				all[i] = map[string]any{"pattern": pat.Expr}
			}
			p["allOf"] = all
		}
		if len(f.Enum) > 0 {
			p["enum"] = f.Enum
		}
		if f.Min != nil {
			p["minimum"] = *f.Min
		}
		if f.Max != nil {
			p["maximum"] = *f.Max
		}
		if f.WriteOnly {
			p["writeOnly"] = true
		}
		props[f.Name] = p

		if f.Requirement.applies(mode) {
			required = append(required, f.Name)
		}
	}

	doc := map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"title":      s.Title,
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func (f Field) minLength(mode Mode) int {
	if f.MinLengthCreateOnly && mode != Create {
		return 0
	}
	return f.MinLength
}

func (f Field) patterns(mode Mode) []Pattern {
	out := make([]Pattern, 0, len(f.Patterns))
	for _, p := range f.Patterns {
		if p.CreateOnly && mode != Create {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Validate checks values against the schema and returns the first failing
// message of each field. Empty values are left out of the document so that
// only the required rule can fire for them.
func (s *Schema) Validate(values Values, mode Mode) Errors {
	errs := make(Errors)
	ranks := make(map[string]int)
	set := func(field string, rank int, msg string) {
		if r, ok := ranks[field]; ok && r <= rank {
			return
		}
		ranks[field] = rank
		errs[field] = msg
	}

	doc := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		raw := values.Get(f.Name)
		if f.Type == Boolean {
			doc[f.Name] = ParseBool(raw)
			continue
		}
		if raw == "" {
			continue
		}
		switch f.Type {
		case Number:
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				set(f.Name, rankType, f.typeMessage())
				doc[f.Name] = raw
				continue
			}
			doc[f.Name] = n
		case Integer:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				set(f.Name, rankType, f.typeMessage())
				doc[f.Name] = raw
				continue
			}
			doc[f.Name] = n
		default:
			doc[f.Name] = raw
		}
	}

	result, err := s.compiled[mode].Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		errs[FormKey] = "The form could not be validated. Please try again."
		return errs
	}

	for _, re := range result.Errors() {
		name := re.Field()
		if re.Type() == "required" {
			name, _ = re.Details()["property"].(string)
		}
		f, ok := s.Field(name)
		if !ok {
			continue
		}
		switch re.Type() {
		case "required":
			set(f.Name, rankRequired, f.requiredMessage())
		case "invalid_type":
			set(f.Name, rankType, f.typeMessage())
		case "string_gte":
			set(f.Name, rankLength, f.minLengthMessage())
		case "pattern":
			expr := fmt.Sprint(re.Details()["pattern"])
			for i, p := range f.patterns(mode) {
				if p.Expr == expr {
					set(f.Name, rankPattern+i, p.Message)
					break
				}
			}
		case "enum":
			set(f.Name, rankEnum, f.enumMessage())
		case "number_gte", "number_lte", "number_gt", "number_lt":
			set(f.Name, rankRange, f.rangeMessage())
		}
	}

	for _, f := range s.Fields {
		if f.Check == nil || errs.Has(f.Name) {
			continue
		}
		if v := values.Get(f.Name); v != "" {
			if msg := f.Check(v, values); msg != "" {
				set(f.Name, rankCheck, msg)
			}
		}
	}

	return errs
}
