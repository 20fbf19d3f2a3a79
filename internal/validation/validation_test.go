// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validUser() Values {
	return Values{
		"username":      "asha",
		"email":         "asha@example.com",
		"mobile_number": "+919876543210",
		"role":          "admin",
		"password":      "Secret#123",
	}
}

func TestUserSchema_Valid(t *testing.T) {
	errs := UserSchema.Validate(validUser(), Create)
	assert.False(t, errs.Any(), "unexpected errors: %v", errs)
}

func TestUserSchema_FieldMessages(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		mode  Mode
		want  string
	}{
		{"username required", "username", "", Create, "Username is required"},
		{"username too short", "username", "ab", Create, "Username must be at least 3 characters"},
		{"email format", "email", "asha@example", Create, "Invalid email format"},
		{"mobile required", "mobile_number", "  ", Create, "Mobile number is required"},
		{"mobile format", "mobile_number", "0123", Create, "Invalid mobile number format"},
		{"role unknown", "role", "chef", Create, "Please select a valid role"},
		{"password required on create", "password", "", Create, "Password is required"},
		{"password short", "password", "Ab1!", Create, "Password must be at least 8 characters"},
		{"password upper", "password", "secret#123", Create, "Password must contain at least one uppercase letter"},
		{"password lower", "password", "SECRET#123", Create, "Password must contain at least one lowercase letter"},
		{"password digit", "password", "Secret#abc", Create, "Password must contain at least one number"},
		{"password special", "password", "Secret1234", Create, "Password must contain at least one special character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := validUser()
			values[tt.field] = tt.value

			errs := UserSchema.Validate(values, tt.mode)
			assert.Equal(t, tt.want, errs[tt.field])
			assert.Len(t, errs, 1, "only %s should fail: %v", tt.field, errs)
		})
	}
}

func TestUserSchema_UpdatePasswordOptional(t *testing.T) {
	values := validUser()
	values["password"] = ""
	assert.False(t, UserSchema.Validate(values, Update).Any())

	// Length and complexity rules only apply to new accounts.
	values["password"] = "alllowercase"
	assert.False(t, UserSchema.Validate(values, Update).Any())
	values["password"] = "short"
	assert.False(t, UserSchema.Validate(values, Update).Any())
}

func TestBranchSchema(t *testing.T) {
	values := Values{
		"name":      "Campus Branch",
		"latitude":  "19.99",
		"longitude": "73.78",
		"address":   "College Road",
		"city":      "Nashik",
		"country":   "India",
	}
	require.False(t, BranchSchema.Validate(values, Create).Any())

	values["latitude"] = "north"
	values["email"] = "not-an-email"
	values["seating_capacity"] = "12.5"
	values["city"] = ""

	errs := BranchSchema.Validate(values, Create)
	assert.Equal(t, "Latitude must be a valid number", errs["latitude"])
	assert.Equal(t, "Invalid email format", errs["email"])
	assert.Equal(t, "Seating capacity must be a whole number", errs["seating_capacity"])
	assert.Equal(t, "City is required", errs["city"])
}

func TestBranchSchema_Range(t *testing.T) {
	values := Values{
		"name": "X", "latitude": "120", "longitude": "0",
		"address": "a", "city": "b", "country": "c",
	}
	errs := BranchSchema.Validate(values, Create)
	assert.Equal(t, "Latitude must be between -90 and 90", errs["latitude"])
}

func TestOrderLinkSchema(t *testing.T) {
	errs := OrderLinkSchema.Validate(Values{}, Create)
	assert.Equal(t, "Platform name is required", errs["platform"])
	assert.Equal(t, "URL is required", errs["url"])
	assert.Equal(t, "Branch selection is required", errs["branch_id"])
	assert.Equal(t, "Logo is required for new links", errs["logo"])

	errs = OrderLinkSchema.Validate(Values{"platform": "Zomato", "url": "zomato.com/x", "branch_id": "3"}, Update)
	assert.Equal(t, Errors{"url": "URL must start with http:// or https://"}, errs)

	errs = OrderLinkSchema.Validate(Values{"platform": "Zomato", "url": "HTTPS://zomato.com/x", "branch_id": "3"}, Update)
	assert.False(t, errs.Any(), "scheme match is case-insensitive: %v", errs)
}

func TestFranchiseSchema_BudgetNotNumeric(t *testing.T) {
	values := Values{
		"user_name":         "Ravi",
		"user_email":        "ravi@example.com",
		"user_phone":        "9876543210",
		"investment_budget": "abc",
	}
	assert.False(t, FranchiseSchema.Validate(values, Create).Any())
}

func TestTestimonialSchema_Rating(t *testing.T) {
	values := Values{"name": "A", "email": "a@b.co", "description": "Great", "rating": "6"}
	errs := TestimonialSchema.Validate(values, Create)
	assert.Equal(t, "Rating must be between 1 and 5", errs["rating"])
}

func TestCheckRunsLast(t *testing.T) {
	s := MustSchema("probe", "Probe",
		Field{Name: "code", Label: "Code", Type: String, Requirement: Required,
			Check: func(v string, _ Values) string {
				if v != "ok" {
					return "Code is wrong"
				}
				return ""
			}},
	)

	assert.Equal(t, "Code is required", s.Validate(Values{}, Create)["code"])
	assert.Equal(t, "Code is wrong", s.Validate(Values{"code": "no"}, Create)["code"])
	assert.False(t, s.Validate(Values{"code": "ok"}, Create).Any())
}

func TestSchemaDocument(t *testing.T) {
	doc := UserSchema.Document(Create)
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded struct {
		Required   []string                  `json:"required"`
		Properties map[string]map[string]any `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Contains(t, decoded.Required, "password")
	assert.Len(t, decoded.Properties["password"]["allOf"], 4)
	assert.Equal(t, float64(3), decoded.Properties["username"]["minLength"])

	assert.Equal(t, float64(8), decoded.Properties["password"]["minLength"])

	update := UserSchema.Document(Update)
	assert.NotContains(t, update["required"], "password")
	password := update["properties"].(map[string]any)["password"].(map[string]any)
	assert.NotContains(t, password, "minLength")
}

func TestSchemaHasFile(t *testing.T) {
	assert.True(t, MenuItemSchema.HasFile())
	assert.True(t, OrderLinkSchema.HasFile())
	assert.False(t, UserSchema.HasFile())
	assert.False(t, FranchiseSchema.HasFile())
}

func TestLookup(t *testing.T) {
	s, ok := Lookup("users")
	require.True(t, ok)
	assert.Same(t, UserSchema, s)

	_, ok = Lookup("nope")
	assert.False(t, ok)
	assert.Contains(t, Resources(), "branches")
}

func TestErrors(t *testing.T) {
	errs := Errors{}
	errs.Add("name", "first")
	errs.Add("name", "second")
	errs.Add("email", "bad")

	assert.Equal(t, "first", errs["name"])
	assert.True(t, errs.Has("email"))
	assert.Equal(t, "validation failed: email: bad; name: first", errs.Error())
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"on", "true", "1", "YES"} {
		assert.True(t, ParseBool(v), v)
	}
	for _, v := range []string{"", "off", "false", "0"} {
		assert.False(t, ParseBool(v), v)
	}
}
