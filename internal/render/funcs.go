// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/olegiv/restro-web/internal/model"
	"github.com/olegiv/restro-web/internal/resource"
	"github.com/olegiv/restro-web/internal/validation"
)

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	markdownPolicy = bluemonday.UGCPolicy()

	pricePrinter = message.NewPrinter(language.MustParse("en-IN"))
)

// TemplateFuncs returns the functions available to every template.
func (r *Renderer) TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(v any) string {
			return formatTime(v, "Jan 2, 2006")
		},
		"formatDateTime": func(v any) string {
			return formatTime(v, "Jan 2, 2006 3:04 PM")
		},
		"truncate": truncate,
		"lower":    strings.ToLower,
		"join":     strings.Join,
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"seq": func(start, end int) []int {
			var result []int
			for i := start; i <= end; i++ {
				result = append(result, i)
			}
			return result
		},
		"dict": dict,

		"price":    FormatPrice,
		"markdown": Markdown,
		"mediaURL": r.MediaURL,
		"stars":    stars,

		"sortURL": func(q resource.ListQuery, path, key string) string {
			return q.ToggleSort(key).URL(path)
		},
		"sortMark": sortMark,
		"pageURL": func(q resource.ListQuery, path string, page int) string {
			return q.WithPage(page).URL(path)
		},
		"statusURL": func(q resource.ListQuery, path, status string) string {
			return q.WithStatus(status).URL(path)
		},
		"searchURL": func(q resource.ListQuery, path, term string) string {
			return q.WithSearch(term).URL(path)
		},
		"filterURL": func(q resource.ListQuery, path, filter string) string {
			return q.WithFilter(filter).URL(path)
		},

		"inputType":    inputType,
		"userRole":     userRole,
		"isSuperAdmin": func(u *model.User) bool { return u != nil && u.Role == model.RoleSuperAdmin },
	}
}

// FormatPrice formats an amount in Indian rupees. A nil pointer formats as
// an empty string.
func FormatPrice(v any) string {
	var amount float64
	switch x := v.(type) {
	case float64:
		amount = x
	case *float64:
		if x == nil {
			return ""
		}
		amount = *x
	case int:
		amount = float64(x)
	default:
		return ""
	}
	return pricePrinter.Sprint(currency.Symbol(currency.INR.Amount(amount)))
}

// Markdown converts markdown to sanitized HTML.
func Markdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(markdownPolicy.SanitizeBytes(buf.Bytes()))
}

// MediaURL resolves an image path returned by the backend.
func (r *Renderer) MediaURL(p string) string {
	switch {
	case p == "":
		return ""
	case strings.HasPrefix(p, "http://"), strings.HasPrefix(p, "https://"), strings.HasPrefix(p, "data:"):
		return p
	case r.mediaBase == "":
		return p
	}
	return r.mediaBase + "/" + strings.TrimLeft(strings.ReplaceAll(p, "\\", "/"), "/")
}

func formatTime(v any, layout string) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(layout)
	case model.Timestamp:
		if t.IsZero() {
			return ""
		}
		return t.Format(layout)
	case string:
		ts, err := model.ParseTimestamp(t)
		if err != nil || ts.IsZero() {
			return t
		}
		return ts.Format(layout)
	}
	return ""
}

func truncate(s string, length int) string {
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}
	return strings.TrimSpace(string(runes[:length])) + "..."
}

func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

func stars(rating int) string {
	n := max(0, min(rating, model.MaxRating))
	return strings.Repeat("★", n) + strings.Repeat("☆", model.MaxRating-n)
}

func sortMark(q resource.ListQuery, key string) string {
	if q.Sort != key {
		return ""
	}
	if q.Dir == resource.Desc {
		return "▼"
	}
	return "▲"
}

func inputType(f validation.Field) string {
	switch {
	case f.Name == "password":
		return "password"
	case strings.Contains(f.Name, "email"):
		return "email"
	}
	switch f.Type {
	case validation.Number, validation.Integer:
		return "number"
	case validation.Boolean:
		return "checkbox"
	case validation.File:
		return "file"
	case validation.Date:
		return "date"
	}
	return "text"
}

func userRole(u *model.User) string {
	if u == nil {
		return ""
	}
	return string(u.Role)
}
