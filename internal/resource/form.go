// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/olegiv/restro-web/internal/apiclient"
	"github.com/olegiv/restro-web/internal/validation"
)

// Upload is a file attached to a form.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Form is the draft of a record being created or edited.
type Form struct {
	Schema     *validation.Schema
	Mode       validation.Mode
	ID         int64
	Values     validation.Values
	Uploads    map[string]Upload
	Extra      map[string]any // sent with the payload, not rendered
	Errors     validation.Errors
	Dirty      bool
	Submitting bool
}

// NewForm returns an empty create draft with field defaults.
func NewForm(schema *validation.Schema) *Form {
	f := &Form{
		Schema:  schema,
		Mode:    validation.Create,
		Values:  make(validation.Values),
		Uploads: make(map[string]Upload),
		Extra:   make(map[string]any),
		Errors:  make(validation.Errors),
	}
	for _, field := range schema.Fields {
		f.Values[field.Name] = field.Default
	}
	return f
}

// FormFrom returns an edit draft copied from rec. Write-only fields such as
// passwords and uploads start empty.
func FormFrom[T any](schema *validation.Schema, id int64, rec T) *Form {
	f := NewForm(schema)
	f.Mode = validation.Update
	f.ID = id

	data, err := json.Marshal(rec)
	if err != nil {
		return f
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return f
	}
	for _, field := range schema.Fields {
		if field.WriteOnly {
			f.Values[field.Name] = ""
			continue
		}
		if v, ok := fields[field.Name]; ok {
			f.Values[field.Name] = stringify(v)
		}
	}
	return f
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// Set changes a draft value.
func (f *Form) Set(name, value string) {
	if f.Values[name] != value {
		f.Dirty = true
	}
	f.Values[name] = value
	delete(f.Errors, name)
}

// Attach adds an upload; its file name becomes the field value.
func (f *Form) Attach(u Upload) {
	f.Uploads[u.Field] = u
	f.Set(u.Field, u.Filename)
}

// Value returns the draft value of name.
func (f *Form) Value(name string) string {
	return f.Values[name]
}

// Checked reports whether a boolean field is set.
func (f *Form) Checked(name string) bool {
	return f.Values.Bool(name)
}

// Error returns the validation message of name.
func (f *Form) Error(name string) string {
	return f.Errors[name]
}

// Bind copies the schema fields from a submitted HTML form. Unchecked
// checkboxes bind as false.
func (f *Form) Bind(r *http.Request, maxBytes int64) error {
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return fmt.Errorf("parsing form: %w", err)
	}

	for _, field := range f.Schema.Fields {
		switch field.Type {
		case validation.File:
			u, ok, err := readUpload(r, field.Name, maxBytes)
			if err != nil {
				return err
			}
			if ok {
				f.Attach(u)
			} else if f.Mode == validation.Update {
				f.Set(field.Name, "")
			}
		case validation.Boolean:
			f.Set(field.Name, strconv.FormatBool(validation.ParseBool(r.PostFormValue(field.Name))))
		default:
			f.Set(field.Name, strings.TrimSpace(r.PostFormValue(field.Name)))
		}
	}
	return nil
}

func readUpload(r *http.Request, name string, maxBytes int64) (Upload, bool, error) {
	if r.MultipartForm == nil {
		return Upload{}, false, nil
	}
	file, header, err := r.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) {
		return Upload{}, false, nil
	}
	if err != nil {
		return Upload{}, false, fmt.Errorf("reading %s: %w", name, err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return Upload{}, false, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(data) == 0 {
		return Upload{}, false, nil
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return Upload{
		Field:       name,
		Filename:    filepath.Base(header.Filename),
		ContentType: contentType,
		Data:        data,
	}, true, nil
}

// Validate runs the schema rules and the upload checks. It returns false
// when the draft must not be submitted.
func (f *Form) Validate() bool {
	f.Errors = f.Schema.Validate(f.Values, f.Mode)
	for name, u := range f.Uploads {
		field, ok := f.Schema.Field(name)
		if !ok || f.Errors.Has(name) {
			continue
		}
		if msg := checkUpload(field, u); msg != "" {
			f.Errors.Add(name, msg)
		}
	}
	return !f.Errors.Any()
}

func checkUpload(field validation.Field, u Upload) string {
	if field.MaxBytes > 0 && int64(len(u.Data)) > field.MaxBytes {
		return fmt.Sprintf("File size must be less than %dMB", field.MaxBytes>>20)
	}
	switch {
	case field.Accept == "":
		return ""
	case strings.HasSuffix(field.Accept, "/*"):
		prefix := strings.TrimSuffix(field.Accept, "*")
		if !strings.HasPrefix(u.ContentType, prefix) {
			return "Please upload " + strings.TrimSuffix(prefix, "/") + " files only"
		}
	default:
		ext := strings.ToLower(filepath.Ext(u.Filename))
		for _, allowed := range strings.Split(field.Accept, ",") {
			if strings.TrimSpace(allowed) == ext {
				return ""
			}
		}
		return "Allowed file types: " + field.Accept
	}
	return ""
}

// Request encodes the draft for ep. Schemas with a file field are sent as
// multipart form data, all others as JSON. Extra values are appended in key
// order and transform, when set, rewrites every upload first.
func (f *Form) Request(method, path string, ep Endpoint, transform func(Upload) (Upload, error)) (apiclient.Request, error) {
	req := apiclient.Request{Method: method, Path: path}
	query := url.Values{}

	var form *apiclient.Multipart
	var body map[string]any
	if f.Schema.HasFile() {
		form = apiclient.NewMultipart()
	} else {
		body = make(map[string]any)
	}

	for _, field := range f.Schema.Fields {
		if ep.omits(field.Name) {
			continue
		}
		if field.Type == validation.File {
			u, ok := f.Uploads[field.Name]
			if !ok || form == nil {
				continue
			}
			if transform != nil {
				var err error
				if u, err = transform(u); err != nil {
					return req, fmt.Errorf("processing %s: %w", field.Name, err)
				}
			}
			form.AddFile(apiclient.FilePart{Field: field.Name, Filename: u.Filename, ContentType: u.ContentType, Data: u.Data})
			continue
		}

		raw := f.Values.Get(field.Name)
		if field.WriteOnly && raw == "" {
			continue
		}
		if ep.isQueryField(field.Name) {
			if raw != "" {
				query.Set(field.Name, raw)
			}
			continue
		}
		v, ok := typedValue(field, raw)
		if !ok {
			continue
		}
		if form != nil {
			form.Set(field.Name, fmt.Sprint(v))
		} else {
			body[field.Name] = v
		}
	}

	keys := make([]string, 0, len(f.Extra))
	for k := range f.Extra {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		v := f.Extra[k]
		switch {
		case ep.isQueryField(k):
			query.Set(k, fmt.Sprint(v))
		case form != nil:
			form.Set(k, fmt.Sprint(v))
		default:
			body[k] = v
		}
	}

	if len(query) > 0 {
		req.Query = query
	}
	if form != nil {
		req.Form = form
	} else {
		req.JSON = body
	}
	return req, nil
}

// typedValue converts a raw form value to its JSON type. Empty numbers and
// dates are left out.
func typedValue(field validation.Field, raw string) (any, bool) {
	switch field.Type {
	case validation.Boolean:
		return validation.ParseBool(raw), true
	case validation.Integer:
		n, err := strconv.ParseInt(raw, 10, 64)
		return n, err == nil
	case validation.Number:
		n, err := strconv.ParseFloat(raw, 64)
		return n, err == nil
	case validation.Date:
		return raw, raw != ""
	}
	return raw, true
}
