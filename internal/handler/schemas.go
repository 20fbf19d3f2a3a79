// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/restro-web/internal/validation"
)

// Schema handles GET /admin/schemas/{resource}.json. It serves the form
// schema of a resource as a JSON Schema document; ?mode=update relaxes the
// fields that are only required on create.
func (h *AdminHandler) Schema(w http.ResponseWriter, r *http.Request) {
	schema, ok := validation.Lookup(chi.URLParam(r, "resource"))
	if !ok {
		writeJSONError(w, http.StatusNotFound, "unknown resource")
		return
	}
	mode := validation.Create
	if r.URL.Query().Get("mode") == "update" {
		mode = validation.Update
	}
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, http.StatusOK, schema.Document(mode))
}
