// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/olegiv/restro-web/internal/apiclient"
	"github.com/olegiv/restro-web/internal/model"
)

// fakeDoer serves list on GET and records every request.
type fakeDoer struct {
	mu       sync.Mutex
	list     any
	requests []apiclient.Request
	errs     map[string]error // by method
}

func (d *fakeDoer) Do(_ context.Context, req apiclient.Request, out any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, req)
	if err := d.errs[req.Method]; err != nil {
		return err
	}
	if req.Method == http.MethodGet && out != nil {
		data, err := json.Marshal(d.list)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, out)
	}
	return nil
}

func (d *fakeDoer) count(method string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, r := range d.requests {
		if r.Method == method {
			n++
		}
	}
	return n
}

func (d *fakeDoer) last(method string) (apiclient.Request, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(d.requests) - 1; i >= 0; i-- {
		if d.requests[i].Method == method {
			return d.requests[i], true
		}
	}
	return apiclient.Request{}, false
}

var testBranches = []model.Branch{
	{ID: 1, Name: "Campus Branch", City: "Nashik", BranchStatus: model.BranchOpen, SeatingCapacity: 40},
	{ID: 2, Name: "Harbour", City: "Mumbai", BranchStatus: model.BranchClosed, SeatingCapacity: 80},
	{ID: 3, Name: "Old Town", City: "Pune", BranchStatus: model.BranchUnderMaintenance, SeatingCapacity: 25},
	{ID: 4, Name: "Riverside", City: "Nashik", BranchStatus: model.BranchOpen, SeatingCapacity: 60},
	{ID: 5, Name: "Airport", City: "Mumbai", BranchStatus: model.BranchClosed, SeatingCapacity: 30},
}

var branchList = Schema[model.Branch]{
	Search: func(b model.Branch) []string { return []string{b.Name, b.City} },
	Status: func(b model.Branch) string { return string(b.BranchStatus) },
	Sorts: map[string]func(a, b model.Branch) int{
		"name":     ByText(func(b model.Branch) string { return b.Name }),
		"capacity": By(func(b model.Branch) int { return b.SeatingCapacity }),
		"city":     ByText(func(b model.Branch) string { return b.City }),
	},
}
