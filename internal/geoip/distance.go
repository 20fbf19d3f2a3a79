// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package geoip

import (
	"math"
	"slices"

	"github.com/olegiv/restro-web/internal/model"
)

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two points.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// BranchDistance is a branch with its distance from the visitor. Distance is
// negative when unknown.
type BranchDistance struct {
	model.Branch
	Distance float64
}

// HasDistance reports whether Distance is known.
func (b BranchDistance) HasDistance() bool {
	return b.Distance >= 0
}

// NearestFirst orders branches by distance from loc. Branches without
// coordinates go last; ties keep the input order. When loc is unknown the
// input order is kept and no distances are set.
func NearestFirst(branches []model.Branch, loc Location) []BranchDistance {
	out := make([]BranchDistance, len(branches))
	for i, b := range branches {
		out[i] = BranchDistance{Branch: b, Distance: -1}
		if loc.Known() && b.HasLocation() {
			out[i].Distance = DistanceKm(loc.Latitude, loc.Longitude, b.Latitude, b.Longitude)
		}
	}
	if !loc.Known() {
		return out
	}
	slices.SortStableFunc(out, func(a, b BranchDistance) int {
		switch {
		case a.HasDistance() && !b.HasDistance():
			return -1
		case !a.HasDistance() && b.HasDistance():
			return 1
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	return out
}
