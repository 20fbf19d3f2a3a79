// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip resolves visitor addresses to an approximate location using
// a MaxMind GeoLite2-City database, for nearest-branch ordering.
package geoip

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"

	"github.com/olegiv/restro-web/internal/util"
)

// Location is an approximate visitor position.
type Location struct {
	City      string
	Country   string // ISO code
	Latitude  float64
	Longitude float64
}

// Known reports whether the location carries coordinates.
func (l Location) Known() bool {
	return l.Latitude != 0 || l.Longitude != 0
}

// Lookup resolves IP addresses with a GeoLite2-City database.
type Lookup struct {
	db          *maxminddb.Reader
	dbPath      string
	dbModTime   time.Time
	initialized bool
	enabled     bool
	mu          sync.RWMutex
}

// cityRecord matches the parts of the GeoLite2-City structure we read.
type cityRecord struct {
	City struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"city"`
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
	Location struct {
		Latitude  float64 `maxminddb:"latitude"`
		Longitude float64 `maxminddb:"longitude"`
	} `maxminddb:"location"`
}

// NewLookup creates a new GeoIP lookup instance.
func NewLookup() *Lookup {
	return &Lookup{}
}

// Init opens the database at dbPath. An empty path disables lookups.
func (g *Lookup) Init(dbPath string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.initialized = true
	g.dbPath = dbPath

	if dbPath == "" {
		g.enabled = false
		return nil
	}
	return g.loadDatabase()
}

// loadDatabase loads or reloads the database. Caller must hold g.mu.
func (g *Lookup) loadDatabase() error {
	info, err := os.Stat(g.dbPath)
	if err != nil {
		g.enabled = false
		if os.IsNotExist(err) {
			return fmt.Errorf("GeoIP database not found: %s", g.dbPath)
		}
		return fmt.Errorf("GeoIP database stat error: %w", err)
	}

	if g.db != nil && info.ModTime().Equal(g.dbModTime) {
		return nil
	}

	db, err := maxminddb.Open(g.dbPath)
	if err != nil {
		// Keep serving from the previous file, if any.
		return fmt.Errorf("failed to open GeoIP database: %w", err)
	}
	if g.db != nil {
		_ = g.db.Close()
	}

	g.db = db
	g.dbModTime = info.ModTime()
	g.enabled = true
	return nil
}

// Reload reopens the database when the file has changed.
func (g *Lookup) Reload() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.dbPath == "" {
		return nil
	}
	return g.loadDatabase()
}

// Locate returns the location of ip. The second result is false for
// invalid, private and loopback addresses, when lookups are disabled and
// when the database has no coordinates for the address.
func (g *Lookup) Locate(ip string) (Location, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.initialized || !g.enabled || g.db == nil {
		return Location{}, false
	}
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsLoopback() || util.IsPrivateIP(parsed) {
		return Location{}, false
	}

	var rec cityRecord
	if err := g.db.Lookup(parsed, &rec); err != nil {
		return Location{}, false
	}
	loc := Location{
		City:      rec.City.Names["en"],
		Country:   rec.Country.ISOCode,
		Latitude:  rec.Location.Latitude,
		Longitude: rec.Location.Longitude,
	}
	return loc, loc.Known()
}

// IsEnabled returns whether GeoIP lookups are available.
func (g *Lookup) IsEnabled() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.enabled
}

// Close closes the database.
func (g *Lookup) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.db != nil {
		err := g.db.Close()
		g.db = nil
		g.enabled = false
		return err
	}
	return nil
}
