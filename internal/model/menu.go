// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// SpecialsCategory is the menu category shown in the public specials strip.
const SpecialsCategory = "special"

// MenuItem is a dish offered by the restaurant.
type MenuItem struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CategoryName string    `json:"category_name"`
	Price        float64   `json:"price"`
	ParcelPrice  *float64  `json:"parcel_price"`
	ImageURL     string    `json:"image_url,omitempty"`
	IsVeg        bool      `json:"is_veg"`
	IsAvailable  bool      `json:"is_available"`
	CreatedAt    Timestamp `json:"created_at"`
	UpdatedAt    Timestamp `json:"updated_at"`
}

// RecordID implements Record.
func (m MenuItem) RecordID() int64 { return m.ID }

// DietLabel returns "Veg" or "Non-Veg".
func (m MenuItem) DietLabel() string {
	if m.IsVeg {
		return "Veg"
	}
	return "Non-Veg"
}

// MenuCategory groups menu items.
type MenuCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RecordID implements Record.
func (c MenuCategory) RecordID() int64 { return c.ID }

// MenuSection is a category with its items, in display order.
type MenuSection struct {
	Category string
	Items    []MenuItem
}

// GroupMenu groups items by category name, keeping the order in which each
// category first appears.
func GroupMenu(items []MenuItem) []MenuSection {
	var sections []MenuSection
	index := make(map[string]int)
	for _, item := range items {
		i, ok := index[item.CategoryName]
		if !ok {
			i = len(sections)
			index[item.CategoryName] = i
			sections = append(sections, MenuSection{Category: item.CategoryName})
		}
		sections[i].Items = append(sections[i].Items, item)
	}
	return sections
}
