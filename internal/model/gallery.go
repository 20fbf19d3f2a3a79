// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// GalleryCategory groups gallery images.
type GalleryCategory struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

// RecordID implements Record.
func (c GalleryCategory) RecordID() int64 { return c.ID }

// GalleryImage is a photo in the public gallery.
type GalleryImage struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FilePath    string `json:"file_path"`
	Description string `json:"description,omitempty"`
	CategoryID  int64  `json:"category_id"`
}

// RecordID implements Record.
func (i GalleryImage) RecordID() int64 { return i.ID }

// ImagesInCategory filters images by category.
func ImagesInCategory(images []GalleryImage, categoryID int64) []GalleryImage {
	out := make([]GalleryImage, 0)
	for _, img := range images {
		if img.CategoryID == categoryID {
			out = append(out, img)
		}
	}
	return out
}

// CategoryByName returns the category with the given name.
func CategoryByName(categories []GalleryCategory, name string) (GalleryCategory, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return GalleryCategory{}, false
}
