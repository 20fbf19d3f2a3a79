// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strconv"
	"testing"

	"github.com/olegiv/restro-web/internal/resource"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestIsImage(t *testing.T) {
	tests := []struct {
		mimeType string
		want     bool
	}{
		{MimeTypeJPEG, true},
		{MimeTypePNG, true},
		{MimeTypeGIF, true},
		{MimeTypeWebP, true},
		{"application/pdf", false},
		{"application/octet-stream", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := IsImage(tt.mimeType); got != tt.want {
				t.Errorf("IsImage(%q) = %v, want %v", tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestProcess_ScalesDown(t *testing.T) {
	p := NewProcessor(100)

	res, err := p.Process(encodePNG(t, createTestImage(400, 200)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Width != 100 || res.Height != 50 {
		t.Errorf("size = %dx%d, want 100x50", res.Width, res.Height)
	}
	if res.MimeType != MimeTypePNG || res.Ext != ".png" {
		t.Errorf("format = %s %s", res.MimeType, res.Ext)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Errorf("encoded size = %dx%d", cfg.Width, cfg.Height)
	}
}

func TestProcess_SmallImageKeepsSize(t *testing.T) {
	p := NewProcessor(100)

	res, err := p.Process(encodeJPEG(t, createTestImage(60, 40)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Width != 60 || res.Height != 40 {
		t.Errorf("size = %dx%d, want 60x40", res.Width, res.Height)
	}
	if res.MimeType != MimeTypeJPEG || res.Ext != ".jpg" {
		t.Errorf("format = %s %s", res.MimeType, res.Ext)
	}
}

func TestProcess_GIFPassesThrough(t *testing.T) {
	var buf bytes.Buffer
	if err := gif.Encode(&buf, createTestImage(300, 300), nil); err != nil {
		t.Fatalf("gif.Encode: %v", err)
	}
	data := buf.Bytes()

	res, err := NewProcessor(100).Process(data)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !bytes.Equal(res.Data, data) {
		t.Error("GIF data should be returned unchanged")
	}
	if res.Width != 300 {
		t.Errorf("Width = %d", res.Width)
	}
}

func TestProcess_Unsupported(t *testing.T) {
	_, err := NewProcessor(100).Process([]byte("%PDF-1.4 not an image"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestTransform(t *testing.T) {
	p := NewProcessor(50)
	p.newName = func() string { return "fixed" }

	u, err := p.Transform(resource.Upload{
		Field:       "image",
		Filename:    "IMG_0001.PNG",
		ContentType: "application/octet-stream",
		Data:        encodePNG(t, createTestImage(200, 100)),
	})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if u.Filename != "fixed.png" || u.ContentType != MimeTypePNG || u.Field != "image" {
		t.Errorf("upload = %s %s %s", u.Field, u.Filename, u.ContentType)
	}

	resume := resource.Upload{Field: "resume", Filename: "cv.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}
	got, err := p.Transform(resume)
	if err != nil {
		t.Fatalf("Transform(pdf): %v", err)
	}
	if got.Filename != "cv.pdf" || !bytes.Equal(got.Data, resume.Data) {
		t.Error("non-image uploads must pass through unchanged")
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg magic bytes", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpeg"},
		{"png magic bytes", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "png"},
		{"gif magic bytes", []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61}, "gif"},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.data); got != tt.want {
				t.Errorf("detectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtFor(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"image.jpg", ".jpg"},
		{"image.JPEG", ".jpg"},
		{"image.PNG", ".png"},
		{"image.gif", ".gif"},
		{"image.webp", ".webp"},
		{"noextension", ".jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := ExtFor(tt.filename); got != tt.want {
				t.Errorf("ExtFor(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestApplyOrientation(t *testing.T) {
	img := createTestImage(20, 10)
	for orientation := range 10 {
		t.Run("orientation_"+strconv.Itoa(orientation), func(t *testing.T) {
			b := applyOrientation(img, orientation).Bounds()
			rotated := orientation >= 5 && orientation <= 8
			if rotated && (b.Dx() != 10 || b.Dy() != 20) {
				t.Errorf("orientation %d: size %dx%d, want 10x20", orientation, b.Dx(), b.Dy())
			}
			if !rotated && (b.Dx() != 20 || b.Dy() != 10) {
				t.Errorf("orientation %d: size %dx%d, want 20x10", orientation, b.Dx(), b.Dy())
			}
		})
	}
}
