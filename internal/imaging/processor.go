// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalises uploaded images before they are forwarded to
// the backend: EXIF orientation is applied, oversized images are scaled
// down and metadata is dropped by re-encoding.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/restro-web/internal/resource"
)

// Image MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// DefaultQuality is the JPEG quality of re-encoded images.
const DefaultQuality = 90

// ErrUnsupportedFormat is returned for data that is not a JPEG, PNG, GIF or
// WebP image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Result is a normalised image.
type Result struct {
	Data     []byte
	MimeType string
	Ext      string
	Width    int
	Height   int
}

// Processor normalises images in memory.
type Processor struct {
	maxDimension int
	quality      int
	newName      func() string
}

// NewProcessor creates a processor that fits images into a square of
// maxDimension pixels. Zero disables scaling.
func NewProcessor(maxDimension int) *Processor {
	return &Processor{
		maxDimension: maxDimension,
		quality:      DefaultQuality,
		newName:      uuid.NewString,
	}
}

// Process decodes data, applies the EXIF orientation, scales the image down
// to the configured bound and encodes it again. GIFs are returned unchanged
// to keep animations.
func (p *Processor) Process(data []byte) (Result, error) {
	format := detectFormat(data)
	if format == "" {
		return Result{}, ErrUnsupportedFormat
	}

	if format == "gif" {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return Result{}, fmt.Errorf("failed to decode image: %w", err)
		}
		return Result{Data: data, MimeType: MimeTypeGIF, Ext: ".gif", Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("failed to decode image: %w", err)
	}
	if format == "jpeg" {
		img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))
	}

	if p.maxDimension > 0 {
		b := img.Bounds()
		if b.Dx() > p.maxDimension || b.Dy() > p.maxDimension {
			img = imaging.Fit(img, p.maxDimension, p.maxDimension, imaging.Lanczos)
		}
	}

	// WebP has no pure Go encoder.
	if format == "webp" {
		format = "jpeg"
	}
	out, err := encodeImage(img, format, p.quality)
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode image: %w", err)
	}

	b := img.Bounds()
	return Result{
		Data:     out,
		MimeType: formatToMimeType(format),
		Ext:      formatToExt(format),
		Width:    b.Dx(),
		Height:   b.Dy(),
	}, nil
}

// Transform normalises an image upload and gives it a random file name.
// Other uploads, such as PDF resumes, are returned unchanged.
func (p *Processor) Transform(u resource.Upload) (resource.Upload, error) {
	if !IsImage(u.ContentType) && !IsImage(DetectMimeType(u.Data)) {
		return u, nil
	}
	res, err := p.Process(u.Data)
	if err != nil {
		return u, err
	}
	u.Data = res.Data
	u.ContentType = res.MimeType
	u.Filename = p.newName() + res.Ext
	return u, nil
}

// IsImage reports whether mimeType is an image the processor handles.
func IsImage(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	}
	return false
}

// DetectMimeType detects the MIME type of data without parameters.
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// ExtFor returns the canonical extension for an image file name.
func ExtFor(filename string) string {
	return formatToExt(detectFormatFromFilename(filename))
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation applies an EXIF orientation value (1-8).
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if format == "png" {
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// TIFF is rejected (CVE-2023-36308 in disintegration/imaging).
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	}
	return ""
}

func detectFormatFromFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "png"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	}
	return "jpeg"
}

func formatToMimeType(format string) string {
	switch format {
	case "jpeg":
		return MimeTypeJPEG
	case "png":
		return MimeTypePNG
	case "gif":
		return MimeTypeGIF
	case "webp":
		return MimeTypeWebP
	}
	return "application/octet-stream"
}

func formatToExt(format string) string {
	if format == "jpeg" {
		return ".jpg"
	}
	return "." + format
}
