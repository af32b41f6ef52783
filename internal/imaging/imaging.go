// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging provides responsive image variant generation. It converts
// uploaded images into multiple JPEG variants sized for mobile, tablet, and
// desktop breakpoints. Variants smaller than the source image are generated;
// larger ones are skipped to avoid upscaling.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder

	_ "golang.org/x/image/webp" // register WebP decoder

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// maxImagePixels caps the decoded pixel count to prevent memory bombs.
// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
const maxImagePixels = 100_000_000

// Variant describes a single responsive image size.
type Variant struct {
	Name    string // e.g., "thumb", "sm", "md", "lg"
	Width   int    // Target width in pixels
	Quality int    // JPEG quality 1-100
}

// DefaultVariants defines the standard breakpoints for responsive web images.
var DefaultVariants = []Variant{
	{Name: "thumb", Width: 320, Quality: 75},
	{Name: "sm", Width: 640, Quality: 80},
	{Name: "md", Width: 1024, Quality: 80},
	{Name: "lg", Width: 1920, Quality: 80},
}

// Processed holds one generated variant ready for upload.
type Processed struct {
	Name        string // Variant name (e.g., "sm")
	Width       int    // Actual output width
	Height      int    // Actual output height
	Data        []byte // JPEG-encoded image bytes
	ContentType string // Always "image/jpeg"
}

// GenerateVariants creates JPEG variants of the source image for each
// configured breakpoint. The source is decoded once and the per-variant
// resizes and encodes run concurrently. Variants wider than the original
// are skipped; the widest skipped breakpoint is emitted at the original
// width so every image gets at least one variant.
func GenerateVariants(original []byte, variants []Variant) ([]Processed, error) {
	if len(variants) == 0 {
		variants = DefaultVariants
	}

	// Probe dimensions before the full decode to reject image bombs.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("imaging: probe failed: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("imaging: image too large: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxImagePixels)
	}

	src, _, err := image.Decode(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode failed: %w", err)
	}

	// Decide target widths up front, capping at the original width.
	// Once a variant reaches the original width, larger breakpoints add nothing.
	type job struct {
		variant Variant
		width   int
	}
	var jobs []job
	for _, v := range variants {
		width := v.Width
		if cfg.Width <= width {
			width = cfg.Width
		}
		jobs = append(jobs, job{variant: v, width: width})
		if cfg.Width <= v.Width {
			break
		}
	}

	results := make([]Processed, len(jobs))

	var g errgroup.Group
	for i, j := range jobs {
		g.Go(func() error {
			out, err := resizeJPEG(src, j.width, j.variant.Quality)
			if err != nil {
				return fmt.Errorf("imaging: variant %s (%dpx): %w", j.variant.Name, j.width, err)
			}
			out.Name = j.variant.Name
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// resizeJPEG scales src to the target width preserving aspect ratio and
// encodes it as JPEG. A width matching the source skips the scale pass.
func resizeJPEG(src image.Image, width, quality int) (Processed, error) {
	bounds := src.Bounds()

	height := bounds.Dy()
	if width != bounds.Dx() {
		height = bounds.Dy() * width / bounds.Dx()
		if height < 1 {
			height = 1
		}
	}

	out := src
	if width != bounds.Dx() {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: quality}); err != nil {
		return Processed{}, fmt.Errorf("encode jpeg: %w", err)
	}

	return Processed{
		Width:       width,
		Height:      height,
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
	}, nil
}
