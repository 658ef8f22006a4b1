// Package cover locates the thumbnail yt-dlp leaves next to a download and
// prepares it for embedding as ID3 cover art.
package cover

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// Extensions are probed in this order; the first existing file wins.
var Extensions = []string{"jpg", "webp", "png"}

// Options controls how a thumbnail is turned into cover bytes.
type Options struct {
	// Normalize re-encodes the thumbnail as JPEG so the bytes match the
	// image/jpeg MIME type written to the APIC frame.
	Normalize bool

	// MaxDimension bounds width and height when normalizing. 0 keeps the
	// original size.
	MaxDimension int
}

// Find returns the first "<base>.<ext>" that exists, trying Extensions in order.
func Find(base string) (string, bool) {
	for _, ext := range Extensions {
		candidate := base + "." + ext
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// Load reads the thumbnail at path. With Normalize set, images that decode
// are resized to fit MaxDimension and re-encoded as JPEG; anything that does
// not decode is returned as-is.
func Load(path string, opts Options) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cover: read %s: %w", path, err)
	}
	if !opts.Normalize {
		return data, nil
	}

	out, err := toJPEG(data, opts.MaxDimension)
	if err != nil {
		return data, nil
	}
	return out, nil
}

func toJPEG(data []byte, maxDim int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := fit(bounds.Dx(), bounds.Dy(), maxDim)

	var src image.Image = img
	if width != bounds.Dx() || height != bounds.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		// Catmull-Rom for high-quality downscaling
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fit scales (w, h) down to fit a maxDim square, preserving aspect ratio.
func fit(w, h, maxDim int) (int, int) {
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) || w == 0 || h == 0 {
		return w, h
	}
	if w >= h {
		nh := h * maxDim / w
		if nh < 1 {
			nh = 1
		}
		return maxDim, nh
	}
	nw := w * maxDim / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxDim
}
