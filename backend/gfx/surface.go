package gfx

import (
	"crypto/sha256"
	"encoding/hex"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/npillmayer/hbrender/core"
)

// NewSurface allocates a surface of w × h pixels, initialized to transparent
// black. Sizes below 1 are bumped to 1.
func NewSurface(w, h int) *image.RGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// Clear resets all pixels of a surface to transparent black.
func Clear(dst *image.RGBA) {
	if dst == nil {
		return
	}
	for y := dst.Rect.Min.Y; y < dst.Rect.Max.Y; y++ {
		p := dst.PixOffset(dst.Rect.Min.X, y)
		clear(dst.Pix[p : p+4*dst.Rect.Dx()])
	}
}

// Checksum returns a hex encoded SHA-256 hash over the pixels of img,
// together with its size. Surfaces with equal checksums are pixel-identical.
func Checksum(img *image.RGBA) string {
	h := sha256.New()
	if img != nil {
		w := img.Rect.Dx()
		var dim [8]byte
		dim[0], dim[1], dim[2], dim[3] = byte(w>>24), byte(w>>16), byte(w>>8), byte(w)
		ht := img.Rect.Dy()
		dim[4], dim[5], dim[6], dim[7] = byte(ht>>24), byte(ht>>16), byte(ht>>8), byte(ht)
		h.Write(dim[:])
		for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
			p := img.PixOffset(img.Rect.Min.X, y)
			h.Write(img.Pix[p : p+4*w])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Shipout encodes a surface as PNG and writes it to w.
func Shipout(img *image.RGBA, w io.Writer) error {
	if img == nil {
		return core.Error(core.EINVALID, "cannot ship out null surface")
	}
	if err := png.Encode(w, img); err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot encode surface as PNG")
	}
	return nil
}

// ShipoutFile writes a surface as a PNG file.
func ShipoutFile(img *image.RGBA, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "cannot create output file %s", filename)
	}
	if err = Shipout(img, f); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot write output file %s", filename)
	}
	tracer().Infof("shipped out %dx%d surface to %s", img.Rect.Dx(), img.Rect.Dy(), filename)
	return nil
}
