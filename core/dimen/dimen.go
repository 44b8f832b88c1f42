// Package dimen implements units for glyph placement.
//
// Both shaping and rasterization hand out positions and advances in 26.6
// fixed point, i.e. in units of 1/64 pixel. Every conversion between this
// representation and floating point pixels goes through this package.
//
/*
BSD License

Copyright (c) 2017–21, Norbert Pillmayer (norbert@pillmayer.com)

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package dimen

import (
	"errors"
	"math"
	"regexp"
	"strconv"

	"golang.org/x/image/math/fixed"
)

// FixedScale is the number of fixed point units per pixel (or per point,
// for font sizes) in 26.6 notation.
const FixedScale = 64

// PointsPerInch is the resolution at which one point equals one pixel.
const PointsPerInch = 72

// ToPixels converts a 26.6 fixed point value to (fractional) pixels.
func ToPixels(v fixed.Int26_6) float64 {
	return float64(v) / FixedScale
}

// FromPixels converts fractional pixels to 26.6 fixed point, rounding to
// the nearest 1/64.
func FromPixels(px float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(px * FixedScale))
}

// FromPoints converts a font size in points to 26.6 fixed point.
func FromPoints(pt float64) fixed.Int26_6 {
	return FromPixels(pt)
}

// PPEM calculates pixels per em (26.6) for a font size in 26.6 points,
// rendered on a device with resolution dpi.
func PPEM(ptSize fixed.Int26_6, dpi int) fixed.Int26_6 {
	return fixed.Int26_6(int64(ptSize) * int64(dpi) / PointsPerInch)
}

// ---------------------------------------------------------------------------

var sizePattern = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)(pt|px|in|mm)?$`)

// ParseSize parses a font size like "12", "12pt", "16px", "0.5in" or "5mm"
// and returns it in 26.6 points. Pixel sizes are converted using dpi.
func ParseSize(s string, dpi int) (fixed.Int26_6, error) {
	d := sizePattern.FindStringSubmatch(s)
	if len(d) < 2 {
		return 0, errors.New("format error parsing font size")
	}
	n, err := strconv.ParseFloat(d[1], 64)
	if err != nil {
		return 0, errors.New("format error parsing font size")
	}
	var pt float64
	switch d[2] {
	case "", "pt":
		pt = n
	case "px":
		if dpi <= 0 {
			return 0, errors.New("pixel size needs a positive resolution")
		}
		pt = n * PointsPerInch / float64(dpi)
	case "in":
		pt = n * PointsPerInch
	case "mm":
		pt = n * PointsPerInch / 25.4
	}
	return FromPoints(pt), nil
}
