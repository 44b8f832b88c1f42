package glyphing

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/hbrender/core"
)

// Tag is a 4-letter OpenType tag, used to identify features.
type Tag uint32

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as appropriate.
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(binary.BigEndian.Uint32([]byte(t)))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// Feature tags with predefined switches.
var (
	KernTag               = T("kern")
	LigatureTag           = T("liga")
	ContextualLigatureTag = T("clig")
)

// FeatureRange tells a shaper to turn a certain OpenType feature on or off for a
// run of code-points.
//
// Start and End denote cluster positions; End is exclusive. A feature range
// created with NewFeature covers the whole text.
type FeatureRange struct {
	Feature    Tag  // 4-letter feature tag
	Arg        int  // optional argument for this feature
	On         bool // turn it on or off?
	Start, End int  // position of code-points to apply feature for
}

// GlobalEnd is the end position of a feature range covering all of the text.
const GlobalEnd = math.MaxInt32

// NewFeature creates a feature switch covering all of the text.
func NewFeature(tag Tag, on bool) FeatureRange {
	return FeatureRange{Feature: tag, On: on, Start: 0, End: GlobalEnd}
}

// Predefined feature switches.
var (
	KerningOn             = NewFeature(KernTag, true)
	KerningOff            = NewFeature(KernTag, false)
	LigatureOn            = NewFeature(LigatureTag, true)
	LigatureOff           = NewFeature(LigatureTag, false)
	ContextualLigatureOn  = NewFeature(ContextualLigatureTag, true)
	ContextualLigatureOff = NewFeature(ContextualLigatureTag, false)
)

// IsGlobal is true if the feature range covers all of the text.
func (frng FeatureRange) IsGlobal() bool {
	return frng.Start <= 0 && frng.End >= GlobalEnd
}

// Value returns the value a shaper should set for the feature: 0 if off,
// the argument if given, 1 otherwise.
func (frng FeatureRange) Value() uint32 {
	if !frng.On {
		return 0
	}
	if frng.Arg > 0 {
		return uint32(frng.Arg)
	}
	return 1
}

func (frng FeatureRange) String() string {
	var b strings.Builder
	if !frng.On {
		b.WriteByte('-')
	} else {
		b.WriteByte('+')
	}
	b.WriteString(frng.Feature.String())
	if !frng.IsGlobal() {
		fmt.Fprintf(&b, "[%d:%d]", frng.Start, frng.End)
	}
	if frng.On && frng.Arg > 0 {
		fmt.Fprintf(&b, "=%d", frng.Arg)
	}
	return b.String()
}

// Enabled reports whether the last switch for tag in a list of features,
// covering position pos, turns the feature on. If no switch for tag
// covers pos, dflt is returned.
func Enabled(features []FeatureRange, tag Tag, pos int, dflt bool) bool {
	on := dflt
	for _, f := range features {
		if f.Feature == tag && pos >= f.Start && pos < f.End {
			on = f.On
		}
	}
	return on
}

// ParseFeature reads a feature switch in a notation similar to HarfBuzz's
// hb-shape utility:
//
//	kern        turn on kerning
//	+kern       turn on kerning
//	-liga       turn off standard ligatures
//	salt=2      select alternate number 2
//	kern[3:5]   turn on kerning for clusters 3 and 4
func ParseFeature(s string) (FeatureRange, error) {
	s = strings.TrimSpace(s)
	frng := FeatureRange{On: true, End: GlobalEnd}
	if s == "" {
		return frng, core.Error(core.EINVALID, "empty feature")
	}
	switch s[0] {
	case '-':
		frng.On = false
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if eq := strings.IndexByte(s, '='); eq >= 0 {
		n, err := strconv.Atoi(s[eq+1:])
		if err != nil || n < 0 {
			return frng, core.Error(core.EINVALID, "illegal feature argument in %q", s)
		}
		frng.Arg = n
		frng.On = n > 0
		s = s[:eq]
	}
	if br := strings.IndexByte(s, '['); br >= 0 {
		if !strings.HasSuffix(s, "]") {
			return frng, core.Error(core.EINVALID, "unterminated feature range in %q", s)
		}
		rng := strings.SplitN(s[br+1:len(s)-1], ":", 2)
		var err error
		if rng[0] != "" {
			if frng.Start, err = strconv.Atoi(rng[0]); err != nil {
				return frng, core.Error(core.EINVALID, "illegal feature range in %q", s)
			}
		}
		if len(rng) == 1 {
			frng.End = frng.Start + 1
		} else if rng[1] != "" {
			if frng.End, err = strconv.Atoi(rng[1]); err != nil {
				return frng, core.Error(core.EINVALID, "illegal feature range in %q", s)
			}
		}
		s = s[:br]
	}
	if len(s) == 0 || len(s) > 4 {
		return frng, core.Error(core.EINVALID, "feature tag must have 1 to 4 letters, is %q", s)
	}
	frng.Feature = T(s)
	return frng, nil
}

// ParseFeatures reads a comma separated list of feature switches.
func ParseFeatures(s string) ([]FeatureRange, error) {
	var features []FeatureRange
	for _, f := range strings.Split(s, ",") {
		if strings.TrimSpace(f) == "" {
			continue
		}
		frng, err := ParseFeature(f)
		if err != nil {
			return features, err
		}
		features = append(features, frng)
	}
	return features, nil
}
