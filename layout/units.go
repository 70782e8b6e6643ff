package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// This file defines unit-safe types and helpers for lengths. All engine
// geometry is expressed in device units of 1/1024 point (the scale used by
// common text-layout engines); Length keeps the author's original unit.

// Unit represents the original unit of a length value as written in config or DSL.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, treated as points
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Device units.
const (
	XRPoint = 1024
	XRInch  = XRPoint * 72
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// Unbounded marks an interval without an upper limit (measurement passes).
const Unbounded = math.MaxInt32

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToPT converts the length to points. Unit-less values are already points.
func (l Length) ToPT() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value * MmToPt
	case UnitCM:
		return l.Value * 10 * MmToPt
	case UnitIN:
		return l.Value * 72
	default:
		return l.Value
	}
}

// ToMM converts the length to millimeters.
func (l Length) ToMM() float64 { return l.ToPT() * PtToMm }

// ToUnits converts the length to device units, rounding to the nearest unit.
func (l Length) ToUnits() int { return int(math.Round(l.ToPT() * XRPoint)) }

// ParseRawLengthStr parses a length string preserving its unit. Numbers may
// start with a bare decimal point (".5in").
func ParseRawLengthStr(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	if f < 0 {
		return Length{}, fmt.Errorf("长度不能为负数: %q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// ParseDimension parses a length string directly into device units.
func ParseDimension(value string) (int, error) {
	l, err := ParseRawLengthStr(value)
	if err != nil {
		return 0, err
	}
	return l.ToUnits(), nil
}

// ToPt converts device units to points.
func ToPt(units int) float64 { return float64(units) / XRPoint }

// FromPt converts points to device units.
func FromPt(pt float64) int { return int(math.Round(pt * XRPoint)) }
