// Package format renders numeric and time quantities as display strings.
// All functions are pure; none of them fail.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	minuteMs = int64(60 * 1000)
	hourMs   = 60 * minuteMs
	dayMs    = 24 * hourMs
)

// DefaultBarSize is the number of glyphs in a progress bar when no size is given.
const DefaultBarSize = 20

const (
	barFilled = "▓"
	barEmpty  = "░"
)

var byteUnits = []string{"Bytes", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// Time formats a millisecond count using the two most significant units.
// Components are truncated, never rounded:
//
//	< 1m  -> "Ns"
//	< 1h  -> "Mm Ss"
//	< 1d  -> "Hh Mm"
//	else  -> "Dd Hh"
func Time(ms int64) string {
	switch {
	case ms < minuteMs:
		return fmt.Sprintf("%ds", ms/1000)
	case ms < hourMs:
		return fmt.Sprintf("%dm %ds", ms/minuteMs, (ms%minuteMs)/1000)
	case ms < dayMs:
		return fmt.Sprintf("%dh %dm", ms/hourMs, (ms%hourMs)/minuteMs)
	default:
		return fmt.Sprintf("%dd %dh", ms/dayMs, (ms%dayMs)/hourMs)
	}
}

// Duration is Time for a time.Duration.
func Duration(d time.Duration) string {
	return Time(d.Milliseconds())
}

// Bytes formats a byte count with two decimals, e.g. 1536 -> "1.5 KB".
func Bytes(n int64) string {
	return BytesPrecision(n, 2)
}

// BytesPrecision formats a byte count in base-1024 units rounded to the given
// number of decimals. Trailing zeros are dropped.
func BytesPrecision(n int64, decimals int) string {
	if n == 0 {
		return "0 Bytes"
	}
	if decimals < 0 {
		decimals = 0
	}

	const k = 1024.0
	v := float64(n)
	i := int(math.Floor(math.Log(math.Abs(v)) / math.Log(k)))
	if i < 0 {
		i = 0
	}
	if i > len(byteUnits)-1 {
		i = len(byteUnits) - 1
	}

	scale := math.Pow(10, float64(decimals))
	value := math.Round(v/math.Pow(k, float64(i))*scale) / scale
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + byteUnits[i]
}

// Number inserts a comma every three digits, e.g. 1234567 -> "1,234,567".
func Number(n int64) string {
	return humanize.Comma(n)
}

// ProgressBar draws a bar of size glyphs followed by the rounded percentage,
// e.g. ProgressBar(50, 100, 20) -> "▓▓▓▓▓▓▓▓▓▓░░░░░░░░░░ 50%".
// A non-positive total yields an empty bar at 0%. The filled part is clamped
// to [0, size] when current lies outside [0, total].
func ProgressBar(current, total int64, size int) string {
	if size <= 0 {
		size = DefaultBarSize
	}
	if total <= 0 {
		return strings.Repeat(barEmpty, size) + " 0%"
	}

	ratio := float64(current) / float64(total)
	percent := roundHalfUp(ratio * 100)
	filled := roundHalfUp(float64(size) * ratio)
	if filled < 0 {
		filled = 0
	}
	if filled > size {
		filled = size
	}

	return strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, size-filled) + " " + strconv.Itoa(percent) + "%"
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
