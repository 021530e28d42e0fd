// Package metrics provides pure functions that turn raw upstream numbers and
// timestamps into human-scale report values.
package metrics

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Sentinel is rendered in place of any value that could not be retrieved or computed.
const Sentinel = "N/A"

var largeNumberSuffixes = []string{"", "K", "M", "B", "T"}

// FormatLargeNumber renders v with two decimals and a K/M/B/T suffix chosen by
// floor(log10(|v|)/3). Zero renders as "0.00", negatives keep their sign and
// NaN or infinite values render as Sentinel.
func FormatLargeNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Sentinel
	}
	if v == 0 {
		return "0.00"
	}
	if v < 0 {
		return "-" + FormatLargeNumber(-v)
	}

	idx := int(math.Floor(math.Log10(v) / 3))
	if idx < 0 {
		idx = 0
	}
	if idx > len(largeNumberSuffixes)-1 {
		idx = len(largeNumberSuffixes) - 1
	}

	scaled := v / math.Pow(10, float64(idx*3))

	// log10 is inexact near exact powers of ten.
	for scaled >= 1000 && idx < len(largeNumberSuffixes)-1 {
		idx++
		scaled = v / math.Pow(10, float64(idx*3))
	}
	for scaled < 1 && idx > 0 {
		idx--
		scaled = v / math.Pow(10, float64(idx*3))
	}

	// Rounding to two decimals can carry into the next suffix.
	if math.Round(scaled*100) >= 100_000 && idx < len(largeNumberSuffixes)-1 {
		idx++
		scaled = v / math.Pow(10, float64(idx*3))
	}

	return strconv.FormatFloat(scaled, 'f', 2, 64) + largeNumberSuffixes[idx]
}

// FormatOptionalNumber is FormatLargeNumber for optional values.
func FormatOptionalNumber(v *float64) string {
	if v == nil {
		return Sentinel
	}
	return FormatLargeNumber(*v)
}

// FormatAge renders the time elapsed between created and now as a compact
// "1d 2h 3m 4s" string. Zero-valued components are omitted. A creation time in
// the future renders as "0s".
func FormatAge(created, now time.Time) string {
	secs := int64(now.Sub(created) / time.Second)
	if secs <= 0 {
		return "0s"
	}

	days := secs / 86400
	hours := (secs % 86400) / 3600
	minutes := (secs % 3600) / 60
	seconds := secs % 60

	parts := make([]string, 0, 4)
	if days > 0 {
		parts = append(parts, strconv.FormatInt(days, 10)+"d")
	}
	if hours > 0 {
		parts = append(parts, strconv.FormatInt(hours, 10)+"h")
	}
	if minutes > 0 {
		parts = append(parts, strconv.FormatInt(minutes, 10)+"m")
	}
	if seconds > 0 {
		parts = append(parts, strconv.FormatInt(seconds, 10)+"s")
	}

	return strings.Join(parts, " ")
}

// Age renders the age of something created at creationUnix (seconds).
// Returns Sentinel when the creation time is unknown.
func Age(creationUnix *int64, now time.Time) string {
	if creationUnix == nil || *creationUnix <= 0 {
		return Sentinel
	}
	return FormatAge(time.Unix(*creationUnix, 0), now)
}

// AgeInDays returns whole days elapsed since createdMs (unix milliseconds).
func AgeInDays(createdMs int64, now time.Time) int64 {
	elapsed := now.UnixMilli() - createdMs
	if elapsed <= 0 {
		return 0
	}
	return elapsed / (1000 * 3600 * 24)
}

// ShortenAddress renders an address as its first 5 and last 4 characters.
// For display only.
func ShortenAddress(addr string) string {
	if len(addr) <= 9 {
		return addr
	}
	return addr[:5] + "..." + addr[len(addr)-4:]
}
