package recommend

import (
	"strconv"
	"strings"
)

// Calibration constants for the usage-frequency distance estimate. These
// are fixed, not configuration.
const (
	dailyKmPerMonth   = 25.0 * 30 // 750 km/month
	weeklyKmPerMonth  = 150.0
	monthlyKmPerMonth = 80.0 // occasional use
)

// MonthlyDistance estimates km driven per month from the coarse usage
// frequency category. Unrecognized or unset categories return nil, which
// classifies as UNKNOWN downstream.
func MonthlyDistance(usageFrequency string) *float64 {
	switch strings.ToLower(usageFrequency) {
	case "daily":
		return floatPtr(dailyKmPerMonth)
	case "weekly":
		return floatPtr(weeklyKmPerMonth)
	case "monthly":
		return floatPtr(monthlyKmPerMonth)
	default:
		return nil
	}
}

// ParseElapsedToDays converts free text like "1.5 Years", "6 Month" or
// "2 Weeks" into a day count. Unit detection is substring based,
// case-insensitive, and checked in fixed priority: year, then month, then
// week. A year is always 365 days and a month always 30; the calendar
// inexactness is deliberate. Empty input or an unrecognized unit returns
// nil.
func ParseElapsedToDays(text string) *float64 {
	if text == "" {
		return nil
	}
	v := strings.ToLower(text)
	num, ok := leadingFloat(v)
	if !ok {
		return nil
	}
	switch {
	case strings.Contains(v, "year"):
		return floatPtr(num * 365)
	case strings.Contains(v, "month"):
		return floatPtr(num * 30)
	case strings.Contains(v, "week"):
		return floatPtr(num * 7)
	default:
		return nil
	}
}

// ParseLowerBound parses the lower bound of a range like "15000-25000".
// Bare scalars parse as themselves; empty or non-numeric input returns nil.
// Used identically for interval-months and distance-km ranges.
func ParseLowerBound(s string) *float64 {
	if s == "" {
		return nil
	}
	first := strings.SplitN(s, "-", 2)[0]
	num, ok := leadingFloat(first)
	if !ok {
		return nil
	}
	return floatPtr(num)
}

// leadingFloat parses the longest numeric prefix of s, so "1.5 years"
// reads as 1.5.
func leadingFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	seenDigit := false
	for i, r := range s {
		if r >= '0' && r <= '9' {
			seenDigit = true
			end = i + 1
			continue
		}
		if r == '.' || (i == 0 && (r == '+' || r == '-')) {
			end = i + 1
			continue
		}
		break
	}
	if !seenDigit {
		return 0, false
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func floatPtr(f float64) *float64 { return &f }
