package listings

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

// parseFloatLoose reads the longest numeric prefix of raw, returning NaN when
// there is none. Query values are not validated beyond that.
func parseFloatLoose(raw string) float64 {
	match := floatPrefix.FindString(strings.TrimLeft(raw, " \t\n\r"))
	if match == "" {
		return math.NaN()
	}
	switch strings.TrimLeft(match, "+-") {
	case "Infinity":
		if strings.HasPrefix(match, "-") {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	// out of range prefixes such as 1e999 come back as ±Inf alongside an error
	v, _ := strconv.ParseFloat(match, 64)
	return v
}

// parseIntLoose reads the leading integer of raw ("3.7" -> 3, "2 guests" -> 2).
// Prefixes beyond the int range saturate at the nearest bound.
func parseIntLoose(raw string) (int, bool) {
	match := intPrefix.FindString(strings.TrimLeft(raw, " \t\n\r"))
	if match == "" {
		return 0, false
	}
	// ParseInt returns the clamped value alongside ErrRange
	v, err := strconv.ParseInt(match, 10, 0)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return int(v), true
}

// intOrNaN reads the leading integer of raw as a float64 filter bound. Long
// digit runs keep their magnitude instead of overflowing.
func intOrNaN(raw string) float64 {
	match := intPrefix.FindString(strings.TrimLeft(raw, " \t\n\r"))
	if match == "" {
		return math.NaN()
	}
	v, _ := strconv.ParseFloat(match, 64)
	return v
}

func intOrDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, ok := parseIntLoose(raw)
	if !ok {
		return fallback
	}
	return v
}

func nonEmpty(p *string) (string, bool) {
	if p == nil || *p == "" {
		return "", false
	}
	return *p, true
}

func splitTrimmed(raw string) []string {
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
