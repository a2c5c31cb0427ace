package core

import (
	"strings"
	"time"
)

// nowFunc is mockable in tests
var nowFunc = time.Now

// Now returns the current UTC time, truncated to what postgres can store.
func Now() time.Time {
	return nowFunc().UTC().Truncate(time.Microsecond)
}

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}
