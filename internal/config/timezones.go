package config

import (
	"sort"
	"strings"

	// Embedded zone database so timezone names resolve on hosts without one.
	_ "time/tzdata"
)

// commonTimezones is fixed at build time and never mutated.
var commonTimezones = func() []string {
	zones := []string{
		"Africa/Cairo", "Africa/Johannesburg", "Africa/Lagos", "Africa/Nairobi",
		"America/Anchorage", "America/Argentina/Buenos_Aires", "America/Bogota",
		"America/Chicago", "America/Denver", "America/Halifax", "America/Lima",
		"America/Los_Angeles", "America/Mexico_City", "America/New_York",
		"America/Phoenix", "America/Santiago", "America/Sao_Paulo",
		"America/St_Johns", "America/Toronto", "America/Vancouver",
		"Asia/Bangkok", "Asia/Dhaka", "Asia/Dubai", "Asia/Hong_Kong",
		"Asia/Jakarta", "Asia/Jerusalem", "Asia/Karachi", "Asia/Kathmandu",
		"Asia/Kolkata", "Asia/Manila", "Asia/Seoul", "Asia/Shanghai",
		"Asia/Singapore", "Asia/Taipei", "Asia/Tehran", "Asia/Tokyo",
		"Atlantic/Azores", "Atlantic/Reykjavik",
		"Australia/Adelaide", "Australia/Brisbane", "Australia/Perth", "Australia/Sydney",
		"Europe/Amsterdam", "Europe/Athens", "Europe/Berlin", "Europe/Brussels",
		"Europe/Dublin", "Europe/Helsinki", "Europe/Istanbul", "Europe/Kyiv",
		"Europe/Lisbon", "Europe/London", "Europe/Madrid", "Europe/Moscow",
		"Europe/Oslo", "Europe/Paris", "Europe/Prague", "Europe/Rome",
		"Europe/Stockholm", "Europe/Warsaw", "Europe/Zurich",
		"Pacific/Auckland", "Pacific/Fiji", "Pacific/Guam", "Pacific/Honolulu",
	}
	sort.Strings(zones)
	return zones
}()

// CommonTimezones returns a sorted copy of the region/city timezones offered
// to users. When prefix is set only names starting with it (case-insensitive)
// are returned.
func CommonTimezones(prefix string) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	out := make([]string, 0, len(commonTimezones))
	for _, tz := range commonTimezones {
		if prefix == "" || strings.HasPrefix(strings.ToLower(tz), prefix) {
			out = append(out, tz)
		}
	}
	return out
}
