// Package prefs holds the user preferences that parametrize filtering and
// config rendering, plus the environment layer that produces them.
package prefs

import (
	"strconv"
	"strings"
)

const (
	// DefaultDNS is the resolver written into generated configs when the
	// user supplies none (NordVPN's own resolver).
	DefaultDNS = "103.86.96.100"

	// DefaultKeepalive is the PersistentKeepalive written into generated
	// configs when the user value is missing or out of range.
	DefaultKeepalive = 25

	// DefaultMaxLoad disables load filtering.
	DefaultMaxLoad = 100

	minKeepalive = 15
	maxKeepalive = 120
)

// Preferences parametrizes both the filter engine and the config renderer.
// An empty slice on any filter dimension means no filtering on that
// dimension.
type Preferences struct {
	DNS           string
	UseIPEndpoint bool
	Keepalive     int
	MaxLoad       int

	// Filter dimensions. Types and Regions hold group identifiers as
	// reported by the API (e.g. "legacy_p2p", "europe"); Countries and
	// Cities hold display names, matched case-insensitively.
	ServerTypes []string
	Regions     []string
	Countries   []string
	Cities      []string
}

// Default returns preferences with every filter dimension open.
func Default() Preferences {
	return Preferences{
		DNS:       DefaultDNS,
		Keepalive: DefaultKeepalive,
		MaxLoad:   DefaultMaxLoad,
	}
}

// Normalized returns a copy with invalid values replaced by defaults.
// Invalid preference values are never fatal: a malformed DNS or an
// out-of-range keepalive silently falls back to the built-in default.
func (p Preferences) Normalized() Preferences {
	if !validDNS(p.DNS) {
		p.DNS = DefaultDNS
	}
	if p.Keepalive < minKeepalive || p.Keepalive > maxKeepalive {
		p.Keepalive = DefaultKeepalive
	}
	if p.MaxLoad <= 0 || p.MaxLoad > 100 {
		p.MaxLoad = DefaultMaxLoad
	}
	return p
}

// validDNS accepts IPv4-shaped addresses only; that is all the generated
// configs ever carry.
func validDNS(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, part := range parts {
		if part == "" || len(part) > 3 {
			return false
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 255 {
			return false
		}
	}
	return true
}
