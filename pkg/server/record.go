package server

import "encoding/json"

// Wire shapes of the NordVPN /v1/servers response. Only the fields the
// parser consumes are declared; the API carries far more.

// RawCity is the city sub-record of a country.
type RawCity struct {
	Name string `json:"name"`
}

// RawCountry is the country sub-record of a location.
type RawCountry struct {
	Name string  `json:"name"`
	Code string  `json:"code"`
	City RawCity `json:"city"`
}

// RawLocation is one entry of a record's locations array.
type RawLocation struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Country   RawCountry `json:"country"`
}

// RawMetadata is one name/value pair of a technology entry.
type RawMetadata struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RawTechnology is a technology entry with its metadata pairs. The
// WireGuard public key lives under identifier "wireguard_udp", metadata
// name "public_key".
type RawTechnology struct {
	Identifier string        `json:"identifier"`
	Metadata   []RawMetadata `json:"metadata"`
}

// RawGroup is an opaque classification tag on a record. Identifiers with
// the legacy_ prefix denote server types; others may name regions.
type RawGroup struct {
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
}

// RawServer is one heterogeneous server record as returned by the API.
type RawServer struct {
	Name         string          `json:"name"`
	Hostname     string          `json:"hostname"`
	Station      string          `json:"station"`
	Load         json.Number     `json:"load"`
	Locations    []RawLocation   `json:"locations"`
	Technologies []RawTechnology `json:"technologies"`
	Groups       []RawGroup      `json:"groups"`
}

// LoadValue returns the record's load as an int. Several API snapshots
// carry a missing or malformed load; those read as 0 rather than
// rejecting the record.
func (r *RawServer) LoadValue() int {
	n, err := r.Load.Int64()
	if err != nil {
		return 0
	}
	return int(n)
}

// PublicKey finds the WireGuard public key among the record's technology
// metadata. Empty when absent.
func (r *RawServer) PublicKey() string {
	for _, tech := range r.Technologies {
		if tech.Identifier != techWireGuardUDP {
			continue
		}
		for _, meta := range tech.Metadata {
			if meta.Name == metaPublicKey {
				return meta.Value
			}
		}
	}
	return ""
}

// GroupIdentifiers returns the record's group identifiers in API order.
func (r *RawServer) GroupIdentifiers() []string {
	ids := make([]string, 0, len(r.Groups))
	for _, g := range r.Groups {
		ids = append(ids, g.Identifier)
	}
	return ids
}

const (
	techWireGuardUDP = "wireguard_udp"
	metaPublicKey    = "public_key"
)
