package server

import "encoding/json"

// rawOpt mutates a fixture record.
type rawOpt func(*RawServer)

// newRecord builds a plausible API record for tests. The default carries a
// WireGuard public key, a standard type tag and a Europe region tag.
func newRecord(name, country, code, city string, load int, opts ...rawOpt) RawServer {
	rec := RawServer{
		Name:     name,
		Hostname: "host.nordvpn.com",
		Station:  "192.0.2.10",
		Load:     json.Number(jsonInt(load)),
		Locations: []RawLocation{{
			Latitude:  48.8566,
			Longitude: 2.3522,
			Country: RawCountry{
				Name: country,
				Code: code,
				City: RawCity{Name: city},
			},
		}},
		Technologies: []RawTechnology{{
			Identifier: "wireguard_udp",
			Metadata:   []RawMetadata{{Name: "public_key", Value: "pk-" + name}},
		}},
		Groups: []RawGroup{
			{Identifier: "legacy_standard", Title: "Standard VPN servers"},
			{Identifier: "europe", Title: "Europe"},
		},
	}
	for _, opt := range opts {
		opt(&rec)
	}
	return rec
}

func jsonInt(n int) string {
	// json.Number is a string; keep fixtures honest about that.
	b, _ := json.Marshal(n)
	return string(b)
}

func withGroups(ids ...string) rawOpt {
	return func(r *RawServer) {
		r.Groups = nil
		for _, id := range ids {
			r.Groups = append(r.Groups, RawGroup{Identifier: id})
		}
	}
}

func withoutPublicKey() rawOpt {
	return func(r *RawServer) {
		r.Technologies = []RawTechnology{{Identifier: "openvpn_udp"}}
	}
}

func withoutLocation() rawOpt {
	return func(r *RawServer) {
		r.Locations = nil
	}
}

func withCoordinates(lat, lon float64) rawOpt {
	return func(r *RawServer) {
		r.Locations[0].Latitude = lat
		r.Locations[0].Longitude = lon
	}
}

func withRawLoad(raw string) rawOpt {
	return func(r *RawServer) {
		r.Load = json.Number(raw)
	}
}
