// Package server turns raw NordVPN API records into a normalized model and
// provides filtering, classification, metadata and ranking over it.
package server

// Server is the normalized, immutable view of one API record. A Server
// exists only after parsing succeeded; partially-parsed data never leaves
// the parser.
type Server struct {
	Name     string
	Hostname string
	Station  string // bare IP, the alternate endpoint
	Load     int    // 0-100, lower is better

	Country     string
	CountryCode string
	City        string
	Region      string // derived, "Unknown" when undeterminable
	Type        string // derived display name, "Other" when untagged

	Latitude  float64
	Longitude float64

	PublicKey string

	// Distance from the user location in km, computed once at parse time.
	Distance float64
}

// GroupKey identifies the (type, region, country, city) bucket used for
// best-server selection.
func (s *Server) GroupKey() string {
	return s.Type + "|" + s.Region + "|" + s.Country + "|" + s.City
}
