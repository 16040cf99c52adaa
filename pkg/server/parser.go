package server

import (
	"runtime"
	"sync"

	"github.com/nordwg/nordgen/pkg/geo"
	"github.com/nordwg/nordgen/pkg/prefs"
)

// Parser converts raw API records into Servers or rejects them. Rejection
// is a normal filtered-out outcome, not an error.
type Parser struct {
	user     geo.Coordinates
	filter   *Filter
	priority []string
}

// NewParser builds a parser for one generation run. priority is the global
// type-priority ordering, usually Metadata.TypePriority; nil falls back to
// encounter order during classification.
func NewParser(user geo.Coordinates, p prefs.Preferences, priority []string) *Parser {
	return &Parser{
		user:     user,
		filter:   NewFilter(p.Normalized()),
		priority: priority,
	}
}

// Parse returns the normalized Server for a raw record, or nil when the
// record is rejected. Checks run in a fixed order, each short-circuiting
// the rest:
//
//  1. missing geolocation sub-record
//  2. active type filter not intersecting the record's groups
//  3. active region filter not matching any group
//  4. load above the cap
//  5. country not accepted
//  6. city not accepted
//  7. no WireGuard public key in the technology metadata
func (p *Parser) Parse(rec *RawServer) *Server {
	if len(rec.Locations) == 0 {
		return nil
	}
	if !p.filter.MatchesType(rec) {
		return nil
	}
	if !p.filter.MatchesRegion(rec) {
		return nil
	}
	if !p.filter.MatchesLoad(rec) {
		return nil
	}
	if !p.filter.MatchesCountry(rec) {
		return nil
	}
	if !p.filter.MatchesCity(rec) {
		return nil
	}
	publicKey := rec.PublicKey()
	if publicKey == "" {
		return nil
	}

	loc := rec.Locations[0]
	city := loc.Country.City.Name
	if city == "" {
		city = "unknown"
	}
	groups := rec.GroupIdentifiers()

	return &Server{
		Name:        rec.Name,
		Hostname:    rec.Hostname,
		Station:     rec.Station,
		Load:        rec.LoadValue(),
		Country:     loc.Country.Name,
		CountryCode: loc.Country.Code,
		City:        city,
		Region:      classifyRegion(groups),
		Type:        classifyType(groups, p.filter.TypeSet(), p.priority),
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
		PublicKey:   publicKey,
		Distance: geo.Distance(p.user, geo.Coordinates{
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
		}),
	}
}

// ParseAll parses records concurrently, bounded by a NumCPU-wide
// semaphore. Output order follows input order so downstream first-wins
// deduplication stays deterministic regardless of scheduling. The second
// return value is the number of rejected records.
func (p *Parser) ParseAll(records []RawServer) ([]Server, int) {
	results := make([]*Server, len(records))

	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU())
	for i := range records {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			results[i] = p.Parse(&records[i])
			<-sem
		}(i)
	}
	wg.Wait()

	out := make([]Server, 0, len(records))
	for _, s := range results {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out, len(records) - len(out)
}
