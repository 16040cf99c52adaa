package server

import (
	"strings"

	"github.com/nordwg/nordgen/pkg/prefs"
)

// Filter is a pure predicate over raw records, parametrized by user
// preferences. Values within one dimension are OR'd, distinct dimensions
// are AND'd, and an empty dimension accepts everything.
type Filter struct {
	types     map[string]struct{}
	regions   map[string]struct{}
	countries map[string]struct{}
	cities    map[string]struct{}
	maxLoad   int
}

// NewFilter builds a Filter from preferences. Country and city values are
// matched case-insensitively; countries match on name or code.
func NewFilter(p prefs.Preferences) *Filter {
	return &Filter{
		types:     toSet(p.ServerTypes, false),
		regions:   toSet(p.Regions, false),
		countries: toSet(p.Countries, true),
		cities:    toSet(p.Cities, true),
		maxLoad:   p.MaxLoad,
	}
}

func toSet(values []string, fold bool) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if fold {
			v = strings.ToLower(v)
		}
		set[v] = struct{}{}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

// TypeSet exposes the accepted type identifiers for classification.
func (f *Filter) TypeSet() map[string]struct{} { return f.types }

// MatchesType reports whether the record's group tags intersect the
// accepted type set. A record may belong to several type groups at once.
func (f *Filter) MatchesType(r *RawServer) bool {
	if f.types == nil {
		return true
	}
	for _, g := range r.Groups {
		if _, ok := f.types[g.Identifier]; ok {
			return true
		}
	}
	return false
}

// MatchesRegion reports whether any group identifier is an accepted region.
func (f *Filter) MatchesRegion(r *RawServer) bool {
	if f.regions == nil {
		return true
	}
	for _, g := range r.Groups {
		if _, ok := f.regions[g.Identifier]; ok {
			return true
		}
	}
	return false
}

// MatchesLoad reports whether the record's load is within the cap.
func (f *Filter) MatchesLoad(r *RawServer) bool {
	return r.LoadValue() <= f.maxLoad
}

// MatchesCountry checks the record's country name or code against the
// accepted set. Records without a location fail closed; the parser
// rejects those earlier anyway.
func (f *Filter) MatchesCountry(r *RawServer) bool {
	if f.countries == nil {
		return true
	}
	if len(r.Locations) == 0 {
		return false
	}
	country := r.Locations[0].Country
	if _, ok := f.countries[strings.ToLower(country.Name)]; ok {
		return true
	}
	_, ok := f.countries[strings.ToLower(country.Code)]
	return ok
}

// MatchesCity checks the record's city against the accepted set.
func (f *Filter) MatchesCity(r *RawServer) bool {
	if f.cities == nil {
		return true
	}
	if len(r.Locations) == 0 {
		return false
	}
	_, ok := f.cities[strings.ToLower(r.Locations[0].Country.City.Name)]
	return ok
}

// Accepts applies every dimension at once. Used as a pre-pass to narrow
// raw records before parse work is spent on them.
func (f *Filter) Accepts(r *RawServer) bool {
	return f.MatchesType(r) &&
		f.MatchesRegion(r) &&
		f.MatchesLoad(r) &&
		f.MatchesCountry(r) &&
		f.MatchesCity(r)
}

// FilterRecords returns the records accepted by the filter, preserving
// input order.
func FilterRecords(records []RawServer, f *Filter) []RawServer {
	out := make([]RawServer, 0, len(records))
	for i := range records {
		if f.Accepts(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}
