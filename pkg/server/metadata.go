package server

import (
	"sort"
	"strings"
)

// RegionOption is one region present in a record collection.
type RegionOption struct {
	ID          string
	DisplayName string
}

// TypeOption is one server type present in a record collection, with the
// number of records carrying its tag.
type TypeOption struct {
	ID          string
	DisplayName string
	Count       int
}

// CountryOption is a distinct country, tagged with the regions any of its
// records appear in so region choices can cascade into country choices.
type CountryOption struct {
	Name    string
	Code    string
	Regions []string
}

// CityOption is a distinct (city, country) pair.
type CityOption struct {
	Name    string
	Country string
}

// Metadata is a read-only snapshot derived from a server record
// collection. It is rebuilt whenever the active collection changes, never
// mutated in place, so the choices it presents are never stale or empty
// after an upstream filter narrowed the set.
type Metadata struct {
	Regions   []RegionOption
	Types     []TypeOption // leading synthetic "all" entry with the total
	Countries []CountryOption
	Cities    []CityOption

	// TypePriority orders legacy type identifiers rarest-first with the
	// generic type forced last; it feeds server type classification.
	TypePriority []string
}

// AllTypesID is the identifier of the synthetic "all" type entry.
const AllTypesID = "all"

// BuildMetadata derives Metadata from the given records. Only identifiers
// actually present are offered; nothing is hard-coded beyond the continent
// keyword list and the legacy_ marker.
func BuildMetadata(records []RawServer) *Metadata {
	md := &Metadata{}

	typeCounts := make(map[string]int)
	var typeOrder []string
	seenRegions := make(map[string]struct{})
	seenCountries := make(map[string]int) // code -> index into md.Countries
	countryRegions := make(map[string]map[string]struct{})
	seenCities := make(map[string]struct{})

	for i := range records {
		rec := &records[i]

		var recRegions []string
		for _, g := range rec.Groups {
			switch {
			case isLegacyType(g.Identifier):
				if _, ok := typeCounts[g.Identifier]; !ok {
					typeOrder = append(typeOrder, g.Identifier)
				}
				typeCounts[g.Identifier]++
			case isRegionID(g.Identifier):
				recRegions = append(recRegions, g.Identifier)
				if _, ok := seenRegions[g.Identifier]; !ok {
					seenRegions[g.Identifier] = struct{}{}
					md.Regions = append(md.Regions, RegionOption{
						ID:          g.Identifier,
						DisplayName: RegionDisplayName(g.Identifier),
					})
				}
			}
		}

		if len(rec.Locations) == 0 {
			continue
		}
		country := rec.Locations[0].Country
		code := strings.ToLower(country.Code)
		if code != "" || country.Name != "" {
			key := code + "|" + country.Name
			idx, ok := seenCountries[key]
			if !ok {
				idx = len(md.Countries)
				seenCountries[key] = idx
				md.Countries = append(md.Countries, CountryOption{
					Name: country.Name,
					Code: country.Code,
				})
				countryRegions[key] = make(map[string]struct{})
			}
			for _, rg := range recRegions {
				if _, dup := countryRegions[key][rg]; !dup {
					countryRegions[key][rg] = struct{}{}
					md.Countries[idx].Regions = append(md.Countries[idx].Regions, rg)
				}
			}
		}

		city := rec.Locations[0].Country.City.Name
		if city != "" {
			key := strings.ToLower(country.Name) + "|" + strings.ToLower(city)
			if _, dup := seenCities[key]; !dup {
				seenCities[key] = struct{}{}
				md.Cities = append(md.Cities, CityOption{Name: city, Country: country.Name})
			}
		}
	}

	total := 0
	for _, c := range typeCounts {
		total += c
	}
	md.Types = make([]TypeOption, 0, len(typeOrder)+1)
	md.Types = append(md.Types, TypeOption{ID: AllTypesID, DisplayName: "All", Count: total})
	for _, id := range typeOrder {
		md.Types = append(md.Types, TypeOption{
			ID:          id,
			DisplayName: TypeDisplayName(id),
			Count:       typeCounts[id],
		})
	}

	md.TypePriority = buildTypePriority(typeOrder, typeCounts)
	return md
}

// buildTypePriority sorts type identifiers ascending by occurrence count
// (rarest first, ties kept in encounter order) and forces the generic type
// last regardless of count.
func buildTypePriority(order []string, counts map[string]int) []string {
	priority := make([]string, 0, len(order))
	hasGeneric := false
	for _, id := range order {
		if id == genericType {
			hasGeneric = true
			continue
		}
		priority = append(priority, id)
	}
	sort.SliceStable(priority, func(i, j int) bool {
		return counts[priority[i]] < counts[priority[j]]
	})
	if hasGeneric {
		priority = append(priority, genericType)
	}
	return priority
}
