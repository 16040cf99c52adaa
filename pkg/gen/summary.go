package gen

import (
	"os"
	"path/filepath"
	"sort"

	jsoniter "github.com/json-iterator/go"

	"github.com/nordwg/nordgen/pkg/server"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SummaryFile is the name of the per-run server inventory.
const SummaryFile = "servers.json"

// SummaryLeaf is the per-city summary entry: the distance to the city in
// whole kilometers and its servers as [name, load] pairs sorted ascending
// by load.
type SummaryLeaf struct {
	Distance int           `json:"distance"`
	Servers  []SummaryItem `json:"servers"`
}

// SummaryItem marshals as a two-element ["name", load] array.
type SummaryItem struct {
	Name string
	Load int
}

func (s SummaryItem) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{s.Name, s.Load})
}

func (s *SummaryItem) UnmarshalJSON(data []byte) error {
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) > 0 {
		if name, ok := raw[0].(string); ok {
			s.Name = name
		}
	}
	if len(raw) > 1 {
		if load, ok := raw[1].(float64); ok {
			s.Load = int(load)
		}
	}
	return nil
}

// Summary maps type -> region -> country -> city -> leaf.
type Summary map[string]map[string]map[string]map[string]SummaryLeaf

// BuildSummary folds a server list into the nested summary. The leaf
// distance is the distance of the first (lowest-load, since the input is
// sorted) server seen for that city. Map key order is irrelevant here;
// marshaling sorts keys, so identical input always produces identical
// bytes.
func BuildSummary(servers []server.Server) Summary {
	sum := make(Summary)
	for i := range servers {
		s := &servers[i]
		regions, ok := sum[s.Type]
		if !ok {
			regions = make(map[string]map[string]map[string]SummaryLeaf)
			sum[s.Type] = regions
		}
		countries, ok := regions[s.Region]
		if !ok {
			countries = make(map[string]map[string]SummaryLeaf)
			regions[s.Region] = countries
		}
		cities, ok := countries[s.Country]
		if !ok {
			cities = make(map[string]SummaryLeaf)
			countries[s.Country] = cities
		}
		leaf, ok := cities[s.City]
		if !ok {
			leaf = SummaryLeaf{Distance: int(s.Distance)}
		}
		leaf.Servers = append(leaf.Servers, SummaryItem{Name: s.Name, Load: s.Load})
		cities[s.City] = leaf
	}

	for _, regions := range sum {
		for _, countries := range regions {
			for _, cities := range countries {
				for city, leaf := range cities {
					sort.SliceStable(leaf.Servers, func(i, j int) bool {
						return leaf.Servers[i].Load < leaf.Servers[j].Load
					})
					cities[city] = leaf
				}
			}
		}
	}
	return sum
}

// writeSummary renders servers.json at the output root.
func (w *Writer) writeSummary(servers []server.Server) error {
	data, err := json.MarshalIndent(BuildSummary(servers), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(w.root, SummaryFile), data, 0o644)
}
