package server

import "sort"

// Dedupe removes servers sharing a name; the first occurrence wins. The
// API sometimes returns the same logical server more than once across
// overlapping technology entries.
func Dedupe(servers []Server) []Server {
	seen := make(map[string]struct{}, len(servers))
	out := make([]Server, 0, len(servers))
	for _, s := range servers {
		if _, dup := seen[s.Name]; dup {
			continue
		}
		seen[s.Name] = struct{}{}
		out = append(out, s)
	}
	return out
}

// SortByLoadDistance sorts ascending by (load, distance): lower load
// preferred, nearer breaks ties. The sort is stable so equal keys keep
// input order and identical input data always yields identical output.
func SortByLoadDistance(servers []Server) {
	sort.SliceStable(servers, func(i, j int) bool {
		if servers[i].Load != servers[j].Load {
			return servers[i].Load < servers[j].Load
		}
		return servers[i].Distance < servers[j].Distance
	})
}

// BestByGroup picks one representative per (type, region, country, city)
// group: the current best is replaced only by a strictly lower load, so on
// a list already sorted by (load, distance) the first member of each group
// stands. Groups appear in first-encounter order.
func BestByGroup(servers []Server) []Server {
	index := make(map[string]int)
	best := make([]Server, 0)
	for _, s := range servers {
		key := s.GroupKey()
		if i, ok := index[key]; ok {
			if s.Load < best[i].Load {
				best[i] = s
			}
			continue
		}
		index[key] = len(best)
		best = append(best, s)
	}
	return best
}
