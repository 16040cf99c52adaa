package server

import "testing"

func srv(name string, load int, distance float64, group ...string) Server {
	s := Server{
		Name:     name,
		Load:     load,
		Distance: distance,
		Type:     "Standard",
		Region:   "Europe",
		Country:  "France",
		City:     "Paris",
	}
	if len(group) == 4 {
		s.Type, s.Region, s.Country, s.City = group[0], group[1], group[2], group[3]
	}
	return s
}

func TestDedupeFirstWins(t *testing.T) {
	in := []Server{
		srv("fr1", 10, 100),
		srv("fr2", 20, 50),
		{Name: "fr1", Load: 5, Distance: 1, Type: "Standard", Region: "Europe", Country: "France", City: "Paris"},
	}
	out := Dedupe(in)
	if len(out) != 2 {
		t.Fatalf("Dedupe kept %d, want 2", len(out))
	}
	if out[0].Name != "fr1" || out[0].Load != 10 {
		t.Errorf("first occurrence did not win: %+v", out[0])
	}
}

func TestSortByLoadDistance(t *testing.T) {
	servers := []Server{
		srv("c", 20, 10),
		srv("a", 10, 500),
		srv("b", 10, 100),
		srv("d", 5, 900),
	}
	SortByLoadDistance(servers)

	wantOrder := []string{"d", "b", "a", "c"}
	for i, want := range wantOrder {
		if servers[i].Name != want {
			t.Fatalf("position %d = %q, want %q", i, servers[i].Name, want)
		}
	}
}

func TestSortDeterministic(t *testing.T) {
	build := func() []Server {
		return []Server{
			srv("x", 10, 100),
			srv("y", 10, 100),
			srv("z", 10, 100),
		}
	}
	a, b := build(), build()
	SortByLoadDistance(a)
	SortByLoadDistance(b)
	for i := range a {
		if a[i].Name != b[i].Name {
			t.Fatalf("unstable tie ordering at %d: %q vs %q", i, a[i].Name, b[i].Name)
		}
	}
}

func TestBestByGroup(t *testing.T) {
	servers := []Server{
		srv("paris-low", 5, 200),
		srv("paris-high", 10, 10),
		srv("berlin", 20, 10, "Standard", "Europe", "Germany", "Berlin"),
		srv("tokyo-p2p", 8, 10, "P2P", "Asia Pacific", "Japan", "Tokyo"),
	}
	SortByLoadDistance(servers)
	best := BestByGroup(servers)

	if len(best) != 3 {
		t.Fatalf("BestByGroup returned %d groups, want 3", len(best))
	}
	byGroup := make(map[string]Server)
	for _, s := range best {
		byGroup[s.GroupKey()] = s
	}
	paris := byGroup["Standard|Europe|France|Paris"]
	if paris.Name != "paris-low" {
		t.Errorf("Paris best = %q, want paris-low", paris.Name)
	}
	for _, s := range servers {
		winner := byGroup[s.GroupKey()]
		if winner.Load > s.Load {
			t.Errorf("group %s winner load %d > member load %d", s.GroupKey(), winner.Load, s.Load)
		}
	}
}
