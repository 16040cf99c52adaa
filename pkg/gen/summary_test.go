package gen

import (
	"bytes"
	"testing"

	"github.com/nordwg/nordgen/pkg/server"
)

func summaryServers() []server.Server {
	return []server.Server{
		{Name: "fr2", Load: 5, Distance: 120.7, Type: "Standard", Region: "Europe", Country: "France", City: "Paris"},
		{Name: "fr1", Load: 10, Distance: 120.7, Type: "Standard", Region: "Europe", Country: "France", City: "Paris"},
		{Name: "de1", Load: 12, Distance: 800.2, Type: "Standard", Region: "Europe", Country: "Germany", City: "Berlin"},
		{Name: "jp1", Load: 3, Distance: 9700.9, Type: "P2P", Region: "Asia Pacific", Country: "Japan", City: "Tokyo"},
	}
}

func TestBuildSummaryShape(t *testing.T) {
	sum := BuildSummary(summaryServers())

	paris, ok := sum["Standard"]["Europe"]["France"]["Paris"]
	if !ok {
		t.Fatal("Paris leaf missing")
	}
	if paris.Distance != 120 {
		t.Errorf("Paris distance = %d, want 120", paris.Distance)
	}
	if len(paris.Servers) != 2 {
		t.Fatalf("Paris servers = %d, want 2", len(paris.Servers))
	}
	// Leaf entries sort ascending by load.
	if paris.Servers[0].Name != "fr2" || paris.Servers[0].Load != 5 {
		t.Errorf("Paris[0] = %+v, want fr2/5", paris.Servers[0])
	}
	if paris.Servers[1].Name != "fr1" || paris.Servers[1].Load != 10 {
		t.Errorf("Paris[1] = %+v, want fr1/10", paris.Servers[1])
	}

	if _, ok := sum["P2P"]["Asia Pacific"]["Japan"]["Tokyo"]; !ok {
		t.Error("Tokyo leaf missing")
	}
}

func TestBuildSummaryLeafDistanceFromFirst(t *testing.T) {
	servers := []server.Server{
		{Name: "a", Load: 1, Distance: 42.9, Type: "Standard", Region: "Europe", Country: "France", City: "Paris"},
		{Name: "b", Load: 2, Distance: 99.9, Type: "Standard", Region: "Europe", Country: "France", City: "Paris"},
	}
	sum := BuildSummary(servers)
	leaf := sum["Standard"]["Europe"]["France"]["Paris"]
	if leaf.Distance != 42 {
		t.Errorf("leaf distance = %d, want 42 (first server, truncated)", leaf.Distance)
	}
}

func TestSummaryMarshalDeterministic(t *testing.T) {
	a, err := json.MarshalIndent(BuildSummary(summaryServers()), "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.MarshalIndent(BuildSummary(summaryServers()), "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical input produced different summary bytes")
	}
}

func TestSummaryItemRoundTrip(t *testing.T) {
	data, err := json.Marshal(SummaryItem{Name: "fr1", Load: 7})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["fr1",7]` {
		t.Errorf("marshal = %s, want [\"fr1\",7]", data)
	}
	var item SummaryItem
	if err := json.Unmarshal(data, &item); err != nil {
		t.Fatal(err)
	}
	if item.Name != "fr1" || item.Load != 7 {
		t.Errorf("round trip = %+v", item)
	}
}
