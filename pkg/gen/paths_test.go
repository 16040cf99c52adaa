package gen

import (
	"testing"

	"github.com/nordwg/nordgen/pkg/server"
)

func pathServer(name, code, station string) *server.Server {
	return &server.Server{
		Name:        name,
		CountryCode: code,
		Station:     station,
		Type:        "Standard",
		Region:      "Europe",
		Country:     "France",
		City:        "Paris",
	}
}

func TestResolveDirectoryLayout(t *testing.T) {
	reg := NewPathRegistry()
	s := pathServer("France #123", "FR", "192.0.2.1")
	got := reg.Resolve(s, SubfolderAll)
	want := "configs/standard/europe/france/paris/fr123_standard.conf"
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestResolveStem(t *testing.T) {
	tests := []struct {
		name string
		srv  *server.Server
		want string
	}{
		{
			name: "numeric suffix",
			srv:  pathServer("France #123", "FR", "192.0.2.1"),
			want: "configs/standard/europe/france/paris/fr123_standard.conf",
		},
		{
			name: "no digits falls back to station",
			srv:  pathServer("Special", "FR", "10.20.30.40"),
			want: "configs/standard/europe/france/paris/wg10203040_standard.conf",
		},
		{
			name: "stem truncated to 15",
			srv:  pathServer("France #1234567890123456", "FR", "192.0.2.1"),
			want: "configs/standard/europe/france/paris/fr1234567890123_standard.conf",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewPathRegistry()
			if got := reg.Resolve(tt.srv, SubfolderAll); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveCollisions(t *testing.T) {
	reg := NewPathRegistry()
	const n = 4
	want := []string{
		"configs/standard/europe/france/paris/fr77_standard.conf",
		"configs/standard/europe/france/paris/fr77_1_standard.conf",
		"configs/standard/europe/france/paris/fr77_2_standard.conf",
		"configs/standard/europe/france/paris/fr77_3_standard.conf",
	}
	seen := make(map[string]struct{})
	for i := 0; i < n; i++ {
		got := reg.Resolve(pathServer("France #77", "FR", "192.0.2.1"), SubfolderAll)
		if got != want[i] {
			t.Errorf("collision %d = %q, want %q", i, got, want[i])
		}
		if _, dup := seen[got]; dup {
			t.Fatalf("duplicate path handed out: %q", got)
		}
		seen[got] = struct{}{}
	}
}

func TestResolveSubfoldersIndependent(t *testing.T) {
	reg := NewPathRegistry()
	s := pathServer("France #9", "FR", "192.0.2.1")
	all := reg.Resolve(s, SubfolderAll)
	best := reg.Resolve(s, SubfolderBest)
	if all == best {
		t.Errorf("same path for both subfolders: %q", all)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Paris", "paris"},
		{"New York", "new_york"},
		{"Bosnia/Herzegovina", "bosniaherzegovina"},
		{`We?ird*Na:me`, "weirdname"},
	}
	for _, tt := range tests {
		if got := sanitize(tt.in); got != tt.want {
			t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTrailingDigits(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"France #123", "123"},
		{"us-ny1234", "1234"},
		{"NoDigits", ""},
		{"Mid5dle end", "5"},
	}
	for _, tt := range tests {
		if got := trailingDigits(tt.in); got != tt.want {
			t.Errorf("trailingDigits(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
