package prefs

import "testing"

func TestNormalizedSubstitutesDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   Preferences
		want Preferences
	}{
		{
			name: "zero value gets all defaults",
			in:   Preferences{},
			want: Preferences{DNS: DefaultDNS, Keepalive: DefaultKeepalive, MaxLoad: DefaultMaxLoad},
		},
		{
			name: "malformed dns replaced",
			in:   Preferences{DNS: "not-an-ip", Keepalive: 25, MaxLoad: 50},
			want: Preferences{DNS: DefaultDNS, Keepalive: 25, MaxLoad: 50},
		},
		{
			name: "keepalive below range replaced",
			in:   Preferences{DNS: "1.1.1.1", Keepalive: 5, MaxLoad: 50},
			want: Preferences{DNS: "1.1.1.1", Keepalive: DefaultKeepalive, MaxLoad: 50},
		},
		{
			name: "keepalive above range replaced",
			in:   Preferences{DNS: "1.1.1.1", Keepalive: 500, MaxLoad: 50},
			want: Preferences{DNS: "1.1.1.1", Keepalive: DefaultKeepalive, MaxLoad: 50},
		},
		{
			name: "max load out of range replaced",
			in:   Preferences{DNS: "1.1.1.1", Keepalive: 25, MaxLoad: 150},
			want: Preferences{DNS: "1.1.1.1", Keepalive: 25, MaxLoad: DefaultMaxLoad},
		},
		{
			name: "valid values untouched",
			in:   Preferences{DNS: "9.9.9.9", Keepalive: 15, MaxLoad: 1},
			want: Preferences{DNS: "9.9.9.9", Keepalive: 15, MaxLoad: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalized()
			if got.DNS != tt.want.DNS || got.Keepalive != tt.want.Keepalive || got.MaxLoad != tt.want.MaxLoad {
				t.Errorf("Normalized() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizedKeepsFilterDimensions(t *testing.T) {
	p := Preferences{Countries: []string{"France"}, Cities: []string{"Paris"}}
	got := p.Normalized()
	if len(got.Countries) != 1 || len(got.Cities) != 1 {
		t.Errorf("filter dimensions dropped: %+v", got)
	}
}

func TestValidDNS(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"103.86.96.100", true},
		{"1.1.1.1", true},
		{"255.255.255.255", true},
		{"", false},
		{"256.0.0.1", false},
		{"1.2.3", false},
		{"1.2.3.4.5", false},
		{"a.b.c.d", false},
		{"1..2.3", false},
		{"2606:4700::1111", false},
	}
	for _, tt := range tests {
		if got := validDNS(tt.in); got != tt.want {
			t.Errorf("validDNS(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("NORDGEN_DNS", "1.1.1.1")
	t.Setenv("NORDGEN_KEEPALIVE", "30")
	t.Setenv("NORDGEN_MAX_LOAD", "60")
	t.Setenv("NORDGEN_USE_IP_ENDPOINT", "true")
	t.Setenv("NORDGEN_COUNTRIES", "France,Germany")
	t.Setenv("NORDGEN_TOKEN", "tok")
	t.Setenv("NORDGEN_OUTPUT_DIR", "out")
	t.Setenv("NORDGEN_LOG_LEVEL", "DEBUG")

	p, rc, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if p.DNS != "1.1.1.1" || p.Keepalive != 30 || p.MaxLoad != 60 || !p.UseIPEndpoint {
		t.Errorf("preferences = %+v", p)
	}
	if len(p.Countries) != 2 || p.Countries[0] != "France" || p.Countries[1] != "Germany" {
		t.Errorf("Countries = %v", p.Countries)
	}
	if rc.Token != "tok" || rc.OutputDir != "out" || rc.LogLevel != "DEBUG" {
		t.Errorf("run config = %+v", rc)
	}
	if rc.WriteConcurrency != 200 {
		t.Errorf("WriteConcurrency = %d, want default 200", rc.WriteConcurrency)
	}
}

func TestFromEnvInvalidValuesDegrade(t *testing.T) {
	t.Setenv("NORDGEN_DNS", "garbage")
	t.Setenv("NORDGEN_KEEPALIVE", "9999")

	p, _, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if p.DNS != DefaultDNS {
		t.Errorf("DNS = %q, want default", p.DNS)
	}
	if p.Keepalive != DefaultKeepalive {
		t.Errorf("Keepalive = %d, want default", p.Keepalive)
	}
}
