package gen

import (
	"fmt"

	"github.com/nordwg/nordgen/pkg/prefs"
	"github.com/nordwg/nordgen/pkg/server"
)

const (
	clientAddress = "10.5.0.2/16"
	allowedIPs    = "0.0.0.0/0, ::/0"
	wireguardPort = 51820
)

// RenderConfig produces the WireGuard configuration text for one server.
// Pure string formatting; the endpoint is the station IP or the hostname
// depending on preferences.
func RenderConfig(privateKey string, s *server.Server, p prefs.Preferences) string {
	endpoint := s.Hostname
	if p.UseIPEndpoint {
		endpoint = s.Station
	}
	return fmt.Sprintf(`[Interface]
PrivateKey = %s
Address = %s
DNS = %s

[Peer]
PublicKey = %s
AllowedIPs = %s
Endpoint = %s:%d
PersistentKeepalive = %d
`,
		privateKey,
		clientAddress,
		p.DNS,
		s.PublicKey,
		allowedIPs,
		endpoint,
		wireguardPort,
		p.Keepalive,
	)
}
