package gen

import (
	"fmt"
	"path"
	"strings"

	"github.com/nordwg/nordgen/pkg/server"
)

// Subfolder names for the two output batches.
const (
	SubfolderAll  = "configs"
	SubfolderBest = "best_configs"
)

const stemLimit = 15

// PathRegistry hands out collision-free relative output paths for one run.
// It is single-owner: paths are resolved sequentially, in the
// deterministic sorted server order, before any concurrent write starts,
// so disambiguation suffixes are reproducible across runs.
type PathRegistry struct {
	used map[string]struct{}
}

func NewPathRegistry() *PathRegistry {
	return &PathRegistry{used: make(map[string]struct{})}
}

// Resolve returns the relative path (subfolder/type/region/country/city/
// file.conf) for a server, registering it so later duplicates get _1, _2,
// ... suffixes appended to the stem.
func (r *PathRegistry) Resolve(s *server.Server, subfolder string) string {
	dir := path.Join(
		sanitize(subfolder),
		sanitize(s.Type),
		sanitize(s.Region),
		sanitize(s.Country),
		sanitize(s.City),
	)
	stem := baseStem(s)
	typeTag := sanitize(s.Type)

	rel := path.Join(dir, fmt.Sprintf("%s_%s.conf", stem, typeTag))
	if _, taken := r.used[rel]; taken {
		for n := 1; ; n++ {
			rel = path.Join(dir, fmt.Sprintf("%s_%d_%s.conf", stem, n, typeTag))
			if _, taken := r.used[rel]; !taken {
				break
			}
		}
	}
	r.used[rel] = struct{}{}
	return rel
}

// baseStem derives the filename stem: the trailing digit run of the server
// name prefixed by the country code, or wg{station-without-dots} when the
// name carries no number. Truncated to 15 characters.
func baseStem(s *server.Server) string {
	stem := ""
	if digits := trailingDigits(s.Name); digits != "" {
		stem = strings.ToLower(s.CountryCode) + digits
	} else {
		stem = "wg" + strings.ReplaceAll(s.Station, ".", "")
	}
	if len(stem) > stemLimit {
		stem = stem[:stemLimit]
	}
	return stem
}

// trailingDigits extracts the last contiguous run of digits in name
// ("de1234.nordvpn.com" has none at the end of "Germany #1234" -> "1234").
func trailingDigits(name string) string {
	end := -1
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] >= '0' && name[i] <= '9' {
			end = i
			break
		}
	}
	if end == -1 {
		return ""
	}
	start := end
	for start >= 0 && name[start] >= '0' && name[start] <= '9' {
		start--
	}
	return name[start+1 : end+1]
}

// sanitize lowercases, maps spaces to underscores and strips characters
// that are illegal in filenames on any supported filesystem.
func sanitize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*#`, r) || r == 0 {
			return -1
		}
		return r
	}, s)
}
