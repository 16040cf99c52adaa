package server

import "strings"

// legacyPrefix marks the group identifiers that denote server types
// (legacy_standard, legacy_p2p, legacy_double_vpn, ...).
const legacyPrefix = "legacy_"

// genericType is the most common type tag; priority orderings always
// force it last so rarer tags win classification.
const genericType = "legacy_standard"

// defaultTypeName is used when a record carries no usable type tag.
const defaultTypeName = "Other"

// unknownRegion is used when no group identifier names a region.
const unknownRegion = "Unknown"

// regionKeywords are the continent fragments recognized inside group
// identifiers. "america" also matches "americas".
var regionKeywords = []string{"europe", "america", "asia", "africa"}

// isLegacyType reports whether a group identifier is a server-type tag.
func isLegacyType(id string) bool {
	return strings.HasPrefix(id, legacyPrefix)
}

// isRegionID reports whether a group identifier names a region.
func isRegionID(id string) bool {
	lower := strings.ToLower(id)
	for _, kw := range regionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// TypeDisplayName formats a legacy type identifier for humans: the prefix
// is stripped, short (<=3 rune) tokens are treated as acronyms and
// uppercased, longer tokens are capitalized.
//
//	legacy_p2p          -> "P2P"
//	legacy_double_vpn   -> "Double VPN"
//	legacy_dedicated_ip -> "Dedicated IP"
//	legacy_standard     -> "Standard"
func TypeDisplayName(id string) string {
	id = strings.TrimPrefix(id, legacyPrefix)
	tokens := strings.FieldsFunc(id, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, tok := range tokens {
		if len([]rune(tok)) <= 3 {
			tokens[i] = strings.ToUpper(tok)
		} else {
			tokens[i] = capitalize(tok)
		}
	}
	if len(tokens) == 0 {
		return defaultTypeName
	}
	return strings.Join(tokens, " ")
}

// RegionDisplayName capitalizes each underscore-separated word of a region
// identifier ("the_americas" -> "The Americas").
func RegionDisplayName(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// classifyType resolves a record's server type display name from its group
// identifiers. Candidates are the record's legacy tags, intersected with
// the accepted set when a type filter is active. A priority ordering
// (rarest type first, generic last) wins over encounter order when given.
func classifyType(groupIDs []string, accepted map[string]struct{}, priority []string) string {
	candidates := make(map[string]struct{})
	var first string
	for _, id := range groupIDs {
		if !isLegacyType(id) {
			continue
		}
		if len(accepted) > 0 {
			if _, ok := accepted[id]; !ok {
				continue
			}
		}
		if first == "" {
			first = id
		}
		candidates[id] = struct{}{}
	}
	if len(candidates) == 0 {
		return defaultTypeName
	}
	for _, id := range priority {
		if _, ok := candidates[id]; ok {
			return TypeDisplayName(id)
		}
	}
	return TypeDisplayName(first)
}

// classifyRegion resolves the region display name from group identifiers;
// the first identifier containing a continent keyword wins.
func classifyRegion(groupIDs []string) string {
	for _, id := range groupIDs {
		if isRegionID(id) {
			return RegionDisplayName(id)
		}
	}
	return unknownRegion
}
