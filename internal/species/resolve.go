package species

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Resolve finds a species from player-typed input: exact id match first, then
// display name, then nearest id/name within levenshtein distance 2. Returns
// false when nothing is close enough.
func Resolve(raw string) (Species, bool) {
	query := strings.ToLower(strings.TrimSpace(raw))
	if query == "" {
		return Species{}, false
	}

	if sp, ok := byID[ID(query)]; ok {
		return sp, true
	}

	best := Species{}
	bestDist := 3 // anything at distance >= 3 is rejected
	for _, sp := range Catalog() {
		if strings.ToLower(sp.Name) == query {
			return sp, true
		}
		if d := levenshtein.ComputeDistance(query, string(sp.ID)); d < bestDist {
			best, bestDist = sp, d
		}
		if d := levenshtein.ComputeDistance(query, strings.ToLower(sp.Name)); d < bestDist {
			best, bestDist = sp, d
		}
	}
	if bestDist < 3 {
		return best, true
	}
	return Species{}, false
}
