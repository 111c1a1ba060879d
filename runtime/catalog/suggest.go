package catalog

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/amaury-medina-tass/spd-frontend-sub001/core/formula"
)

// MaxSuggestions bounds the ids returned by Suggest.
const MaxSuggestions = 3

// Suggest ranks known ids of the given reference kind that look like id.
// Ids containing the characters of id in order rank first, closest first;
// otherwise ids within a small edit distance are offered.
func (c *Catalog) Suggest(kind formula.Kind, id string) []string {
	return Suggest(c.Index, kind, id)
}

// Suggest is Catalog.Suggest over a bare index.
func Suggest(index *formula.Index, kind formula.Kind, id string) []string {
	if index == nil || id == "" {
		return nil
	}
	candidates := index.IDs(kind)
	if len(candidates) == 0 {
		return nil
	}

	ranks := fuzzy.RankFindFold(id, candidates)
	sort.Stable(ranks)

	var out []string
	for _, r := range ranks {
		if len(out) == MaxSuggestions {
			return out
		}
		out = append(out, r.Target)
	}
	if len(out) > 0 {
		return out
	}

	type near struct {
		id   string
		dist int
	}
	limit := len(id) / 3
	if limit < 2 {
		limit = 2
	}

	var nearby []near
	for _, cand := range candidates {
		if d := fuzzy.LevenshteinDistance(id, cand); d <= limit {
			nearby = append(nearby, near{cand, d})
		}
	}
	sort.SliceStable(nearby, func(i, j int) bool { return nearby[i].dist < nearby[j].dist })

	for _, n := range nearby {
		if len(out) == MaxSuggestions {
			break
		}
		out = append(out, n.id)
	}
	return out
}
