package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/speeddial/internal/model"
)

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Site           model.Site
	GroupID        string
	GroupName      string
	MatchedIndexes []int
	Score          int
}

type entry struct {
	site  model.Site
	group *model.Group
}

// siteNames implements fuzzy.Source for a flattened site list.
type siteNames []entry

func (sn siteNames) String(i int) string {
	return sn[i].site.Name
}

func (sn siteNames) Len() int {
	return len(sn)
}

// FuzzySearchSites searches site names across all groups using fuzzy matching.
// Returns results sorted by match score (best first).
func FuzzySearchSites(groups []model.Group, query string) []SearchResult {
	if query == "" {
		return nil
	}

	var sites siteNames
	for i := range groups {
		for _, s := range groups[i].Sites {
			sites = append(sites, entry{site: s, group: &groups[i]})
		}
	}

	matches := fuzzy.FindFrom(query, sites)

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		e := sites[m.Index]
		results[i] = SearchResult{
			Site:           e.site,
			GroupID:        e.group.ID,
			GroupName:      e.group.Name,
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
