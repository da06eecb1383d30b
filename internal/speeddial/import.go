package speeddial

import (
	"context"
	"strings"

	"github.com/nikbrunner/speeddial/internal/model"
)

// ImportResult summarizes an ImportSites call.
type ImportResult struct {
	GroupsAdded int
	SitesAdded  int
	Skipped     int // invalid URLs and duplicates
}

// ImportSites merges groups into the collection. Groups are matched by name
// (case-insensitive), sites already present in the target group by URL are
// skipped. Imported sites get icon thumbnails so a large import never
// triggers page captures.
func (s *Store) ImportSites(ctx context.Context, groups []model.Group) (ImportResult, error) {
	var result ImportResult

	s.opMu.Lock()
	defer s.opMu.Unlock()

	staged, _, _ := s.stage()

	for _, incoming := range groups {
		name := strings.TrimSpace(incoming.Name)
		if name == "" {
			name = DefaultGroupName
		}

		target := findGroupByName(staged, name)
		if target == nil {
			group := model.NewGroup(model.NewGroupParams{Name: name})
			if staged.HasID(group.ID) {
				group.ID = staged.NewID()
			}
			staged.Groups = append(staged.Groups, group)
			target = &staged.Groups[len(staged.Groups)-1]
			result.GroupsAdded++
		}

		for _, site := range incoming.Sites {
			url, err := normalizeURL(site.URL)
			if err != nil {
				s.logger.Warn("skipping imported site", "url", site.URL, "error", err)
				result.Skipped++
				continue
			}
			if hasURL(target, url) {
				result.Skipped++
				continue
			}

			siteName := strings.TrimSpace(site.Name)
			if siteName == "" {
				siteName = model.Hostname(url)
			}
			thumb := site.Thumbnail
			if thumb == "" && s.thumbnails != nil {
				thumb = s.thumbnails.IconURL(url)
			}

			added := model.NewSite(model.NewSiteParams{Name: siteName, URL: url, Thumbnail: thumb})
			if staged.HasID(added.ID) {
				added.ID = staged.NewID()
			}
			target.Sites = append(target.Sites, added)
			result.SitesAdded++
		}
	}

	if result.GroupsAdded == 0 && result.SitesAdded == 0 {
		return result, nil
	}
	if err := s.commitGroups(ctx, staged, ""); err != nil {
		return ImportResult{}, err
	}

	s.logger.Info("imported sites", "groups", result.GroupsAdded, "sites", result.SitesAdded, "skipped", result.Skipped)
	return result, nil
}

func findGroupByName(c *model.Collection, name string) *model.Group {
	for i := range c.Groups {
		if strings.EqualFold(c.Groups[i].Name, name) {
			return &c.Groups[i]
		}
	}
	return nil
}

func hasURL(g *model.Group, url string) bool {
	for _, s := range g.Sites {
		if s.URL == url {
			return true
		}
	}
	return false
}
