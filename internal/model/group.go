package model

// Group is a named, ordered bucket of sites.
type Group struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Sites []Site `json:"sites"` // display order
}

// NewGroupParams holds parameters for creating a new Group.
type NewGroupParams struct {
	Name string
}

// NewGroup creates an empty Group with a generated UUID.
func NewGroup(params NewGroupParams) Group {
	return Group{
		ID:    GenerateUUID(),
		Name:  params.Name,
		Sites: []Site{},
	}
}

// GetSiteByID finds a site in this group, returns nil if not found.
func (g *Group) GetSiteByID(id string) *Site {
	for i := range g.Sites {
		if g.Sites[i].ID == id {
			return &g.Sites[i]
		}
	}
	return nil
}

// RemoveSite removes the site with the given id and returns it.
func (g *Group) RemoveSite(id string) (Site, bool) {
	for i := range g.Sites {
		if g.Sites[i].ID == id {
			site := g.Sites[i]
			g.Sites = append(g.Sites[:i], g.Sites[i+1:]...)
			return site, true
		}
	}
	return Site{}, false
}
