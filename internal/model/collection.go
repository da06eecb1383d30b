package model

// Collection holds all groups of the speed dial.
type Collection struct {
	Groups []Group `json:"groups"`
}

// NewCollection creates an empty Collection with initialized slices.
func NewCollection() *Collection {
	return &Collection{
		Groups: []Group{},
	}
}

// GetGroupByID finds a group by ID, returns nil if not found.
func (c *Collection) GetGroupByID(id string) *Group {
	for i := range c.Groups {
		if c.Groups[i].ID == id {
			return &c.Groups[i]
		}
	}
	return nil
}

// FindSite scans all groups for a site with the given ID.
// Returns the owning group and the site, or nil, nil if not found.
func (c *Collection) FindSite(id string) (*Group, *Site) {
	for i := range c.Groups {
		if site := c.Groups[i].GetSiteByID(id); site != nil {
			return &c.Groups[i], site
		}
	}
	return nil, nil
}

// RemoveGroup removes the group with the given ID.
func (c *Collection) RemoveGroup(id string) bool {
	for i := range c.Groups {
		if c.Groups[i].ID == id {
			c.Groups = append(c.Groups[:i], c.Groups[i+1:]...)
			return true
		}
	}
	return false
}

// SiteCount returns the number of sites across all groups.
func (c *Collection) SiteCount() int {
	n := 0
	for _, g := range c.Groups {
		n += len(g.Sites)
	}
	return n
}

// AllSites returns every site in group order.
func (c *Collection) AllSites() []Site {
	sites := make([]Site, 0, c.SiteCount())
	for _, g := range c.Groups {
		sites = append(sites, g.Sites...)
	}
	return sites
}

// HasID reports whether any group or site already uses id.
func (c *Collection) HasID(id string) bool {
	for _, g := range c.Groups {
		if g.ID == id {
			return true
		}
		for _, s := range g.Sites {
			if s.ID == id {
				return true
			}
		}
	}
	return false
}

// NewID returns a UUID not yet used in the collection.
func (c *Collection) NewID() string {
	for {
		id := GenerateUUID()
		if !c.HasID(id) {
			return id
		}
	}
}

// Clone returns a deep copy of the collection.
func (c *Collection) Clone() *Collection {
	clone := &Collection{Groups: make([]Group, len(c.Groups))}
	for i, g := range c.Groups {
		sites := make([]Site, len(g.Sites))
		copy(sites, g.Sites)
		clone.Groups[i] = Group{ID: g.ID, Name: g.Name, Sites: sites}
	}
	return clone
}
