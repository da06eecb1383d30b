package model

// Site represents a single speed dial tile.
type Site struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"` // icon-service URL, data URI, or default image path
}

// NewSiteParams holds parameters for creating a new Site.
type NewSiteParams struct {
	Name      string
	URL       string
	Thumbnail string
}

// NewSite creates a Site with a generated UUID.
func NewSite(params NewSiteParams) Site {
	return Site{
		ID:        GenerateUUID(),
		Name:      params.Name,
		URL:       params.URL,
		Thumbnail: params.Thumbnail,
	}
}
