package model

// Settings controls how the speed dial grid is rendered and how thumbnails are made.
type Settings struct {
	ColumnSize      int  `json:"columnSize"`      // px
	ThumbnailHeight int  `json:"thumbnailHeight"` // px
	ShowThumbnails  bool `json:"showThumbnails"`
	ShowURLs        bool `json:"showUrls"`
	UseThumbnails   bool `json:"useThumbnails"` // capture pages instead of icon lookup
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	return Settings{
		ColumnSize:      250,
		ThumbnailHeight: 180,
		ShowThumbnails:  true,
		ShowURLs:        true,
		UseThumbnails:   false,
	}
}

// Normalize resets out-of-range values to their defaults.
func (s Settings) Normalize() Settings {
	defaults := DefaultSettings()
	if s.ColumnSize <= 0 {
		s.ColumnSize = defaults.ColumnSize
	}
	if s.ThumbnailHeight <= 0 {
		s.ThumbnailHeight = defaults.ThumbnailHeight
	}
	return s
}

// SettingsPatch is a partial settings update. Nil fields are left unchanged.
type SettingsPatch struct {
	ColumnSize      *int  `json:"columnSize,omitempty"`
	ThumbnailHeight *int  `json:"thumbnailHeight,omitempty"`
	ShowThumbnails  *bool `json:"showThumbnails,omitempty"`
	ShowURLs        *bool `json:"showUrls,omitempty"`
	UseThumbnails   *bool `json:"useThumbnails,omitempty"`
}

// Apply merges the patch into s and normalizes the result.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.ColumnSize != nil {
		s.ColumnSize = *p.ColumnSize
	}
	if p.ThumbnailHeight != nil {
		s.ThumbnailHeight = *p.ThumbnailHeight
	}
	if p.ShowThumbnails != nil {
		s.ShowThumbnails = *p.ShowThumbnails
	}
	if p.ShowURLs != nil {
		s.ShowURLs = *p.ShowURLs
	}
	if p.UseThumbnails != nil {
		s.UseThumbnails = *p.UseThumbnails
	}
	return s.Normalize()
}
