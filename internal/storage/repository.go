package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nikbrunner/speeddial/internal/model"
)

// Repository maps the speed dial model onto the two top-level keys of a Storage.
type Repository struct {
	storage Storage
}

// NewRepository wraps a Storage.
func NewRepository(storage Storage) *Repository {
	return &Repository{storage: storage}
}

// groupsDocument is the persisted shape of the groups key.
type groupsDocument struct {
	Groups []model.Group `json:"groups"`
}

// Load reads the collection and settings in one call.
// Missing keys yield an empty collection and default settings.
func (r *Repository) Load(ctx context.Context) (*model.Collection, model.Settings, error) {
	values, err := r.storage.Get(ctx, KeyGroups, KeySettings)
	if err != nil {
		return nil, model.Settings{}, fmt.Errorf("read storage: %w", err)
	}

	collection, err := decodeGroups(values[KeyGroups])
	if err != nil {
		return nil, model.Settings{}, err
	}
	settings, err := decodeSettings(values[KeySettings])
	if err != nil {
		return nil, model.Settings{}, err
	}

	return collection, settings, nil
}

// SaveGroups overwrites the groups key with the whole group tree.
func (r *Repository) SaveGroups(ctx context.Context, collection *model.Collection) error {
	groups := collection.Groups
	if groups == nil {
		groups = []model.Group{}
	}
	data, err := json.Marshal(groupsDocument{Groups: groups})
	if err != nil {
		return fmt.Errorf("marshal groups: %w", err)
	}
	return r.storage.Set(ctx, map[string][]byte{KeyGroups: data})
}

// SaveSettings overwrites the settings key.
func (r *Repository) SaveSettings(ctx context.Context, settings model.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	return r.storage.Set(ctx, map[string][]byte{KeySettings: data})
}

func decodeGroups(data []byte) (*model.Collection, error) {
	collection := model.NewCollection()
	if len(data) == 0 {
		return collection, nil
	}

	var doc groupsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyGroups, err)
	}

	// Ensure slices are not nil
	for i := range doc.Groups {
		if doc.Groups[i].Sites == nil {
			doc.Groups[i].Sites = []model.Site{}
		}
	}
	if doc.Groups != nil {
		collection.Groups = doc.Groups
	}
	return collection, nil
}

// decodeSettings merges persisted settings over the defaults.
// Unknown keys are ignored.
func decodeSettings(data []byte) (model.Settings, error) {
	settings := model.DefaultSettings()
	if len(data) == 0 {
		return settings, nil
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return model.Settings{}, fmt.Errorf("decode %s: %w", KeySettings, err)
	}
	return settings.Normalize(), nil
}
