// Package speeddial owns the speed dial collection: groups of sites plus
// display settings. Every mutation is validated, staged on a copy, written
// to storage and only then made visible.
package speeddial

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nikbrunner/speeddial/internal/model"
	"github.com/nikbrunner/speeddial/internal/storage"
	"github.com/nikbrunner/speeddial/internal/title"
)

// DefaultGroupName names the group created for an empty collection.
const DefaultGroupName = "Speed Dial"

// Thumbnailer picks the thumbnail reference for a site URL.
type Thumbnailer interface {
	Resolve(ctx context.Context, url string, settings model.Settings) string
	IconURL(url string) string
}

// Params holds the collaborators of a Store.
type Params struct {
	Storage    storage.Storage
	Thumbnails Thumbnailer
	Titles     title.Resolver
	Logger     *slog.Logger
}

// View is a read-only snapshot of the store.
type View struct {
	Groups        []model.Group  `json:"groups"`
	Settings      model.Settings `json:"settings"`
	ActiveGroupID string         `json:"activeGroupId"`
}

// ActiveGroup returns the active group of the snapshot.
func (v View) ActiveGroup() *model.Group {
	for i := range v.Groups {
		if v.Groups[i].ID == v.ActiveGroupID {
			return &v.Groups[i]
		}
	}
	return nil
}

// Store is the single owner of the collection.
type Store struct {
	// opMu serializes operations, mu guards the committed state.
	opMu sync.Mutex
	mu   sync.RWMutex

	repo       *storage.Repository
	thumbnails Thumbnailer
	titles     title.Resolver
	logger     *slog.Logger

	collection    *model.Collection
	settings      model.Settings
	activeGroupID string
}

// Open loads the collection from storage. An empty collection is seeded with
// one group so there is always a group to add sites to.
func Open(ctx context.Context, params Params) (*Store, error) {
	s := &Store{
		repo:       storage.NewRepository(params.Storage),
		thumbnails: params.Thumbnails,
		titles:     params.Titles,
		logger:     params.Logger,
	}
	if s.titles == nil {
		s.titles = title.HostnameResolver{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	collection, settings, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load speed dial: %w", err)
	}

	if len(collection.Groups) == 0 {
		collection.Groups = append(collection.Groups, model.NewGroup(model.NewGroupParams{Name: DefaultGroupName}))
		if err := s.repo.SaveGroups(ctx, collection); err != nil {
			return nil, &PersistenceError{Key: storage.KeyGroups, Err: err}
		}
		s.logger.Info("created default group", "name", DefaultGroupName)
	}

	s.collection = collection
	s.settings = settings
	s.activeGroupID = collection.Groups[0].ID
	return s, nil
}

// View returns a deep copy of the current state.
func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return View{
		Groups:        s.collection.Clone().Groups,
		Settings:      s.settings,
		ActiveGroupID: s.activeGroupID,
	}
}

// stage returns a private copy of the committed state to mutate.
func (s *Store) stage() (*model.Collection, model.Settings, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collection.Clone(), s.settings, s.activeGroupID
}

// commitGroups persists staged and makes it visible. An empty active keeps
// the current active group; if that group is gone the first group becomes active.
func (s *Store) commitGroups(ctx context.Context, staged *model.Collection, active string) error {
	if err := s.repo.SaveGroups(ctx, staged); err != nil {
		s.logger.Error("failed to persist groups", "error", err)
		return &PersistenceError{Key: storage.KeyGroups, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if active == "" {
		active = s.activeGroupID
	}
	if staged.GetGroupByID(active) == nil {
		active = staged.Groups[0].ID
	}
	s.collection = staged
	s.activeGroupID = active
	return nil
}

// AddGroup appends an empty group and makes it active.
func (s *Store) AddGroup(ctx context.Context, name string) (model.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Group{}, ErrEmptyName
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	staged, _, _ := s.stage()
	group := model.NewGroup(model.NewGroupParams{Name: name})
	if staged.HasID(group.ID) {
		group.ID = staged.NewID()
	}
	staged.Groups = append(staged.Groups, group)

	if err := s.commitGroups(ctx, staged, group.ID); err != nil {
		return model.Group{}, err
	}
	s.logger.Debug("added group", "id", group.ID, "name", name)
	return group, nil
}

// RemoveGroup deletes a group and all of its sites. The last group cannot be removed.
func (s *Store) RemoveGroup(ctx context.Context, id string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	staged, _, _ := s.stage()
	if staged.GetGroupByID(id) == nil {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	if len(staged.Groups) == 1 {
		return ErrLastGroup
	}
	staged.RemoveGroup(id)

	return s.commitGroups(ctx, staged, "")
}

// SelectGroup changes the active group. Nothing is persisted.
func (s *Store) SelectGroup(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collection.GetGroupByID(id) == nil {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	s.activeGroupID = id
	return nil
}

// RenameGroup changes a group's name.
func (s *Store) RenameGroup(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	staged, _, _ := s.stage()
	group := staged.GetGroupByID(id)
	if group == nil {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	group.Name = name

	return s.commitGroups(ctx, staged, "")
}

// AddSite appends a site to a group. An empty groupID targets the active
// group. A blank name is replaced by the page title.
func (s *Store) AddSite(ctx context.Context, groupID, rawURL, name string) (model.Site, error) {
	url, err := normalizeURL(rawURL)
	if err != nil {
		return model.Site{}, err
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	staged, settings, active := s.stage()
	if groupID == "" {
		groupID = active
	}
	if staged.GetGroupByID(groupID) == nil {
		return model.Site{}, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}

	name = strings.TrimSpace(name)
	thumb, resolved := s.resolve(ctx, url, settings, name == "")
	if name == "" {
		name = resolved
	}

	site := model.NewSite(model.NewSiteParams{Name: name, URL: url, Thumbnail: thumb})
	if staged.HasID(site.ID) {
		site.ID = staged.NewID()
	}
	group := staged.GetGroupByID(groupID)
	group.Sites = append(group.Sites, site)

	if err := s.commitGroups(ctx, staged, ""); err != nil {
		return model.Site{}, err
	}
	s.logger.Debug("added site", "id", site.ID, "url", url, "group", groupID)
	return site, nil
}

// EditSite changes a site's URL and/or name. Nil arguments are left alone.
// A changed URL re-resolves the thumbnail and, unless a name is given, the title.
func (s *Store) EditSite(ctx context.Context, siteID string, newURL, newName *string) (model.Site, error) {
	var url string
	if newURL != nil {
		u, err := normalizeURL(*newURL)
		if err != nil {
			return model.Site{}, err
		}
		url = u
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	staged, settings, _ := s.stage()
	_, site := staged.FindSite(siteID)
	if site == nil {
		return model.Site{}, fmt.Errorf("%w: %s", ErrSiteNotFound, siteID)
	}

	var name string
	if newName != nil {
		name = strings.TrimSpace(*newName)
	}

	if url != "" && url != site.URL {
		thumb, resolved := s.resolve(ctx, url, settings, name == "")
		if name == "" {
			name = resolved
		}
		site.URL = url
		site.Thumbnail = thumb
	}
	if name != "" {
		site.Name = name
	}
	edited := *site

	if err := s.commitGroups(ctx, staged, ""); err != nil {
		return model.Site{}, err
	}
	return edited, nil
}

// MoveSite moves a site to the end of another group, keeping its id.
func (s *Store) MoveSite(ctx context.Context, siteID, fromGroupID, toGroupID string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	staged, _, _ := s.stage()
	from := staged.GetGroupByID(fromGroupID)
	if from == nil {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, fromGroupID)
	}
	to := staged.GetGroupByID(toGroupID)
	if to == nil {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, toGroupID)
	}
	if from.GetSiteByID(siteID) == nil {
		return fmt.Errorf("%w: %s in group %s", ErrSiteNotFound, siteID, fromGroupID)
	}
	if fromGroupID == toGroupID {
		return nil
	}

	site, _ := from.RemoveSite(siteID)
	to.Sites = append(to.Sites, site)

	return s.commitGroups(ctx, staged, "")
}

// RemoveSite deletes a site from whichever group holds it.
func (s *Store) RemoveSite(ctx context.Context, siteID string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	staged, _, _ := s.stage()
	group, _ := staged.FindSite(siteID)
	if group == nil {
		return fmt.Errorf("%w: %s", ErrSiteNotFound, siteID)
	}
	group.RemoveSite(siteID)

	return s.commitGroups(ctx, staged, "")
}

// RefreshThumbnail re-resolves a site's thumbnail under the current settings.
func (s *Store) RefreshThumbnail(ctx context.Context, siteID string) (model.Site, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	staged, settings, _ := s.stage()
	_, site := staged.FindSite(siteID)
	if site == nil {
		return model.Site{}, fmt.Errorf("%w: %s", ErrSiteNotFound, siteID)
	}

	site.Thumbnail, _ = s.resolve(ctx, site.URL, settings, false)
	refreshed := *site

	if err := s.commitGroups(ctx, staged, ""); err != nil {
		return model.Site{}, err
	}
	return refreshed, nil
}

// UpdateSettings merges patch into the settings and persists them.
func (s *Store) UpdateSettings(ctx context.Context, patch model.SettingsPatch) (model.Settings, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	_, current, _ := s.stage()
	updated := patch.Apply(current)

	if err := s.repo.SaveSettings(ctx, updated); err != nil {
		s.logger.Error("failed to persist settings", "error", err)
		return model.Settings{}, &PersistenceError{Key: storage.KeySettings, Err: err}
	}

	s.mu.Lock()
	s.settings = updated
	s.mu.Unlock()
	return updated, nil
}

// resolve computes the thumbnail and, if wantTitle, the title of url concurrently.
func (s *Store) resolve(ctx context.Context, url string, settings model.Settings, wantTitle bool) (thumb, name string) {
	var g errgroup.Group
	g.Go(func() error {
		thumb = s.thumbnail(ctx, url, settings)
		return nil
	})
	if wantTitle {
		g.Go(func() error {
			name = s.titles.Resolve(ctx, url)
			return nil
		})
	}
	_ = g.Wait()
	return thumb, name
}

func (s *Store) thumbnail(ctx context.Context, url string, settings model.Settings) string {
	if s.thumbnails == nil {
		return ""
	}
	return s.thumbnails.Resolve(ctx, url, settings)
}
