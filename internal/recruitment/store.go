package recruitment

import (
	"context"

	"github.com/hackgods/vortex-care/internal/storage"
	"github.com/hackgods/vortex-care/internal/store"
)

const StateKey = "vortex-recruitment-data"

type SettingsRepository interface {
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, fn func(s *Settings) error) (Settings, error)
}

// Repositories are the per-entity views of the recruitment document.
type Repositories struct {
	Positions    store.Repository[Position]
	Applications store.Repository[Application]
	Messages     store.Repository[ContactMessage]
	Settings     SettingsRepository
}

// Open loads the recruitment document, seeding it when the key is absent.
func Open(ctx context.Context, kv storage.Store, seed func() State, opts ...store.Option) (Repositories, error) {
	if seed == nil {
		seed = func() State { return State{} }
	}
	doc, err := store.Open(ctx, kv, StateKey, seed, opts...)
	if err != nil {
		return Repositories{}, err
	}
	return Repositories{
		Positions:    store.NewCollection(doc, func(s *State) *[]Position { return &s.Positions }),
		Applications: store.NewCollection(doc, func(s *State) *[]Application { return &s.Applications }),
		Messages:     store.NewCollection(doc, func(s *State) *[]ContactMessage { return &s.Messages }),
		Settings:     settingsRepo{doc: doc},
	}, nil
}

type settingsRepo struct {
	doc *store.Document[State]
}

func (r settingsRepo) Get(ctx context.Context) (Settings, error) {
	var out Settings
	err := r.doc.View(ctx, func(s *State) { out = s.Settings })
	return out, err
}

func (r settingsRepo) Update(ctx context.Context, fn func(s *Settings) error) (Settings, error) {
	var out Settings
	err := r.doc.Mutate(ctx, func(s *State) error {
		if err := fn(&s.Settings); err != nil {
			return err
		}
		out = s.Settings
		return nil
	})
	return out, err
}
