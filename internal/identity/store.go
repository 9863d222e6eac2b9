package identity

import (
	"context"

	"github.com/hackgods/vortex-care/internal/storage"
	"github.com/hackgods/vortex-care/internal/store"
)

const (
	UsersKey    = "vortex-users"
	SessionsKey = "vortex-auth"
)

type (
	UserCollection    = store.Collection[[]User, User]
	SessionCollection = store.Collection[SessionState, Session]
)

// OpenUsers opens the roster, seeding it with seed() when the key is absent.
func OpenUsers(ctx context.Context, kv storage.Store, seed func() []User, opts ...store.Option) (*UserCollection, error) {
	if seed == nil {
		seed = func() []User { return []User{} }
	}
	doc, err := store.Open(ctx, kv, UsersKey, seed, opts...)
	if err != nil {
		return nil, err
	}
	return store.NewCollection(doc, func(s *[]User) *[]User { return s }), nil
}

func OpenSessions(ctx context.Context, kv storage.Store, opts ...store.Option) (*SessionCollection, error) {
	doc, err := store.Open(ctx, kv, SessionsKey, func() SessionState {
		return SessionState{Sessions: []Session{}}
	}, opts...)
	if err != nil {
		return nil, err
	}
	return store.NewCollection(doc, func(s *SessionState) *[]Session { return &s.Sessions }), nil
}
