package clinic

import (
	"context"

	"github.com/hackgods/vortex-care/internal/storage"
	"github.com/hackgods/vortex-care/internal/store"
)

const StateKey = "vortex-clinic-data"

// Transactor runs fn against the whole clinic state in one mutation.
type Transactor interface {
	Mutate(ctx context.Context, fn func(s *State) error) error
}

type Repositories struct {
	Services     store.Repository[MedicalService]
	Appointments store.Repository[Appointment]
	Patients     store.Repository[Patient]
	Testimonials store.Repository[Testimonial]
	Team         store.Repository[TeamMember]
	Events       store.Repository[Event]
	Tx           Transactor
}

// Open loads the clinic document, seeding it when the key is absent.
func Open(ctx context.Context, kv storage.Store, seed func() State, opts ...store.Option) (Repositories, error) {
	if seed == nil {
		seed = func() State { return State{} }
	}
	doc, err := store.Open(ctx, kv, StateKey, seed, opts...)
	if err != nil {
		return Repositories{}, err
	}
	return Repositories{
		Services:     store.NewCollection(doc, func(s *State) *[]MedicalService { return &s.Services }),
		Appointments: store.NewCollection(doc, func(s *State) *[]Appointment { return &s.Appointments }),
		Patients:     store.NewCollection(doc, func(s *State) *[]Patient { return &s.Patients }),
		Testimonials: store.NewCollection(doc, func(s *State) *[]Testimonial { return &s.Testimonials }),
		Team:         store.NewCollection(doc, func(s *State) *[]TeamMember { return &s.TeamMembers }),
		Events:       store.NewCollection(doc, func(s *State) *[]Event { return &s.Events }),
		Tx:           doc,
	}, nil
}
