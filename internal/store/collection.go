package store

import "context"

// Entity is a record addressable by id.
type Entity interface {
	EntityID() string
}

// Repository is the per-entity accessor services depend on.
type Repository[T Entity] interface {
	List(ctx context.Context) ([]T, error)
	Find(ctx context.Context, pred func(T) bool) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Insert(ctx context.Context, v T) error
	Update(ctx context.Context, id string, fn func(v *T) error) (T, error)
	Delete(ctx context.Context, id string) error
}

// Collection is a repository over one slice of a Document's state.
// Returned records are shallow copies; slice fields still alias the document
// and must be replaced, not modified in place.
type Collection[S any, T Entity] struct {
	doc   *Document[S]
	items func(s *S) *[]T
}

func NewCollection[S any, T Entity](doc *Document[S], items func(s *S) *[]T) *Collection[S, T] {
	return &Collection[S, T]{doc: doc, items: items}
}

func (c *Collection[S, T]) List(ctx context.Context) ([]T, error) {
	var out []T
	err := c.doc.View(ctx, func(s *S) {
		src := *c.items(s)
		out = make([]T, len(src))
		copy(out, src)
	})
	return out, err
}

// Find returns the records matching pred, in collection order.
func (c *Collection[S, T]) Find(ctx context.Context, pred func(T) bool) ([]T, error) {
	var out []T
	err := c.doc.View(ctx, func(s *S) {
		for _, v := range *c.items(s) {
			if pred(v) {
				out = append(out, v)
			}
		}
	})
	return out, err
}

func (c *Collection[S, T]) Get(ctx context.Context, id string) (T, error) {
	var (
		out   T
		found bool
	)
	err := c.doc.View(ctx, func(s *S) {
		for _, v := range *c.items(s) {
			if v.EntityID() == id {
				out, found = v, true
				return
			}
		}
	})
	if err != nil {
		return out, err
	}
	if !found {
		return out, ErrNotFound
	}
	return out, nil
}

func (c *Collection[S, T]) Insert(ctx context.Context, v T) error {
	return c.doc.Mutate(ctx, func(s *S) error {
		items := c.items(s)
		*items = append(*items, v)
		return nil
	})
}

// Update applies fn to the record with id and returns the updated copy.
func (c *Collection[S, T]) Update(ctx context.Context, id string, fn func(v *T) error) (T, error) {
	var out T
	err := c.doc.Mutate(ctx, func(s *S) error {
		items := *c.items(s)
		for i := range items {
			if items[i].EntityID() != id {
				continue
			}
			if err := fn(&items[i]); err != nil {
				return err
			}
			out = items[i]
			return nil
		}
		return ErrNotFound
	})
	return out, err
}

func (c *Collection[S, T]) Delete(ctx context.Context, id string) error {
	return c.doc.Mutate(ctx, func(s *S) error {
		items := c.items(s)
		for i, v := range *items {
			if v.EntityID() == id {
				*items = append((*items)[:i:i], (*items)[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

// Mutate exposes the whole slice to fn inside one document mutation, for
// checks that span records (uniqueness, conflicts).
func (c *Collection[S, T]) Mutate(ctx context.Context, fn func(items *[]T) error) error {
	return c.doc.Mutate(ctx, func(s *S) error {
		return fn(c.items(s))
	})
}
