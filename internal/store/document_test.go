package store

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/vortex-care/internal/storage"
)

type note struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

func (n note) EntityID() string { return n.ID }

type notebook struct {
	Title string `json:"title"`
	Notes []note `json:"notes"`
}

func seedNotebook() notebook {
	return notebook{Title: "seeded", Notes: []note{{ID: "1", Body: "first"}}}
}

// failingStore fails every Put after the first n.
type failingStore struct {
	*storage.Memory
	mu    sync.Mutex
	puts  int
	allow int
}

func (f *failingStore) Put(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.puts > f.allow {
		return errors.New("disk full")
	}
	return f.Memory.Put(ctx, key, value)
}

type recordingObserver struct {
	calls []error
}

func (r *recordingObserver) ObservePersist(_ string, _ time.Duration, err error) {
	r.calls = append(r.calls, err)
}

type countingLocker struct {
	keys []string
}

func (l *countingLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.keys = append(l.keys, key)
	return fn(ctx)
}

func TestOpen_SeedsMissingKey(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	doc, err := Open(ctx, kv, "nb", seedNotebook)
	require.NoError(t, err)
	assert.Equal(t, "nb", doc.Key())

	raw, err := kv.Get(ctx, "nb")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"seeded"`)
}

func TestOpen_LoadsExistingKey(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Put(ctx, "nb", []byte(`{"title":"stored","notes":[]}`)))

	doc, err := Open(ctx, kv, "nb", seedNotebook)
	require.NoError(t, err)

	var title string
	require.NoError(t, doc.View(ctx, func(s *notebook) { title = s.Title }))
	assert.Equal(t, "stored", title)
}

func TestOpen_CorruptPayload(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Put(ctx, "nb", []byte(`{not json`)))

	_, err := Open(ctx, kv, "nb", seedNotebook)
	assert.Error(t, err)
}

func TestMutate_PersistsWholeState(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	obs := &recordingObserver{}
	locker := &countingLocker{}

	doc, err := Open(ctx, kv, "nb", seedNotebook, WithObserver(obs), WithLocker(locker))
	require.NoError(t, err)

	require.NoError(t, doc.Mutate(ctx, func(s *notebook) error {
		s.Title = "renamed"
		return nil
	}))

	reopened, err := Open(ctx, kv, "nb", seedNotebook)
	require.NoError(t, err)
	var title string
	require.NoError(t, reopened.View(ctx, func(s *notebook) { title = s.Title }))
	assert.Equal(t, "renamed", title)

	assert.Equal(t, []string{"doc:nb"}, locker.keys)
	// seed + mutation
	require.Len(t, obs.calls, 2)
	assert.NoError(t, obs.calls[1])
}

func TestMutate_RollsBackOnCallbackError(t *testing.T) {
	ctx := context.Background()
	doc, err := Open(ctx, storage.NewMemory(), "nb", seedNotebook)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = doc.Mutate(ctx, func(s *notebook) error {
		s.Title = "half-applied"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var title string
	require.NoError(t, doc.View(ctx, func(s *notebook) { title = s.Title }))
	assert.Equal(t, "seeded", title)
}

func TestMutate_RollsBackOnWriteError(t *testing.T) {
	ctx := context.Background()
	kv := &failingStore{Memory: storage.NewMemory(), allow: 1}

	doc, err := Open(ctx, kv, "nb", seedNotebook)
	require.NoError(t, err)

	err = doc.Mutate(ctx, func(s *notebook) error {
		s.Title = "lost"
		return nil
	})
	require.Error(t, err)

	var title string
	require.NoError(t, doc.View(ctx, func(s *notebook) { title = s.Title }))
	assert.Equal(t, "seeded", title)
}

func TestView_PicksUpForeignWrites(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	a, err := Open(ctx, kv, "nb", seedNotebook)
	require.NoError(t, err)
	b, err := Open(ctx, kv, "nb", seedNotebook)
	require.NoError(t, err)

	require.NoError(t, b.Mutate(ctx, func(s *notebook) error {
		s.Title = "from b"
		return nil
	}))

	var title string
	require.NoError(t, a.View(ctx, func(s *notebook) { title = s.Title }))
	assert.Equal(t, "from b", title)
}

// slowStore delays every Get, widening the window between a read and the
// writes that race with it.
type slowStore struct {
	*storage.Memory
	delay time.Duration
}

func (s *slowStore) Get(ctx context.Context, key string) ([]byte, error) {
	time.Sleep(s.delay)
	return s.Memory.Get(ctx, key)
}

func TestCollection_ConcurrentInsertsAreNotLost(t *testing.T) {
	ctx := context.Background()
	kv := &slowStore{Memory: storage.NewMemory(), delay: time.Millisecond}
	doc, err := Open(ctx, kv, "nb", func() notebook { return notebook{} })
	require.NoError(t, err)
	notes := NewCollection(doc, func(s *notebook) *[]note { return &s.Notes })

	const writers = 200
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, notes.Insert(ctx, note{ID: strconv.Itoa(i)}))
		}(i)
		go func() {
			defer wg.Done()
			_, err := notes.List(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := notes.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, writers)

	reopened, err := Open(ctx, kv.Memory, "nb", func() notebook { return notebook{} })
	require.NoError(t, err)
	require.NoError(t, reopened.View(ctx, func(s *notebook) {
		assert.Len(t, s.Notes, writers)
	}))
}

func TestView_StaleReadDoesNotRevertWrite(t *testing.T) {
	ctx := context.Background()
	kv := &slowStore{Memory: storage.NewMemory(), delay: 20 * time.Millisecond}
	doc, err := Open(ctx, kv, "nb", seedNotebook)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, doc.View(ctx, func(*notebook) {}))
	}()
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, doc.Mutate(ctx, func(s *notebook) error {
		s.Title = "renamed"
		return nil
	}))
	<-done

	require.NoError(t, doc.View(ctx, func(s *notebook) {
		assert.Equal(t, "renamed", s.Title)
	}))
}
