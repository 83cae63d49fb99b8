package listcache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"flight_logbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wireRec struct {
	ID   int64
	Name string
}

type rec struct {
	ID   int64
	Name string
}

func (r rec) Identity() int64 { return r.ID }

func toRec(w wireRec) rec {
	return rec{ID: w.ID, Name: "n:" + w.Name}
}

func intPtr(v int) *int { return &v }

func wires(from, to int64) []wireRec {
	out := make([]wireRec, 0, to-from+1)
	for id := from; id <= to; id++ {
		out = append(out, wireRec{ID: id, Name: fmt.Sprint(id)})
	}
	return out
}

func ids(items []rec) []int64 {
	out := make([]int64, len(items))
	for i, r := range items {
		out[i] = r.ID
	}
	return out
}

// fakeBackend serves canned pages and records which pages were requested
type fakeBackend struct {
	mu        sync.Mutex
	pages     map[int]*models.Page[wireRec]
	errs      map[int]error
	requested []int
	gate      chan struct{} // when set, fetches block until it is closed
	started   chan int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		pages: make(map[int]*models.Page[wireRec]),
		errs:  make(map[int]error),
	}
}

func (b *fakeBackend) fetch(ctx context.Context, key Key, page int) (*models.Page[wireRec], error) {
	b.mu.Lock()
	b.requested = append(b.requested, page)
	gate, started := b.gate, b.started
	b.mu.Unlock()

	if started != nil {
		started <- page
	}
	if gate != nil {
		<-gate
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err, ok := b.errs[page]; ok {
		delete(b.errs, page)
		return nil, err
	}
	return b.pages[page], nil
}

func (b *fakeBackend) requests() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.requested...)
}

func newTestCache(b *fakeBackend, pageSize int) *Cache[wireRec, rec] {
	return New[wireRec, rec](models.ResourceFlights, pageSize, b.fetch, toRec)
}

func TestRequestNext_FollowsMetadata(t *testing.T) {
	b := newFakeBackend()
	b.pages[1] = &models.Page[wireRec]{Items: wires(1, 50), Meta: models.PageMeta{Top: &models.Bounds{CurrentPage: intPtr(1), LastPage: intPtr(3)}}}
	b.pages[2] = &models.Page[wireRec]{Items: wires(51, 100), Meta: models.PageMeta{Top: &models.Bounds{CurrentPage: intPtr(2), LastPage: intPtr(3)}}}
	b.pages[3] = &models.Page[wireRec]{Items: wires(101, 110), Meta: models.PageMeta{Top: &models.Bounds{CurrentPage: intPtr(3), LastPage: intPtr(3)}}}

	c := newTestCache(b, 50)
	key := NewKey(models.ResourceFlights, "", models.StandardICAO)
	ctx := context.Background()

	ok, err := c.RequestNext(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	state := c.State(key)
	assert.True(t, state.HasMore)
	assert.Len(t, state.Items, 50)
	assert.Equal(t, "n:1", state.Items[0].Name)

	_, err = c.RequestNext(ctx, key)
	require.NoError(t, err)
	_, err = c.RequestNext(ctx, key)
	require.NoError(t, err)

	state = c.State(key)
	assert.False(t, state.HasMore)
	assert.Len(t, state.Items, 110)
	assert.Equal(t, 3, state.PagesLoaded)

	// Complete lists do not fetch again
	ok, err = c.RequestNext(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []int{1, 2, 3}, b.requests())
}

func TestRequestNext_NilPageEndsList(t *testing.T) {
	b := newFakeBackend()
	c := newTestCache(b, 10)
	key := NewKey(models.ResourceAirports, "x", models.StandardIATA)

	ok, err := c.RequestNext(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, ok)

	state := c.State(key)
	assert.Empty(t, state.Items)
	assert.False(t, state.HasMore)
}

func TestRequestNext_DedupesByIdentity(t *testing.T) {
	b := newFakeBackend()
	b.pages[1] = &models.Page[wireRec]{Items: wires(1, 3)}
	b.pages[2] = &models.Page[wireRec]{Items: []wireRec{{ID: 2, Name: "updated"}, {ID: 4, Name: "4"}}}

	c := newTestCache(b, 3)
	key := NewKey(models.ResourceFlights, "", "")
	ctx := context.Background()

	_, err := c.RequestNext(ctx, key)
	require.NoError(t, err)
	_, err = c.RequestNext(ctx, key)
	require.NoError(t, err)

	state := c.State(key)
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(state.Items))
	assert.Equal(t, "n:updated", state.Items[1].Name)
	assert.False(t, state.HasMore)
}

func TestRequestNext_CoalescesInFlight(t *testing.T) {
	b := newFakeBackend()
	b.pages[1] = &models.Page[wireRec]{Items: wires(1, 2)}
	b.gate = make(chan struct{})
	b.started = make(chan int, 1)

	c := newTestCache(b, 10)
	key := NewKey(models.ResourceFlights, "", "")
	ctx := context.Background()

	done := make(chan bool)
	go func() {
		ok, _ := c.RequestNext(ctx, key)
		done <- ok
	}()
	<-b.started

	assert.True(t, c.State(key).IsLoadingInitial)
	ok, err := c.RequestNext(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	close(b.gate)
	select {
	case ok := <-done:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not complete")
	}

	assert.Equal(t, []int{1}, b.requests())
	assert.False(t, c.State(key).IsLoadingInitial)
	assert.Len(t, c.State(key).Items, 2)
}

func TestRequestNext_LoadingMoreFlag(t *testing.T) {
	b := newFakeBackend()
	b.pages[1] = &models.Page[wireRec]{Items: wires(1, 2)}
	b.pages[2] = &models.Page[wireRec]{Items: wires(3, 3)}

	c := newTestCache(b, 2)
	key := NewKey(models.ResourceFlights, "", "")
	ctx := context.Background()
	_, err := c.RequestNext(ctx, key)
	require.NoError(t, err)

	b.gate = make(chan struct{})
	b.started = make(chan int, 1)
	done := make(chan struct{})
	go func() {
		_, _ = c.RequestNext(ctx, key)
		close(done)
	}()
	assert.Equal(t, 2, <-b.started)

	state := c.State(key)
	assert.False(t, state.IsLoadingInitial)
	assert.True(t, state.IsLoadingMore)

	close(b.gate)
	<-done
	assert.False(t, c.State(key).IsLoadingMore)
}

func TestRequestNext_StaleResultDiscarded(t *testing.T) {
	for _, tc := range []struct {
		name    string
		abandon func(c *Cache[wireRec, rec], key Key)
	}{
		{"reset", func(c *Cache[wireRec, rec], key Key) { c.Reset(key) }},
		{"discard", func(c *Cache[wireRec, rec], key Key) { c.Discard(key) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := newFakeBackend()
			b.pages[1] = &models.Page[wireRec]{Items: wires(1, 5)}
			b.gate = make(chan struct{})
			b.started = make(chan int, 1)

			c := newTestCache(b, 10)
			key := NewKey(models.ResourceFlights, "old", "")

			type result struct {
				ok  bool
				err error
			}
			done := make(chan result)
			go func() {
				ok, err := c.RequestNext(context.Background(), key)
				done <- result{ok, err}
			}()
			<-b.started

			tc.abandon(c, key)
			close(b.gate)

			r := <-done
			assert.NoError(t, r.err)
			assert.False(t, r.ok)
			assert.Empty(t, c.State(key).Items)
		})
	}
}

func TestRequestNext_FailureKeepsItems(t *testing.T) {
	b := newFakeBackend()
	b.pages[1] = &models.Page[wireRec]{Items: wires(1, 2)}
	b.pages[2] = &models.Page[wireRec]{Items: wires(3, 3)}
	b.errs[2] = fmt.Errorf("502 bad gateway")

	c := newTestCache(b, 2)
	key := NewKey(models.ResourceAircraft, "", "")
	ctx := context.Background()

	_, err := c.RequestNext(ctx, key)
	require.NoError(t, err)

	ok, err := c.RequestNext(ctx, key)
	assert.Error(t, err)
	assert.False(t, ok)

	state := c.State(key)
	assert.Equal(t, []int64{1, 2}, ids(state.Items))
	assert.EqualError(t, state.Err, "502 bad gateway")
	assert.True(t, state.HasMore)
	assert.False(t, state.IsLoadingMore)

	// Retry the same page
	ok, err = c.RequestNext(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	state = c.State(key)
	assert.Equal(t, []int64{1, 2, 3}, ids(state.Items))
	assert.NoError(t, state.Err)
	assert.Equal(t, []int{1, 2, 2}, b.requests())
}

func TestAppendPage_OutOfOrderMatchesSequential(t *testing.T) {
	pages := map[int]*models.Page[wireRec]{
		1: {Items: wires(1, 3)},
		2: {Items: append(wires(4, 5), wireRec{ID: 2, Name: "moved"})},
		3: {Items: wires(6, 6)},
	}

	orders := [][]int{{1, 2, 3}, {2, 1, 3}, {3, 2, 1}, {1, 3, 2}, {3, 1, 2}}
	var want []rec
	for i, order := range orders {
		c := newTestCache(newFakeBackend(), 3)
		key := NewKey(models.ResourceFlights, "", "")
		for _, n := range order {
			c.AppendPage(key, n, pages[n])
		}
		state := c.State(key)
		if i == 0 {
			want = state.Items
			assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, ids(want))
			continue
		}
		assert.Equal(t, want, state.Items, "order %v", order)
		assert.Equal(t, 3, state.PagesLoaded)
		assert.False(t, state.HasMore)
	}
}

func TestAppendPage_DropsSupersededPage(t *testing.T) {
	c := newTestCache(newFakeBackend(), 2)
	key := NewKey(models.ResourceFlights, "", "")

	c.AppendPage(key, 1, &models.Page[wireRec]{Items: wires(1, 2)})
	c.AppendPage(key, 2, &models.Page[wireRec]{Items: wires(3, 4)})
	c.AppendPage(key, 1, &models.Page[wireRec]{Items: []wireRec{{ID: 9}}})

	assert.Equal(t, []int64{1, 2, 3, 4}, ids(c.State(key).Items))
}

func TestRevalidate_NoDuplicates(t *testing.T) {
	b := newFakeBackend()
	b.pages[1] = &models.Page[wireRec]{Items: wires(1, 2)}
	b.pages[2] = &models.Page[wireRec]{Items: wires(3, 4)}

	c := newTestCache(b, 2)
	key := NewKey(models.ResourceFlights, "", "")
	ctx := context.Background()
	_, err := c.RequestNext(ctx, key)
	require.NoError(t, err)
	_, err = c.RequestNext(ctx, key)
	require.NoError(t, err)

	// A new flight was logged: it now heads page 1 and pushes id 2 off it
	b.mu.Lock()
	b.pages[1] = &models.Page[wireRec]{Items: []wireRec{{ID: 10, Name: "new"}, {ID: 1, Name: "edited"}, {ID: 10, Name: "new"}}}
	b.mu.Unlock()

	require.NoError(t, c.Revalidate(ctx, key))
	require.NoError(t, c.Revalidate(ctx, key))

	state := c.State(key)
	assert.Equal(t, []int64{10, 1, 2, 3, 4}, ids(state.Items))
	assert.Equal(t, "n:edited", state.Items[1].Name)
	assert.Equal(t, 2, state.PagesLoaded)
}

func TestRevalidate_UnknownKeyIsNoop(t *testing.T) {
	b := newFakeBackend()
	c := newTestCache(b, 2)
	require.NoError(t, c.Revalidate(context.Background(), NewKey(models.ResourceFlights, "", "")))
	assert.Empty(t, b.requests())
}

func TestReplaceAndRemoveItem(t *testing.T) {
	c := newTestCache(newFakeBackend(), 10)
	all := NewKey(models.ResourceFlights, "", "")
	search := NewKey(models.ResourceFlights, "abc", "")
	c.AppendPage(all, 1, &models.Page[wireRec]{Items: wires(1, 3)})
	c.AppendPage(search, 1, &models.Page[wireRec]{Items: wires(2, 2)})

	assert.Equal(t, 2, c.ReplaceItem(rec{ID: 2, Name: "merged"}))
	assert.Equal(t, "merged", c.State(all).Items[1].Name)
	assert.Equal(t, "merged", c.State(search).Items[0].Name)
	assert.Equal(t, 0, c.ReplaceItem(rec{ID: 99}))

	assert.Equal(t, 2, c.RemoveItem(2))
	assert.Equal(t, []int64{1, 3}, ids(c.State(all).Items))
	assert.Empty(t, c.State(search).Items)

	// Index stays consistent after removal
	c.AppendPage(all, 2, &models.Page[wireRec]{Items: []wireRec{{ID: 3, Name: "again"}}})
	assert.Equal(t, []int64{1, 3}, ids(c.State(all).Items))
}

func TestViewRequery(t *testing.T) {
	b := newFakeBackend()
	b.pages[1] = &models.Page[wireRec]{Items: wires(1, 1)}
	c := newTestCache(b, 10)
	ctx := context.Background()

	v := c.View(NewKey(models.ResourceAircraft, "D-E", ""))
	_, err := v.RequestNext(ctx)
	require.NoError(t, err)
	assert.Len(t, v.State().Items, 1)

	v2 := v.Requery(NewKey(models.ResourceAircraft, "D-EA", ""))
	assert.Empty(t, v2.State().Items)
	assert.Equal(t, []Key{v2.Key()}, c.ActiveKeys())
	assert.Same(t, v2, v2.Requery(v2.Key()))
}

func TestNewKey(t *testing.T) {
	a := NewKey(models.ResourceAirports, "  Frankfurt   MAIN ", models.StandardICAO)
	b := NewKey(models.ResourceAirports, "frankfurt main", models.StandardICAO)
	assert.True(t, a.Same(b))
	assert.Equal(t, "frankfurt main", a.Search)
	assert.Equal(t, "Frankfurt MAIN", a.Query())

	c := NewKey(models.ResourceAirports, "frankfurt main", models.StandardIATA)
	assert.False(t, a.Same(c))

	street := NewKey(models.ResourceAirports, "Straße", "")
	assert.Equal(t, "strasse", street.Search)
	assert.Equal(t, "Straße", street.Query())
	assert.True(t, street.Same(NewKey(models.ResourceAirports, "STRASSE", "")))
}

func TestKeysDifferingInCaseShareOneList(t *testing.T) {
	b := newFakeBackend()
	b.pages[1] = &models.Page[wireRec]{Items: wires(1, 3)}
	c := newTestCache(b, 10)
	ctx := context.Background()

	typed := NewKey(models.ResourceFlights, "Straße", "")
	_, err := c.RequestNext(ctx, typed)
	require.NoError(t, err)

	upper := NewKey(models.ResourceFlights, "STRASSE", "")
	assert.Equal(t, []int64{1, 2, 3}, ids(c.State(upper).Items))
	assert.Equal(t, []Key{typed}, c.ActiveKeys())

	// Already complete under the other spelling: nothing is fetched
	fetched, err := c.RequestNext(ctx, upper)
	require.NoError(t, err)
	assert.False(t, fetched)
	assert.Equal(t, []int{1}, b.requests())

	c.Discard(upper)
	assert.Empty(t, c.ActiveKeys())
}
