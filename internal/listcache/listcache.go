// Package listcache accumulates paginated collection pages into one ordered,
// deduplicated list per query key, for infinite-scroll style loading.
package listcache

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"flight_logbook/internal/models"
	"flight_logbook/internal/pagination"
)

// Identified is implemented by records with a stable integer identity
type Identified interface {
	Identity() int64
}

// Fetcher loads one page of wire items for a key. A nil page with a nil
// error means the backend returned no page at all.
type Fetcher[W any] func(ctx context.Context, key Key, page int) (*models.Page[W], error)

// Identity is the normalizer for collections whose wire and domain types match
func Identity[T any](v T) T { return v }

// Cache holds the lists of one resource kind. Fetches run outside the lock;
// every result is checked against the key's generation before it is applied,
// so results for a reset or discarded key are dropped on arrival.
type Cache[W any, T Identified] struct {
	mu        sync.Mutex
	resource  models.Resource
	pageSize  int
	fetch     Fetcher[W]
	normalize func(W) T
	entries   map[Key]*entry[W, T]
	nextGen   uint64
}

type entry[W any, T Identified] struct {
	key            Key
	gen            uint64
	items          []T
	index          map[int64]int // identity -> position in items
	highest        int           // highest page applied
	hasMore        bool
	loadingInitial bool
	loadingMore    bool
	revalidating   bool
	err            error
	pending        map[int]*models.Page[W] // pages that arrived ahead of a gap
}

// New creates a cache for one resource. normalize runs over every item as it
// enters the cache.
func New[W any, T Identified](resource models.Resource, pageSize int, fetch Fetcher[W], normalize func(W) T) *Cache[W, T] {
	return &Cache[W, T]{
		resource:  resource,
		pageSize:  pageSize,
		fetch:     fetch,
		normalize: normalize,
		entries:   make(map[Key]*entry[W, T]),
	}
}

// Resource returns the resource kind this cache holds
func (c *Cache[W, T]) Resource() models.Resource {
	return c.resource
}

func (c *Cache[W, T]) newEntryLocked(key Key) *entry[W, T] {
	c.nextGen++
	return &entry[W, T]{
		key:     key,
		gen:     c.nextGen,
		index:   make(map[int64]int),
		hasMore: true,
		pending: make(map[int]*models.Page[W]),
	}
}

func (c *Cache[W, T]) entryLocked(key Key) *entry[W, T] {
	e, ok := c.entries[key.id()]
	if !ok {
		e = c.newEntryLocked(key)
		c.entries[key.id()] = e
	}
	return e
}

// Reset drops every page accumulated for key. Fetches already in flight for
// the key will be ignored when they complete.
func (c *Cache[W, T]) Reset(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key.id()] = c.newEntryLocked(key)
	slog.Debug("List reset", "key", key.String())
}

// Discard forgets key entirely, as when the screen showing it goes away
func (c *Cache[W, T]) Discard(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key.id())
}

// DiscardAll forgets every key
func (c *Cache[W, T]) DiscardAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*entry[W, T])
}

// ActiveKeys returns the keys currently held, ordered by key string
func (c *Cache[W, T]) ActiveKeys() []Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]Key, 0, len(c.entries))
	for _, e := range c.entries {
		keys = append(keys, e.key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// RequestNext fetches the page after the highest one applied for key. It is
// a no-op, returning false, while a fetch for key is in flight or when the
// list is known to be complete. On failure the accumulated items are kept,
// the key's error is set and a later call retries the same page.
func (c *Cache[W, T]) RequestNext(ctx context.Context, key Key) (bool, error) {
	c.mu.Lock()
	e := c.entryLocked(key)
	if e.loadingInitial || e.loadingMore || !e.hasMore {
		c.mu.Unlock()
		return false, nil
	}
	pageNum := e.highest + 1
	if e.highest == 0 {
		e.loadingInitial = true
	} else {
		e.loadingMore = true
	}
	e.err = nil
	gen := e.gen
	c.mu.Unlock()

	page, err := c.fetch(ctx, key, pageNum)

	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.entries[key.id()]
	if !ok || cur.gen != gen {
		slog.Debug("Discarding page for stale key", "key", key.String(), "page", pageNum)
		return false, nil
	}
	cur.loadingInitial = false
	cur.loadingMore = false

	if err != nil {
		cur.err = err
		slog.Warn("Failed to fetch page", "key", key.String(), "page", pageNum, "error", err)
		return false, fmt.Errorf("failed to fetch %s page %d: %w", key.Resource, pageNum, err)
	}

	c.applyLocked(key, cur, pageNum, page)
	return true, nil
}

// AppendPage applies a page fetched outside RequestNext. Pages are applied
// strictly in page order: one that arrives ahead of a gap waits for the gap
// to fill, and one at or below the highest applied page is dropped.
func (c *Cache[W, T]) AppendPage(key Key, pageNum int, page *models.Page[W]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyLocked(key, c.entryLocked(key), pageNum, page)
}

func (c *Cache[W, T]) applyLocked(key Key, e *entry[W, T], pageNum int, page *models.Page[W]) {
	switch {
	case pageNum <= e.highest:
		slog.Debug("Dropping page already superseded", "key", key.String(), "page", pageNum, "highest", e.highest)
		return
	case pageNum > e.highest+1:
		e.pending[pageNum] = page
		slog.Debug("Holding page until earlier pages arrive", "key", key.String(), "page", pageNum, "highest", e.highest)
		return
	}

	c.appendLocked(key, e, pageNum, page)
	for {
		next, ok := e.pending[e.highest+1]
		if !ok {
			break
		}
		delete(e.pending, e.highest+1)
		c.appendLocked(key, e, e.highest+1, next)
	}
}

func (c *Cache[W, T]) appendLocked(key Key, e *entry[W, T], pageNum int, page *models.Page[W]) {
	added, replaced := 0, 0
	if page != nil {
		for _, w := range page.Items {
			item := c.normalize(w)
			if e.upsert(item) {
				replaced++
			} else {
				added++
			}
		}
	}

	e.highest = pageNum
	cursor := pagination.Resolve(page, pageNum, c.pageSize)
	e.hasMore = cursor.HasMore

	slog.Debug("Applied page",
		"key", key.String(),
		"page", pageNum,
		"added", added,
		"replaced", replaced,
		"total", len(e.items),
		"has_more", cursor.HasMore,
		"cursor_source", cursor.Source,
	)
}

// upsert replaces an item with the same identity in place or appends it.
// It reports whether an existing item was replaced.
func (e *entry[W, T]) upsert(item T) bool {
	id := item.Identity()
	if idx, ok := e.index[id]; ok {
		e.items[idx] = item
		return true
	}
	e.index[id] = len(e.items)
	e.items = append(e.items, item)
	return false
}

func (e *entry[W, T]) reindex() {
	e.index = make(map[int64]int, len(e.items))
	for i, item := range e.items {
		e.index[item.Identity()] = i
	}
}

// Revalidate re-fetches page 1 for key and folds it into the list without
// duplicating anything: known items are replaced in place and unseen ones
// are placed at the front in page order. Unknown keys are left alone.
func (c *Cache[W, T]) Revalidate(ctx context.Context, key Key) error {
	c.mu.Lock()
	e, ok := c.entries[key.id()]
	if !ok || e.revalidating || e.loadingInitial {
		c.mu.Unlock()
		return nil
	}
	e.revalidating = true
	gen := e.gen
	c.mu.Unlock()

	page, err := c.fetch(ctx, key, 1)

	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.entries[key.id()]
	if !ok || cur.gen != gen {
		return nil
	}
	cur.revalidating = false

	if err != nil {
		cur.err = err
		return fmt.Errorf("failed to revalidate %s: %w", key.Resource, err)
	}
	cur.err = nil

	if cur.highest == 0 {
		c.applyLocked(key, cur, 1, page)
		return nil
	}

	var fresh []T
	freshIdx := make(map[int64]int)
	if page != nil {
		for _, w := range page.Items {
			item := c.normalize(w)
			id := item.Identity()
			if _, known := cur.index[id]; known {
				cur.upsert(item)
				continue
			}
			if idx, seen := freshIdx[id]; seen {
				fresh[idx] = item
				continue
			}
			freshIdx[id] = len(fresh)
			fresh = append(fresh, item)
		}
	}
	if len(fresh) > 0 {
		cur.items = append(fresh, cur.items...)
		cur.reindex()
	}
	if cur.highest == 1 {
		cur.hasMore = pagination.Resolve(page, 1, c.pageSize).HasMore
	}

	slog.Debug("Revalidated list", "key", key.String(), "new_items", len(fresh), "total", len(cur.items))
	return nil
}

// ReplaceItem swaps in item wherever a record with its identity is listed.
// It returns the number of lists that held the record.
func (c *Cache[W, T]) ReplaceItem(item T) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		if idx, ok := e.index[item.Identity()]; ok {
			e.items[idx] = item
			n++
		}
	}
	return n
}

// RemoveItem drops the record with id from every list
func (c *Cache[W, T]) RemoveItem(id int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		idx, ok := e.index[id]
		if !ok {
			continue
		}
		e.items = append(e.items[:idx], e.items[idx+1:]...)
		e.reindex()
		n++
	}
	return n
}

// State is a snapshot of one key's list
type State[T any] struct {
	Items            []T
	HasMore          bool
	IsLoadingInitial bool
	IsLoadingMore    bool
	IsRevalidating   bool
	PagesLoaded      int
	Err              error
}

// State returns a snapshot for key. Unknown keys report an empty list that
// has more to load.
func (c *Cache[W, T]) State(key Key) State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.id()]
	if !ok {
		return State[T]{Items: []T{}, HasMore: true}
	}
	return State[T]{
		Items:            append([]T{}, e.items...),
		HasMore:          e.hasMore,
		IsLoadingInitial: e.loadingInitial,
		IsLoadingMore:    e.loadingMore,
		IsRevalidating:   e.revalidating,
		PagesLoaded:      e.highest,
		Err:              e.err,
	}
}

// View binds a cache to one key for a list screen
type View[W any, T Identified] struct {
	cache *Cache[W, T]
	key   Key
}

// View returns the handle for key
func (c *Cache[W, T]) View(key Key) *View[W, T] {
	return &View[W, T]{cache: c, key: key}
}

func (v *View[W, T]) Key() Key { return v.key }

func (v *View[W, T]) State() State[T] { return v.cache.State(v.key) }

func (v *View[W, T]) RequestNext(ctx context.Context) (bool, error) {
	return v.cache.RequestNext(ctx, v.key)
}

func (v *View[W, T]) Revalidate(ctx context.Context) error {
	return v.cache.Revalidate(ctx, v.key)
}

func (v *View[W, T]) Reset() { v.cache.Reset(v.key) }

func (v *View[W, T]) Discard() { v.cache.Discard(v.key) }

// Requery moves the view to a new query: the old key is discarded and the
// new one starts empty
func (v *View[W, T]) Requery(key Key) *View[W, T] {
	if key.Same(v.key) {
		return v
	}
	v.cache.Discard(v.key)
	v.cache.Reset(key)
	return v.cache.View(key)
}
