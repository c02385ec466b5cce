package services

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"segue/types"
	"segue/websocket"
)

// DefaultLibraryTTL is how long an untouched library survives before the
// sweeper evicts it.
const DefaultLibraryTTL = time.Hour

// LibrarySummary is the listing entry for one stored library.
type LibrarySummary struct {
	ID            string `json:"id"`
	SourceFormat  string `json:"source_format"`
	TrackCount    int    `json:"track_count"`
	PlaylistCount int    `json:"playlist_count"`
}

// LibraryStore interface defines the in-memory library registry. Read and
// Update run the callback under the library's own lock, so handlers never
// touch a library outside of them.
type LibraryStore interface {
	Put(lib *types.Library) string
	Exists(id string) bool
	Delete(id string) bool
	Len() int
	Summaries() []LibrarySummary
	Read(id string, fn func(lib *types.Library) error) error
	Update(id string, fn func(lib *types.Library) error) error
	StartSweeper(interval time.Duration)
}

// entry pairs a library with its own RW lock. lastAccess is unix nanos,
// updated on every resolve and read by the sweeper without the entry lock.
type entry struct {
	lib        *types.Library
	mu         sync.RWMutex
	lastAccess atomic.Int64
}

func (e *entry) touch() {
	e.lastAccess.Store(time.Now().UnixNano())
}

// libraryStore implements LibraryStore with a mutex-protected map. The outer
// mutex only guards the map itself; per-library work happens under the
// entry's lock so slow operations on one library never block the others.
type libraryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	hub     websocket.Hub
}

// NewLibraryStore creates a library store backed by the given hub. A zero or
// negative ttl falls back to DefaultLibraryTTL.
func NewLibraryStore(hub websocket.Hub, ttl time.Duration) LibraryStore {
	if ttl <= 0 {
		ttl = DefaultLibraryTTL
	}
	return &libraryStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		hub:     hub,
	}
}

// Put registers a library and returns its id, assigning one when the library
// arrived without.
func (s *libraryStore) Put(lib *types.Library) string {
	if lib.ID == "" {
		lib.ID = uuid.New().String()
	}

	e := &entry{lib: lib}
	e.touch()

	s.mu.Lock()
	s.entries[lib.ID] = e
	s.mu.Unlock()

	return lib.ID
}

// Exists reports whether a library id is currently stored. It does not count
// as an access for TTL purposes.
func (s *libraryStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[id]
	return ok
}

// Delete removes a library and broadcasts a deleted event. Returns false
// when the id was not stored.
func (s *libraryStore) Delete(id string) bool {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}

	e.mu.RLock()
	event := types.NewLibraryEvent(e.lib, types.EventDeleted, "")
	e.mu.RUnlock()
	s.hub.BroadcastEvent(event)

	return true
}

// Len returns the number of stored libraries.
func (s *libraryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Summaries returns a listing entry per stored library.
func (s *libraryStore) Summaries() []LibrarySummary {
	s.mu.RLock()
	all := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		all = append(all, e)
	}
	s.mu.RUnlock()

	summaries := make([]LibrarySummary, 0, len(all))
	for _, e := range all {
		e.mu.RLock()
		summaries = append(summaries, LibrarySummary{
			ID:            e.lib.ID,
			SourceFormat:  e.lib.SourceFormat,
			TrackCount:    len(e.lib.Tracks),
			PlaylistCount: len(e.lib.Playlists),
		})
		e.mu.RUnlock()
	}
	return summaries
}

// Read runs fn with the library's read lock held. The access time is
// refreshed so active libraries never expire mid-use.
func (s *libraryStore) Read(id string, fn func(lib *types.Library) error) error {
	e, err := s.resolve(id)
	if err != nil {
		return err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	return fn(e.lib)
}

// Update runs fn with the library's write lock held.
func (s *libraryStore) Update(id string, fn func(lib *types.Library) error) error {
	e, err := s.resolve(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.lib)
}

func (s *libraryStore) resolve(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return nil, &types.NotFoundError{Kind: "library", ID: id}
	}
	e.touch()
	return e, nil
}

// StartSweeper launches the eviction goroutine. Each tick drops every
// library idle for longer than the TTL and broadcasts an evicted event for
// it.
func (s *libraryStore) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			s.sweep(time.Now())
		}
	}()
}

func (s *libraryStore) sweep(now time.Time) {
	cutoff := now.Add(-s.ttl).UnixNano()

	s.mu.Lock()
	var expired []*entry
	for id, e := range s.entries {
		if e.lastAccess.Load() < cutoff {
			delete(s.entries, id)
			expired = append(expired, e)
		}
	}
	s.mu.Unlock()

	// Broadcast after the map lock is released.
	for _, e := range expired {
		e.mu.RLock()
		event := types.NewLibraryEvent(e.lib, types.EventEvicted, "idle past ttl")
		e.mu.RUnlock()
		s.hub.BroadcastEvent(event)
		log.Printf("Evicted idle library %s", event.LibraryID)
	}
}
