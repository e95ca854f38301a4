// Package workspace keeps organizers' unsaved drafts in memory between
// requests. Each draft pairs the event fields with a module composer.
package workspace

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventdesk/internal/composer"
	"eventdesk/internal/draft"
)

var ErrDraftNotFound = errors.New("draft not found")

// View is a copy of a draft. Event.Modules holds the composed modules.
type View struct {
	ID        string           `json:"id"`
	Event     draft.EventDraft `json:"event"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type entry struct {
	owner     string
	event     draft.EventDraft
	composer  *composer.Composer
	updatedAt time.Time
}

func (e *entry) view(id string) View {
	ev := e.event
	ev.Modules = e.composer.Modules()
	return View{ID: id, Event: ev, UpdatedAt: e.updatedAt}
}

type Store struct {
	mu     sync.Mutex
	drafts map[string]*entry
	now    func() time.Time
	newID  func() string
}

func NewStore() *Store {
	return &Store{
		drafts: make(map[string]*entry),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Create opens a draft for owner. Modules of seed, if any, become the
// starting module list.
func (s *Store) Create(owner string, seed draft.EventDraft) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	e := &entry{
		owner:     owner,
		event:     seed,
		composer:  composer.FromModules(seed.Modules),
		updatedAt: s.now(),
	}
	e.event.Modules = nil
	s.drafts[id] = e
	return e.view(id)
}

// lookup must be called with s.mu held. Drafts of other owners are reported
// as missing.
func (s *Store) lookup(owner, id string) (*entry, error) {
	e, ok := s.drafts[id]
	if !ok || e.owner != owner {
		return nil, ErrDraftNotFound
	}
	return e, nil
}

func (s *Store) Get(owner, id string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(owner, id)
	if err != nil {
		return View{}, err
	}
	return e.view(id), nil
}

// SetEvent replaces the event fields of a draft. Modules in d are ignored;
// they are edited through Apply.
func (s *Store) SetEvent(owner, id string, d draft.EventDraft) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(owner, id)
	if err != nil {
		return View{}, err
	}
	d.Modules = nil
	e.event = d
	e.updatedAt = s.now()
	return e.view(id), nil
}

// Apply runs fn against the draft's composer and reports what fn returned.
func (s *Store) Apply(owner, id string, fn func(c *composer.Composer) bool) (View, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(owner, id)
	if err != nil {
		return View{}, false, err
	}
	changed := fn(e.composer)
	if changed {
		e.updatedAt = s.now()
	}
	return e.view(id), changed, nil
}

// Take removes the draft so no one else can submit it, and returns it with a
// function that puts it back as it was.
func (s *Store) Take(owner, id string) (draft.EventDraft, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(owner, id)
	if err != nil {
		return draft.EventDraft{}, nil, err
	}
	delete(s.drafts, id)

	restore := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.drafts[id]; !ok {
			e.updatedAt = s.now()
			s.drafts[id] = e
		}
	}
	return e.view(id).Event, restore, nil
}

func (s *Store) Discard(owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(owner, id); err != nil {
		return err
	}
	delete(s.drafts, id)
	return nil
}

// EvictIdle drops drafts not touched within ttl and returns how many went.
func (s *Store) EvictIdle(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	n := 0
	for id, e := range s.drafts {
		if e.updatedAt.Before(cutoff) {
			delete(s.drafts, id)
			n++
		}
	}
	return n
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}
