package workspace

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"eventdesk/internal/composer"
	"eventdesk/internal/draft"
	"eventdesk/internal/schema"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestStore() (*Store, *clock) {
	c := &clock{t: time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStore()
	s.now = c.now
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("d%d", n)
	}
	return s, c
}

func TestOwnerIsolation(t *testing.T) {
	s, _ := newTestStore()
	v := s.Create("alice", draft.EventDraft{Title: "Mine"})

	if _, err := s.Get("bob", v.ID); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound for other owner, got %v", err)
	}
	if err := s.Discard("bob", v.ID); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound for other owner, got %v", err)
	}
	got, err := s.Get("alice", v.ID)
	if err != nil || got.Event.Title != "Mine" {
		t.Fatalf("expected own draft, got %+v (%v)", got, err)
	}
}

func TestApplyComposesModules(t *testing.T) {
	s, c := newTestStore()
	v := s.Create("alice", draft.EventDraft{})
	c.t = c.t.Add(time.Minute)

	_, added, err := s.Apply("alice", v.ID, func(cm *composer.Composer) bool {
		return cm.AddPredefinedModule(schema.ModuleHospitality)
	})
	if err != nil || !added {
		t.Fatalf("expected module to be added, got %v (%v)", added, err)
	}
	view, added, err := s.Apply("alice", v.ID, func(cm *composer.Composer) bool {
		return cm.AddPredefinedModule(schema.ModuleHospitality)
	})
	if err != nil || added {
		t.Fatalf("expected second add to be a no-op, got %v (%v)", added, err)
	}
	if len(view.Event.Modules) != 1 {
		t.Fatalf("expected 1 module, got %d", len(view.Event.Modules))
	}
	if !view.UpdatedAt.Equal(c.t) {
		t.Fatalf("expected updated at %v, got %v", c.t, view.UpdatedAt)
	}
}

func TestSetEventKeepsModules(t *testing.T) {
	s, _ := newTestStore()
	v := s.Create("alice", draft.EventDraft{})
	if _, _, err := s.Apply("alice", v.ID, func(cm *composer.Composer) bool {
		cm.AddCustomModule()
		return true
	}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if _, err := s.SetEvent("alice", v.ID, draft.EventDraft{Title: "Renamed"}); err != nil {
		t.Fatalf("set event: %v", err)
	}
	view, err := s.Get("alice", v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	snap := view.Event
	if snap.Title != "Renamed" || len(snap.Modules) != 1 || snap.Modules[0].Name != composer.CustomModuleName {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestCreateSeedsModules(t *testing.T) {
	s, _ := newTestStore()
	seed := draft.EventDraft{Modules: []schema.Module{{Type: schema.ModuleCustom, Name: "Meals"}}}
	v := s.Create("alice", seed)
	if len(v.Event.Modules) != 1 || v.Event.Modules[0].ID == "" {
		t.Fatalf("expected seeded module with id, got %+v", v.Event.Modules)
	}
}

func TestEvictIdle(t *testing.T) {
	s, c := newTestStore()
	old := s.Create("alice", draft.EventDraft{})
	c.t = c.t.Add(90 * time.Minute)
	fresh := s.Create("alice", draft.EventDraft{})
	c.t = c.t.Add(30 * time.Minute)

	if n := s.EvictIdle(time.Hour); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if _, err := s.Get("alice", old.ID); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("expected old draft evicted, got %v", err)
	}
	if _, err := s.Get("alice", fresh.ID); err != nil {
		t.Fatalf("expected fresh draft kept, got %v", err)
	}
}

func TestJanitorSweeps(t *testing.T) {
	s := NewStore()
	s.Create("alice", draft.EventDraft{})
	log := zerolog.Nop()
	j := NewJanitor(s, -time.Second, 5*time.Millisecond, &log)
	j.Start()
	defer j.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for s.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected janitor to evict the draft")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestJanitorStopWithoutStart(t *testing.T) {
	log := zerolog.Nop()
	j := NewJanitor(NewStore(), time.Minute, time.Minute, &log)

	done := make(chan struct{})
	go func() {
		j.Stop()
		j.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected Stop to return when the janitor never started")
	}
}

func TestTakeClaimsDraftOnce(t *testing.T) {
	s, _ := newTestStore()
	v := s.Create("alice", draft.EventDraft{Title: "Gala"})
	s.Apply("alice", v.ID, func(c *composer.Composer) bool {
		c.AddCustomModule()
		return true
	})

	if _, _, err := s.Take("bob", v.ID); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("expected other owner to be refused, got %v", err)
	}
	d, restore, err := s.Take("alice", v.ID)
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if d.Title != "Gala" || len(d.Modules) != 1 {
		t.Fatalf("unexpected draft %+v", d)
	}
	if _, _, err := s.Take("alice", v.ID); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("expected second take to fail, got %v", err)
	}

	restore()
	got, err := s.Get("alice", v.ID)
	if err != nil {
		t.Fatalf("expected draft back after restore, got %v", err)
	}
	if len(got.Event.Modules) != 1 || got.Event.Modules[0].ID != d.Modules[0].ID {
		t.Fatalf("expected modules to survive restore, got %+v", got.Event.Modules)
	}
}
