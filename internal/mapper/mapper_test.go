package mapper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"eventdesk/internal/draft"
	"eventdesk/internal/model"
	"eventdesk/internal/schema"
)

type fakeStore struct {
	mu     sync.Mutex
	calls  []string
	nextID int64
	fail   map[string]error

	event   *model.Event
	fields  map[int64][]model.ModuleField
	deleted []int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 100, fail: map[string]error{}, fields: map[int64][]model.ModuleField{}}
}

func (s *fakeStore) record(call string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.calls = append(s.calls, fmt.Sprintf("%s:%d", call, s.nextID))
	return s.nextID, s.fail[call]
}

func (s *fakeStore) InsertEvent(_ context.Context, e *model.Event) (int64, error) {
	s.mu.Lock()
	s.event = e
	s.mu.Unlock()
	id, err := s.record("event")
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *fakeStore) InsertFaqItems(context.Context, int64, []model.FaqItem) error {
	_, err := s.record("faq")
	return err
}

func (s *fakeStore) InsertTicketTypes(context.Context, int64, []model.TicketType) error {
	_, err := s.record("tickets")
	return err
}

func (s *fakeStore) InsertModule(context.Context, *model.EventModule) (int64, error) {
	id, err := s.record("module")
	return id, err
}

func (s *fakeStore) InsertModuleFields(_ context.Context, moduleID int64, fields []model.ModuleField) error {
	s.mu.Lock()
	s.fields[moduleID] = fields
	s.mu.Unlock()
	_, err := s.record(fmt.Sprintf("fields(%d)", moduleID))
	return err
}

func (s *fakeStore) DeleteEvent(_ context.Context, id int64) error {
	s.mu.Lock()
	s.deleted = append(s.deleted, id)
	s.mu.Unlock()
	_, err := s.record("delete")
	return err
}

func (s *fakeStore) callNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

func validated() draft.Validated {
	day := func(d int) time.Time { return time.Date(2025, 11, d, 0, 0, 0, 0, time.UTC) }
	return draft.Validated{
		Draft: draft.EventDraft{
			Title:    "City Marathon",
			Location: "Old Town",
			Images: draft.Images{
				Main: &draft.ImageRef{URL: "https://cdn.example.com/main.jpg", MimeType: "image/jpeg"},
			},
			Faq:     []draft.FaqItem{{Question: "Q1", Answer: "A1"}, {Question: "Q2", Answer: "A2"}},
			Tickets: []draft.TicketType{{Name: "General", Description: "Entry", Price: 10, QuantityPerOrder: 4, Active: true}},
			ConfirmationEmail: draft.ConfirmationEmail{
				From: "tickets@example.com", Subject: "Confirmed", HTMLBody: "<p>hi</p>",
			},
			Modules: []schema.Module{
				{Type: schema.ModuleTransportation, Name: "Transportation", Active: true, Fields: schema.DefaultFields(schema.ModuleTransportation)},
				{Type: schema.ModuleCustom, Name: "Custom Module"},
				{Type: schema.ModuleHospitality, Name: "Hospitality", Active: true, Fields: schema.DefaultFields(schema.ModuleHospitality)},
			},
		},
		StartDate:   day(1),
		EndDate:     day(3),
		PrimaryDate: day(2),
	}
}

func newTestMapper(s Store) *Mapper {
	log := zerolog.Nop()
	return NewMapper(s, &log)
}

func TestPersistWritesFieldsRightAfterTheirModule(t *testing.T) {
	store := newFakeStore()
	id, err := newTestMapper(store).Persist(context.Background(), "org-1", validated(), model.StatusPublished)
	if err != nil {
		t.Fatalf("persist: %v", err)
	}
	if id != 101 {
		t.Fatalf("expected event id 101, got %d", id)
	}

	calls := store.callNames()
	// faq and tickets run concurrently, so only their positions are fixed.
	tail := calls[3:]
	want := []string{"module:104", "fields(104):105", "module:106", "module:107", "fields(107):108"}
	if len(tail) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, tail)
	}
	for i := range want {
		if tail[i] != want[i] {
			t.Fatalf("expected calls %v, got %v", want, tail)
		}
	}
	if len(store.deleted) != 0 {
		t.Fatalf("expected no deletes, got %v", store.deleted)
	}
}

func TestPersistMapsEventRow(t *testing.T) {
	store := newFakeStore()
	if _, err := newTestMapper(store).Persist(context.Background(), "org-7", validated(), model.StatusDraft); err != nil {
		t.Fatalf("persist: %v", err)
	}
	e := store.event
	if e.OrganizerID != "org-7" || e.Status != model.StatusDraft {
		t.Fatalf("unexpected owner/status %q %q", e.OrganizerID, e.Status)
	}
	if e.PrimaryEventDate.String() != "2025-11-02" {
		t.Fatalf("expected primary date 2025-11-02, got %s", e.PrimaryEventDate)
	}
	if e.MainImageURL != "https://cdn.example.com/main.jpg" {
		t.Fatalf("unexpected main image %q", e.MainImageURL)
	}
	if e.Hashtags.V == nil {
		t.Fatal("expected empty hashtag list, got nil")
	}
}

func TestFieldRowsKeepOptionsOnlyForSelect(t *testing.T) {
	rows := FieldRows(9, schema.DefaultFields(schema.ModuleTransportation))
	for i, r := range rows {
		if r.SortOrder != i || r.ModuleID != 9 {
			t.Fatalf("row %d: unexpected position %d / module %d", i, r.SortOrder, r.ModuleID)
		}
		if r.Type == string(schema.FieldSelect) && len(r.Options.V) == 0 {
			t.Fatalf("row %d: select without options", i)
		}
		if r.Type != string(schema.FieldSelect) && r.Options.V != nil {
			t.Fatalf("row %d: %s field carries options %v", i, r.Type, r.Options.V)
		}
	}
}

func TestPersistEventFailureDoesNotCompensate(t *testing.T) {
	store := newFakeStore()
	store.fail["event"] = errors.New("boom")

	_, err := newTestMapper(store).Persist(context.Background(), "org-1", validated(), model.StatusDraft)
	var se *StepError
	if !errors.As(err, &se) {
		t.Fatalf("expected StepError, got %v", err)
	}
	if se.Step != StepEvent || se.EventID != 0 || se.Compensated {
		t.Fatalf("unexpected step error %+v", se)
	}
	if len(store.deleted) != 0 {
		t.Fatalf("expected no delete, got %v", store.deleted)
	}
}

func TestPersistCompensatesLaterFailures(t *testing.T) {
	for _, step := range []string{"faq", "tickets", "module", "fields(104)"} {
		t.Run(step, func(t *testing.T) {
			cause := errors.New("insert failed")
			store := newFakeStore()
			store.fail[step] = cause

			_, err := newTestMapper(store).Persist(context.Background(), "org-1", validated(), model.StatusPublished)
			var se *StepError
			if !errors.As(err, &se) {
				t.Fatalf("expected StepError, got %v", err)
			}
			if !errors.Is(err, cause) {
				t.Fatalf("expected cause to be wrapped, got %v", err)
			}
			if se.EventID != 101 || !se.Compensated {
				t.Fatalf("expected compensated event 101, got %+v", se)
			}
			if len(store.deleted) != 1 || store.deleted[0] != 101 {
				t.Fatalf("expected event 101 deleted once, got %v", store.deleted)
			}
		})
	}
}

func TestPersistReportsFailedCompensation(t *testing.T) {
	store := newFakeStore()
	store.fail["tickets"] = errors.New("insert failed")
	store.fail["delete"] = errors.New("connection lost")

	_, err := newTestMapper(store).Persist(context.Background(), "org-1", validated(), model.StatusPublished)
	var se *StepError
	if !errors.As(err, &se) {
		t.Fatalf("expected StepError, got %v", err)
	}
	if se.Step != StepTickets || se.Compensated || se.CompensationErr == nil {
		t.Fatalf("unexpected step error %+v", se)
	}
}

func TestPersistRejectsUnknownStatus(t *testing.T) {
	store := newFakeStore()
	_, err := newTestMapper(store).Persist(context.Background(), "org-1", validated(), "archived")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if len(store.callNames()) != 0 {
		t.Fatalf("expected no store calls, got %v", store.callNames())
	}
}
