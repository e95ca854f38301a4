package service

import (
	"errors"

	"github.com/wb-go/wbf/ginext"

	"eventdesk/internal/draft"
	"eventdesk/internal/dto"
	"eventdesk/internal/mapper"
	"eventdesk/internal/model"
	"eventdesk/internal/repo"
)

// CreateEvent stores a complete draft sent in one request.
func (s *service) CreateEvent(ctx *ginext.Context) {
	owner, ok := requireUser(ctx)
	if !ok {
		return
	}
	status, ok := statusParam(ctx)
	if !ok {
		return
	}
	var d draft.EventDraft
	if err := ctx.ShouldBindJSON(&d); err != nil {
		s.log.Debug().Err(err).Msg("failed to parse create event request")
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	eventID, ok := s.persist(ctx, owner, d, status)
	if !ok {
		return
	}
	dto.SuccessCreatedResponse(ctx, dto.CreateEventResponse{EventID: eventID, Status: status})
}

// persist validates d and writes it. On failure the response is already
// written and ok is false.
func (s *service) persist(ctx *ginext.Context, owner string, d draft.EventDraft, status model.EventStatus) (int64, bool) {
	v, err := draft.Validate(d)
	if err != nil {
		var issues draft.Issues
		if errors.As(err, &issues) {
			dto.InvalidDraftError(ctx, issues)
			return 0, false
		}
		s.log.Error().Err(err).Msg("unexpected validation error")
		dto.InternalServerError(ctx)
		return 0, false
	}

	eventID, err := s.mapper.Persist(ctx.Request.Context(), owner, v, status)
	if err != nil {
		var se *mapper.StepError
		if errors.As(err, &se) {
			s.log.Error().
				Err(se.Err).
				Str("step", se.Step).
				Bool("compensated", se.Compensated).
				Msg("failed to persist event")
			dto.PersistError(ctx, se.Step)
			return 0, false
		}
		s.log.Error().Err(err).Msg("failed to persist event")
		dto.InternalServerError(ctx)
		return 0, false
	}
	return eventID, true
}

// ListEvents returns published events that have not ended yet.
func (s *service) ListEvents(ctx *ginext.Context) {
	events, err := s.repo.ListPublishedEvents(ctx.Request.Context(), model.NewDate(s.now()))
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list events")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, events)
}

// GetEvent shows a published event with its modules, tickets and FAQ.
// Unpublished events are only visible to their organizer.
func (s *service) GetEvent(ctx *ginext.Context) {
	eventID, ok := paramInt64(ctx, "id")
	if !ok {
		return
	}
	rctx := ctx.Request.Context()

	event, err := s.repo.GetEventByID(rctx, eventID)
	if err != nil {
		s.eventError(ctx, err)
		return
	}
	if event.Status != model.StatusPublished && event.OrganizerID != userID(ctx) {
		dto.EventNotFoundError(ctx)
		return
	}

	resp := dto.EventDetailResponse{Event: *event}
	if resp.Modules, err = s.repo.GetModulesByEventID(rctx, eventID); err != nil {
		s.eventError(ctx, err)
		return
	}
	if resp.Tickets, err = s.repo.GetTicketTypes(rctx, eventID); err != nil {
		s.eventError(ctx, err)
		return
	}
	if resp.Faq, err = s.repo.GetFaqItems(rctx, eventID); err != nil {
		s.eventError(ctx, err)
		return
	}
	if resp.Taken, err = s.repo.CountRegistrations(rctx, eventID); err != nil {
		s.eventError(ctx, err)
		return
	}
	if event.Capacity != nil {
		left := max(*event.Capacity-resp.Taken, 0)
		resp.SeatsLeft = &left
	}
	dto.SuccessResponse(ctx, resp)
}

func (s *service) ListOrganizerEvents(ctx *ginext.Context) {
	owner, ok := requireUser(ctx)
	if !ok {
		return
	}
	events, err := s.repo.ListEventsByOrganizer(ctx.Request.Context(), owner)
	if err != nil {
		s.log.Error().Err(err).Str("organizer_id", owner).Msg("failed to list organizer events")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, events)
}

// DeleteEvent removes an event of the caller together with everything that
// belongs to it.
func (s *service) DeleteEvent(ctx *ginext.Context) {
	owner, ok := requireUser(ctx)
	if !ok {
		return
	}
	eventID, ok := paramInt64(ctx, "id")
	if !ok {
		return
	}
	if err := s.repo.DeleteOwnedEvent(ctx.Request.Context(), eventID, owner); err != nil {
		s.eventError(ctx, err)
		return
	}
	dto.SuccessResponse(ctx, nil)
}

func (s *service) eventError(ctx *ginext.Context, err error) {
	if errors.Is(err, repo.ErrEventNotFound) {
		dto.EventNotFoundError(ctx)
		return
	}
	s.log.Error().Err(err).Msg("event operation failed")
	dto.InternalServerError(ctx)
}
