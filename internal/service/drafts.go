package service

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/wb-go/wbf/ginext"

	"eventdesk/internal/composer"
	"eventdesk/internal/draft"
	"eventdesk/internal/dto"
	"eventdesk/internal/schema"
	"eventdesk/internal/workspace"
	"eventdesk/pkg/validator"
)

func (s *service) ModuleTemplates(ctx *ginext.Context) {
	defs := schema.Predefined()
	resp := make([]dto.ModuleTemplate, 0, len(defs))
	for _, d := range defs {
		resp = append(resp, dto.ModuleTemplate{Definition: d, Fields: schema.DefaultFields(d.Type)})
	}
	dto.SuccessResponse(ctx, resp)
}

// ValidateDraft checks a full draft without storing anything.
func (s *service) ValidateDraft(ctx *ginext.Context) {
	var d draft.EventDraft
	if err := ctx.ShouldBindJSON(&d); err != nil {
		s.log.Debug().Err(err).Msg("failed to parse draft")
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	_, err := draft.Validate(d)
	var issues draft.Issues
	if err != nil && !errors.As(err, &issues) {
		s.log.Error().Err(err).Msg("unexpected validation error")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, dto.ValidateResponse{Valid: err == nil, Issues: issues})
}

func (s *service) CreateDraft(ctx *ginext.Context) {
	owner, ok := requireUser(ctx)
	if !ok {
		return
	}

	var seed draft.EventDraft
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&seed); err != nil {
			dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
			return
		}
	}

	view := s.drafts.Create(owner, seed)
	s.log.Info().Str("draft_id", view.ID).Str("organizer_id", owner).Msg("draft created")
	dto.SuccessCreatedResponse(ctx, view)
}

func (s *service) GetDraft(ctx *ginext.Context) {
	owner, ok := requireUser(ctx)
	if !ok {
		return
	}
	view, err := s.drafts.Get(owner, ctx.Param("id"))
	if err != nil {
		s.draftError(ctx, err)
		return
	}
	dto.SuccessResponse(ctx, view)
}

// UpdateDraft replaces the event fields of a draft. Its modules are edited
// through the module routes only.
func (s *service) UpdateDraft(ctx *ginext.Context) {
	owner, ok := requireUser(ctx)
	if !ok {
		return
	}
	var d draft.EventDraft
	if err := ctx.ShouldBindJSON(&d); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}
	view, err := s.drafts.SetEvent(owner, ctx.Param("id"), d)
	if err != nil {
		s.draftError(ctx, err)
		return
	}
	dto.SuccessResponse(ctx, view)
}

func (s *service) DeleteDraft(ctx *ginext.Context) {
	owner, ok := requireUser(ctx)
	if !ok {
		return
	}
	if err := s.drafts.Discard(owner, ctx.Param("id")); err != nil {
		s.draftError(ctx, err)
		return
	}
	dto.SuccessResponse(ctx, nil)
}

func (s *service) AddModule(ctx *ginext.Context) {
	owner, ok := requireUser(ctx)
	if !ok {
		return
	}
	var req dto.AddModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, verr.Error())
		return
	}

	view, added, err := s.drafts.Apply(owner, ctx.Param("id"), func(c *composer.Composer) bool {
		return c.AddPredefinedModule(schema.ModuleType(req.ModuleType))
	})
	if err != nil {
		s.draftError(ctx, err)
		return
	}
	dto.SuccessResponse(ctx, dto.AddModuleResponse{Added: added, Draft: view})
}

func (s *service) AddCustomModule(ctx *ginext.Context) {
	owner, ok := requireUser(ctx)
	if !ok {
		return
	}
	var moduleID string
	view, _, err := s.drafts.Apply(owner, ctx.Param("id"), func(c *composer.Composer) bool {
		moduleID = c.AddCustomModule()
		return true
	})
	if err != nil {
		s.draftError(ctx, err)
		return
	}
	dto.SuccessCreatedResponse(ctx, dto.AddCustomModuleResponse{ModuleID: moduleID, Draft: view})
}

func (s *service) UpdateModule(ctx *ginext.Context) {
	owner, ok := requireUser(ctx)
	if !ok {
		return
	}
	var patch composer.ModulePatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}
	s.applyModuleEdit(ctx, owner, func(c *composer.Composer) bool {
		return c.UpdateModule(ctx.Param("mid"), patch)
	}, dto.ModuleNotFoundError)
}

func (s *service) RemoveModule(ctx *ginext.Context) {
	owner, ok := requireUser(ctx)
	if !ok {
		return
	}
	s.applyModuleEdit(ctx, owner, func(c *composer.Composer) bool {
		return c.RemoveModule(ctx.Param("mid"))
	}, dto.ModuleNotFoundError)
}

func (s *service) AddField(ctx *ginext.Context) {
	owner, ok := requireUser(ctx)
	if !ok {
		return
	}
	s.applyModuleEdit(ctx, owner, func(c *composer.Composer) bool {
		return c.AddField(ctx.Param("mid"))
	}, dto.ModuleNotFoundError)
}

func (s *service) UpdateField(ctx *ginext.Context) {
	owner, ok := requireUser(ctx)
	if !ok {
		return
	}
	idx, ok := fieldIndex(ctx)
	if !ok {
		return
	}
	var patch composer.FieldPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}
	if err := patch.Validate(); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, err.Error())
		return
	}
	s.applyModuleEdit(ctx, owner, func(c *composer.Composer) bool {
		return c.UpdateField(ctx.Param("mid"), idx, patch)
	}, dto.FieldNotFoundError)
}

func (s *service) RemoveField(ctx *ginext.Context) {
	owner, ok := requireUser(ctx)
	if !ok {
		return
	}
	idx, ok := fieldIndex(ctx)
	if !ok {
		return
	}
	s.applyModuleEdit(ctx, owner, func(c *composer.Composer) bool {
		return c.RemoveField(ctx.Param("mid"), idx)
	}, dto.FieldNotFoundError)
}

// SubmitDraft validates the draft, stores it as an event and closes the
// draft. The draft is claimed for the duration of the write, so it becomes an
// event at most once. A draft that fails validation or storage stays open.
func (s *service) SubmitDraft(ctx *ginext.Context) {
	owner, ok := requireUser(ctx)
	if !ok {
		return
	}
	status, ok := statusParam(ctx)
	if !ok {
		return
	}

	id := ctx.Param("id")
	d, restore, err := s.drafts.Take(owner, id)
	if err != nil {
		s.draftError(ctx, err)
		return
	}

	eventID, ok := s.persist(ctx, owner, d, status)
	if !ok {
		restore()
		return
	}
	s.log.Info().Str("draft_id", id).Int64("event_id", eventID).Msg("draft submitted")
	dto.SuccessCreatedResponse(ctx, dto.CreateEventResponse{EventID: eventID, Status: status})
}

func (s *service) applyModuleEdit(ctx *ginext.Context, owner string, edit func(c *composer.Composer) bool, notFound func(*ginext.Context)) {
	view, changed, err := s.drafts.Apply(owner, ctx.Param("id"), edit)
	if err != nil {
		s.draftError(ctx, err)
		return
	}
	if !changed {
		notFound(ctx)
		return
	}
	dto.SuccessResponse(ctx, view)
}

func (s *service) draftError(ctx *ginext.Context, err error) {
	if errors.Is(err, workspace.ErrDraftNotFound) {
		dto.DraftNotFoundError(ctx)
		return
	}
	s.log.Error().Err(err).Msg("draft operation failed")
	dto.InternalServerError(ctx)
}

func fieldIndex(ctx *ginext.Context) (int, bool) {
	idx, err := strconv.Atoi(ctx.Param("idx"))
	if err != nil || idx < 0 {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("Invalid field index %q", ctx.Param("idx")))
		return 0, false
	}
	return idx, true
}
