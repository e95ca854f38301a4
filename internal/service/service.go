package service

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"eventdesk/internal/draft"
	"eventdesk/internal/dto"
	"eventdesk/internal/model"
	"eventdesk/internal/rabbit"
	"eventdesk/internal/repo"
	"eventdesk/internal/workspace"
)

type Service interface {
	ModuleTemplates(ctx *ginext.Context)
	ValidateDraft(ctx *ginext.Context)

	CreateDraft(ctx *ginext.Context)
	GetDraft(ctx *ginext.Context)
	UpdateDraft(ctx *ginext.Context)
	DeleteDraft(ctx *ginext.Context)
	AddModule(ctx *ginext.Context)
	AddCustomModule(ctx *ginext.Context)
	UpdateModule(ctx *ginext.Context)
	RemoveModule(ctx *ginext.Context)
	AddField(ctx *ginext.Context)
	UpdateField(ctx *ginext.Context)
	RemoveField(ctx *ginext.Context)
	SubmitDraft(ctx *ginext.Context)

	CreateEvent(ctx *ginext.Context)
	ListEvents(ctx *ginext.Context)
	GetEvent(ctx *ginext.Context)
	ListOrganizerEvents(ctx *ginext.Context)
	DeleteEvent(ctx *ginext.Context)

	Register(ctx *ginext.Context)
	GetMyRegistration(ctx *ginext.Context)
	ListRegistrations(ctx *ginext.Context)
}

// Persister writes a validated draft as a new event.
type Persister interface {
	Persist(ctx context.Context, organizerID string, v draft.Validated, status model.EventStatus) (int64, error)
}

type service struct {
	repo   repo.Repository
	mapper Persister
	drafts *workspace.Store
	rbt    rabbit.Publisher
	log    *zerolog.Logger
	now    func() time.Time
}

func NewService(repo repo.Repository, mapper Persister, drafts *workspace.Store, rbt rabbit.Publisher, logger *zerolog.Logger) Service {
	return &service{
		repo:   repo,
		mapper: mapper,
		drafts: drafts,
		rbt:    rbt,
		log:    logger,
		now:    time.Now,
	}
}

// userID returns the authenticated caller. Routes behind the auth middleware
// always have one; it is empty otherwise.
func userID(ctx *ginext.Context) string {
	return ctx.GetString(dto.UserIDKey)
}

func requireUser(ctx *ginext.Context) (string, bool) {
	id := userID(ctx)
	if id == "" {
		dto.UnauthorizedError(ctx)
		return "", false
	}
	return id, true
}

func paramInt64(ctx *ginext.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || v <= 0 {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid "+name)
		return 0, false
	}
	return v, true
}

func statusParam(ctx *ginext.Context) (model.EventStatus, bool) {
	raw := ctx.DefaultQuery("status", string(model.StatusDraft))
	st, ok := model.ParseEventStatus(raw)
	if !ok {
		dto.FieldIncorrectError(ctx, "status")
		return "", false
	}
	return st, true
}
