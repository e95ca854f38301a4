package service

import (
	"errors"
	"net/http"

	"github.com/wb-go/wbf/ginext"

	"eventdesk/internal/dto"
	"eventdesk/internal/model"
	"eventdesk/internal/rabbit"
	"eventdesk/internal/repo"
	"eventdesk/pkg/validator"
)

func (s *service) Register(ctx *ginext.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	eventID, ok := paramInt64(ctx, "id")
	if !ok {
		return
	}

	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, verr.Error())
		return
	}

	reg := &model.Registration{
		EventID:      eventID,
		UserID:       user,
		Email:        req.Email,
		TicketTypeID: req.TicketTypeID,
		Quantity:     req.Quantity,
		Answers:      model.NewJSON(req.Answers),
	}
	id, err := s.repo.CreateRegistrationTx(ctx.Request.Context(), reg)
	if err != nil {
		s.registrationError(ctx, err)
		return
	}

	msg := dto.RegistrationMessage{RegistrationID: id, EventID: eventID}
	if err := rabbit.PublishJSON(s.rbt, msg, 0); err != nil {
		// The registration stands; only the email is lost.
		s.log.Error().Err(err).Int64("registration_id", id).Msg("failed to queue confirmation email")
	}

	dto.SuccessCreatedResponse(ctx, dto.NewRegistrationResponse(reg))
}

func (s *service) GetMyRegistration(ctx *ginext.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	eventID, ok := paramInt64(ctx, "id")
	if !ok {
		return
	}
	reg, err := s.repo.GetRegistrationForEvent(ctx.Request.Context(), eventID, user)
	if err != nil {
		s.registrationError(ctx, err)
		return
	}
	dto.SuccessResponse(ctx, dto.NewRegistrationResponse(reg))
}

// ListRegistrations is the participant dashboard: every registration of the
// caller, newest first.
func (s *service) ListRegistrations(ctx *ginext.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	regs, err := s.repo.ListRegistrationsByUser(ctx.Request.Context(), user)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user).Msg("failed to list registrations")
		dto.InternalServerError(ctx)
		return
	}
	resp := make([]dto.RegistrationResponse, 0, len(regs))
	for i := range regs {
		resp = append(resp, dto.NewRegistrationResponse(&regs[i]))
	}
	dto.SuccessResponse(ctx, resp)
}

func (s *service) registrationError(ctx *ginext.Context, err error) {
	switch {
	case errors.Is(err, repo.ErrEventNotFound):
		dto.EventNotFoundError(ctx)
	case errors.Is(err, repo.ErrRegistrationNotFound):
		dto.RegistrationNotFoundError(ctx)
	case errors.Is(err, repo.ErrDuplicateRegistration):
		dto.RegistrationDuplicateError(ctx)
	case errors.Is(err, repo.ErrEventFull):
		dto.ErrorResponse(ctx, http.StatusConflict, dto.EventFull, "Event is full")
	case errors.Is(err, repo.ErrEventNotPublished):
		dto.ErrorResponse(ctx, http.StatusConflict, dto.EventNotPublished, "Event is not open for registration")
	case errors.Is(err, repo.ErrTicketTypeNotFound):
		dto.BadResponseError(ctx, dto.TicketTypeNotFound, "Ticket type not available")
	case errors.Is(err, repo.ErrQuantityExceeded):
		dto.BadResponseError(ctx, dto.QuantityExceeded, "Quantity exceeds the per-order limit")
	default:
		s.log.Error().Err(err).Msg("registration failed")
		dto.InternalServerError(ctx)
	}
}
