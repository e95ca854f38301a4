package dto

import (
	"net/http"

	"github.com/wb-go/wbf/ginext"

	"eventdesk/internal/draft"
)

const (
	FieldBadFormat     = "FIELD_BADFORMAT"
	FieldIncorrect     = "FIELD_INCORRECT"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "Service is currently unavailable. Please try again later."

	Unauthorized          = "UNAUTHORIZED"
	RateLimited           = "RATE_LIMITED"
	DraftNotFound         = "DRAFT_NOT_FOUND"
	ModuleNotFound        = "MODULE_NOT_FOUND"
	FieldNotFound         = "FIELD_NOT_FOUND"
	EventNotFound         = "EVENT_NOT_FOUND"
	EventNotPublished     = "EVENT_NOT_PUBLISHED"
	EventFull             = "EVENT_FULL"
	TicketTypeNotFound    = "TICKET_TYPE_NOT_FOUND"
	QuantityExceeded      = "QUANTITY_EXCEEDED"
	RegistrationNotFound  = "REGISTRATION_NOT_FOUND"
	RegistrationDuplicate = "REGISTRATION_DUPLICATE"
	PersistFailed         = "PERSIST_FAILED"
)

type Response struct {
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Error struct {
	Code   string       `json:"code"`
	Desc   string       `json:"desc"`
	Issues draft.Issues `json:"issues,omitempty"`
	Step   string       `json:"step,omitempty"`
}

func ErrorResponse(c *ginext.Context, status int, code, desc string) {
	c.AbortWithStatusJSON(status, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func BadResponseError(c *ginext.Context, code, desc string) {
	ErrorResponse(c, http.StatusBadRequest, code, desc)
}

func InternalServerError(c *ginext.Context) {
	ErrorResponse(c, http.StatusInternalServerError, ServiceUnavailable, InternalError)
}

// PersistError reports which write step failed. The event is never left
// half written, so the client can resubmit.
func PersistError(c *ginext.Context, step string) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
		Status: "error",
		Error: &Error{
			Code: PersistFailed,
			Desc: "Event could not be saved. Please try again.",
			Step: step,
		},
	})
}

func FieldBadFormatError(c *ginext.Context, fieldName string) {
	BadResponseError(c, FieldBadFormat, "Field '"+fieldName+"' has bad format")
}

func FieldIncorrectError(c *ginext.Context, fieldName string) {
	BadResponseError(c, FieldIncorrect, "Field '"+fieldName+"' is incorrect")
}

func InvalidDraftError(c *ginext.Context, issues draft.Issues) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Response{
		Status: "error",
		Error: &Error{
			Code:   FieldIncorrect,
			Desc:   "Event draft has invalid fields",
			Issues: issues,
		},
	})
}

func UnauthorizedError(c *ginext.Context) {
	ErrorResponse(c, http.StatusUnauthorized, Unauthorized, "Authentication required")
}

func RateLimitedError(c *ginext.Context) {
	ErrorResponse(c, http.StatusTooManyRequests, RateLimited, "Too many requests. Please slow down.")
}

func DraftNotFoundError(c *ginext.Context) {
	ErrorResponse(c, http.StatusNotFound, DraftNotFound, "Draft not found")
}

func ModuleNotFoundError(c *ginext.Context) {
	ErrorResponse(c, http.StatusNotFound, ModuleNotFound, "Module not found")
}

func FieldNotFoundError(c *ginext.Context) {
	ErrorResponse(c, http.StatusNotFound, FieldNotFound, "Field not found")
}

func EventNotFoundError(c *ginext.Context) {
	ErrorResponse(c, http.StatusNotFound, EventNotFound, "Event not found")
}

func RegistrationNotFoundError(c *ginext.Context) {
	ErrorResponse(c, http.StatusNotFound, RegistrationNotFound, "Registration not found")
}

func RegistrationDuplicateError(c *ginext.Context) {
	ErrorResponse(c, http.StatusConflict, RegistrationDuplicate, "You have already registered for this event")
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Status: "ok",
		Data:   data,
	})
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(http.StatusCreated, Response{
		Status: "ok",
		Data:   data,
	})
}

// UserIDKey is the gin context key under which the auth middleware stores the
// caller's user id.
const UserIDKey = "user_id"
