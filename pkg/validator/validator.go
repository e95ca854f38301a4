package validator

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator"
)

const DateLayout = "2006-01-02"

var global *validator.Validate

var (
	dateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	htmlRegex  = regexp.MustCompile(`<[^>]*>`)
	emojiRegex = regexp.MustCompile(`[\x{1F600}-\x{1F64F}]|[\x{1F300}-\x{1F5FF}]|[\x{1F680}-\x{1F6FF}]|[\x{1F1E0}-\x{1F1FF}]|[\x{2600}-\x{26FF}]|[\x{2700}-\x{27BF}]`)
	imageMimes = map[string]bool{"image/jpeg": true, "image/png": true}
)

const (
	ErrInvalidFormat      = "Invalid format"
	ErrFieldRequired      = "Field is required"
	ErrFieldExceedsMaxLen = "Field exceeds maximum length"
	ErrFieldBelowMinLen   = "Field is below minimum length"
	ErrFieldExceedsMaxVal = "Field exceeds maximum value"
	ErrFieldBelowMinVal   = "Field is below minimum value"
	ErrUnknownValidation  = "Unknown validation error"
)

func init() {
	SetValidator(New())
}

func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("isodate", validateISODate)
	_ = v.RegisterValidation("plaintext", validatePlainText)
	_ = v.RegisterValidation("imagemime", validateImageMime)
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

func validateISODate(fl validator.FieldLevel) bool {
	return IsDate(fl.Field().String())
}

func validatePlainText(fl validator.FieldLevel) bool {
	return IsPlainText(fl.Field().String())
}

func validateImageMime(fl validator.FieldLevel) bool {
	return imageMimes[fl.Field().String()]
}

// IsDate reports whether s is a YYYY-MM-DD calendar date.
func IsDate(s string) bool {
	_, ok := ParseDate(s)
	return ok
}

func ParseDate(s string) (time.Time, bool) {
	if !dateRegex.MatchString(s) {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsPlainText rejects emoji, anything that looks like an HTML tag and every
// non-ASCII character.
func IsPlainText(s string) bool {
	if emojiRegex.MatchString(s) || htmlRegex.MatchString(s) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return false
		}
	}
	return true
}

func IsImageMime(s string) bool {
	return imageMimes[s]
}

func IsEmail(s string) bool {
	return Var(strings.TrimSpace(s), "required,email") == nil
}

func IsURL(s string) bool {
	return Var(s, "required,url") == nil
}

// Var checks a single value against a tag list.
func Var(value any, tag string) error {
	return Validator().Var(value, tag)
}

func Validate(ctx context.Context, structure any) error {
	return parseValidationErrors(Validator().StructCtx(ctx, structure))
}

func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	vErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(vErrors) == 0 {
		return nil
	}
	ve := vErrors[0]
	var msg string
	switch ve.Tag() {
	case "isodate":
		msg = "Invalid date format (YYYY-MM-DD)"
	case "plaintext":
		msg = "Text must be plain text only (no emojis, HTML tags, or special characters)"
	case "imagemime":
		msg = "Only JPEG and PNG images are allowed"
	case "email", "url":
		msg = ErrInvalidFormat
	case "required":
		msg = ErrFieldRequired
	case "max":
		msg = ErrFieldExceedsMaxLen
	case "min":
		msg = ErrFieldBelowMinLen
	case "lt", "lte":
		msg = ErrFieldExceedsMaxVal
	case "gt", "gte":
		msg = ErrFieldBelowMinVal
	default:
		msg = ErrUnknownValidation
	}
	return errors.New(msg + ": " + ve.Namespace())
}
