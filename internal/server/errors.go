package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	campaigndomain "github.com/smallbiznis/kolekta/internal/campaign/domain"
	communicationdomain "github.com/smallbiznis/kolekta/internal/communication/domain"
	customerdomain "github.com/smallbiznis/kolekta/internal/customer/domain"
	debtdomain "github.com/smallbiznis/kolekta/internal/debt/domain"
	dispatchdomain "github.com/smallbiznis/kolekta/internal/dispatch/domain"
	templatedomain "github.com/smallbiznis/kolekta/internal/messagetemplate/domain"
)

var (
	ErrNotFound           = errors.New("not_found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTooManyRequests    = errors.New("too_many_requests")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

type apiError struct {
	status  int
	kind    string
	message string
	field   string
}

func (e *apiError) Error() string { return e.kind + ": " + e.message }

func newValidationError(field, kind, message string) error {
	return &apiError{status: http.StatusBadRequest, kind: kind, message: message, field: field}
}

func invalidRequestError() error {
	return &apiError{status: http.StatusBadRequest, kind: "invalid_request", message: "invalid request payload"}
}

// AbortWithError maps a service error onto a JSON error response. Domain
// sentinels keep their snake_case name as the error kind.
func AbortWithError(c *gin.Context, err error) {
	var api *apiError
	if errors.As(err, &api) {
		body := gin.H{"kind": api.kind, "message": api.message}
		if api.field != "" {
			body["field"] = api.field
		}
		c.AbortWithStatusJSON(api.status, gin.H{"error": body})
		return
	}

	status := statusFor(err)
	kind := err.Error()
	if status == http.StatusInternalServerError {
		kind = "internal_error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"kind": kind, "message": messageFor(err, status)}})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, debtdomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, templatedomain.ErrNotFound),
		errors.Is(err, campaigndomain.ErrNotFound),
		errors.Is(err, communicationdomain.ErrNotFound),
		errors.Is(err, templatedomain.ErrNoTemplateMatch):
		return http.StatusNotFound
	case errors.Is(err, debtdomain.ErrAlreadyTerminal):
		return http.StatusConflict
	case errors.Is(err, dispatchdomain.ErrTransportFailure):
		return http.StatusBadGateway
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case isValidationSentinel(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isValidationSentinel(err error) bool {
	for _, sentinel := range []error{
		debtdomain.ErrInvalidID,
		debtdomain.ErrInvalidCustomer,
		debtdomain.ErrInvalidAmount,
		debtdomain.ErrInvalidCurrency,
		debtdomain.ErrInvalidDueDate,
		debtdomain.ErrInvalidTier,
		customerdomain.ErrInvalidID,
		customerdomain.ErrInvalidName,
		customerdomain.ErrInvalidEmail,
		templatedomain.ErrInvalidID,
		templatedomain.ErrInvalidChannel,
		templatedomain.ErrInvalidTone,
		templatedomain.ErrInvalidMinDays,
		templatedomain.ErrInvalidBody,
		campaigndomain.ErrInvalidID,
		campaigndomain.ErrInvalidVariant,
		campaigndomain.ErrInvalidTone,
		campaigndomain.ErrInvalidField,
		campaigndomain.ErrInvalidDelta,
		communicationdomain.ErrInvalidID,
		dispatchdomain.ErrInvalidRequest,
		dispatchdomain.ErrNoRecipient,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func messageFor(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "an internal error occurred"
	}
	return strings.ReplaceAll(err.Error(), "_", " ")
}

func parseOptionalTime(value string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return nil, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		ts = ts.UTC()
		return &ts, nil
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	day = day.UTC()
	if endOfDay {
		day = day.Add(24*time.Hour - time.Nanosecond)
	}
	return &day, nil
}
