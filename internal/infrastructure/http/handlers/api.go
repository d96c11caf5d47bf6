// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/infrastructure/monitoring"
	"github.com/nutriplan/backend/internal/ports/inbound"
	"github.com/nutriplan/backend/pkg/errors"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

const dateLayout = "2006-01-02"

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// base carries what every handler group needs
type base struct {
	validate *validator.Validate
	logger   *zap.Logger
}

func newBase(logger *zap.Logger, name string) base {
	return base{validate: NewValidator(), logger: logger.Named(name)}
}

// NewValidator returns a validator that reports fields by their JSON names
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// writeJSON writes a JSON response
func (b base) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		b.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

func (b base) ok(w http.ResponseWriter, data interface{}, message string) {
	b.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: data, Message: message})
}

func (b base) created(w http.ResponseWriter, data interface{}, message string) {
	b.writeJSON(w, http.StatusCreated, APIResponse{Success: true, Data: data, Message: message})
}

// writeError maps err onto its AppError status. Anything that is not an
// AppError becomes a 500 without leaking its text.
func (b base) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.Wrap(err, "An unexpected error occurred")
	status := appErr.StatusCode()

	if status >= http.StatusInternalServerError {
		monitoring.WithContext(r.Context(), b.logger).Error("Request failed",
			zap.String("code", string(appErr.Code)),
			zap.Error(err),
		)
	}

	b.writeJSON(w, status, errors.ToErrorResponse(appErr, monitoring.RequestIDFromContext(r.Context())))
}

// decode reads a JSON body into dst and validates it
func (b base) decode(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if stderrors.Is(err, io.EOF) {
			return errors.NewBadRequestError("Request body is required")
		}
		return errors.NewBadRequestError(fmt.Sprintf("Invalid JSON body: %v", err))
	}

	return b.check(dst)
}

// check runs struct validation and converts failures to an invalid input error
func (b base) check(dst interface{}) error {
	err := b.validate.Struct(dst)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewBadRequestError(err.Error())
	}

	details := make([]errors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, errors.ValidationError{
			Field:   fe.Field(),
			Value:   fe.Value(),
			Tag:     fe.Tag(),
			Message: validationMessage(fe),
		})
	}
	return errors.NewValidationErrors(details)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte", "lt":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// currentUser returns the authenticated caller
func currentUser(r *http.Request) (uuid.UUID, error) {
	userID, ok := monitoring.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, errors.NewUnauthorizedError("")
	}
	return userID, nil
}

// uuidParam parses a UUID route parameter
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, errors.NewInvalidInputError(name, "must be a UUID")
	}
	return id, nil
}

// intParam parses an integer route parameter
func intParam(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, errors.NewInvalidInputError(name, "must be an integer")
	}
	return n, nil
}

// dateParam parses a YYYY-MM-DD route parameter
func dateParam(r *http.Request, name string) (time.Time, error) {
	return parseDate(name, chi.URLParam(r, name))
}

// dateQuery parses a required YYYY-MM-DD query parameter
func dateQuery(r *http.Request, name string) (time.Time, error) {
	return parseDate(name, r.URL.Query().Get(name))
}

func parseDate(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.NewInvalidInputError(name, "is required")
	}
	day, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, errors.NewInvalidInputError(name, "must be a date in YYYY-MM-DD format")
	}
	return day, nil
}

// pagination reads page and page_size query parameters; bad values fall
// back to the defaults applied by PaginationParams.Normalize
func pagination(r *http.Request) inbound.PaginationParams {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	return inbound.PaginationParams{Page: page, PageSize: size}
}
