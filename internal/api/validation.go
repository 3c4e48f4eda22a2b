package api

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"sportclub/internal/models"

	"github.com/go-playground/validator/v10"
)

// Codice fiscale: 6 letters, 2 digits, letter, 2 digits, letter, 3 digits, letter.
var fiscalCodeRegex = regexp.MustCompile(`^[A-Z]{6}[0-9]{2}[A-Z][0-9]{2}[A-Z][0-9]{3}[A-Z]$`)

const minIdentityDocumentLen = 5

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// RequestValidator validates decoded request bodies.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()

	// Report JSON names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("timeofday", validateTimeOfDay)
	v.RegisterStructValidation(validateDocument, CreateReservationRequest{})

	return &RequestValidator{validate: v}
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	_, err := models.ParseTimeOfDay(fl.Field().String())
	return err == nil
}

func validateDocument(sl validator.StructLevel) {
	req, ok := sl.Current().Interface().(CreateReservationRequest)
	if !ok {
		return
	}
	number := strings.ToUpper(strings.TrimSpace(req.DocumentNumber))

	switch req.DocumentType {
	case "":
		if number != "" {
			sl.ReportError(req.DocumentType, "document_type", "DocumentType", "required_with", "document_number")
		}
	case models.DocumentFiscalCode:
		if !fiscalCodeRegex.MatchString(number) {
			sl.ReportError(req.DocumentNumber, "document_number", "DocumentNumber", "fiscal_code", "")
		}
	case models.DocumentIdentity:
		if len(number) < minIdentityDocumentLen {
			sl.ReportError(req.DocumentNumber, "document_number", "DocumentNumber", "min", fmt.Sprint(minIdentityDocumentLen))
		}
	}
}

// Struct validates v and flattens failures into ValidationErrors.
func (rv *RequestValidator) Struct(v any) error {
	if err := rv.validate.Struct(v); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, 0, len(errs))
	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "required_with":
			message = fmt.Sprintf("%s is required with %s", err.Field(), err.Param())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		case "timeofday":
			message = fmt.Sprintf("%s must be a time in HH:MM format", err.Field())
		case "fiscal_code":
			message = fmt.Sprintf("%s is not a valid codice fiscale", err.Field())
		}

		out = append(out, ValidationError{Field: err.Field(), Message: message})
	}
	return out
}
