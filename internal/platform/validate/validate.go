// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate bridges ozzo-validation rules into [apperr.AppError].
//
// # Architecture
//
// Input structs declare their rules in a Validate() method using
// ozzo-validation. The service layer calls [Struct], which turns the
// resulting [validation.Errors] into a single VALIDATION_ERROR with one
// [apperr.FieldError] per failing field.
package validate

import (
	"errors"
	"net/url"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/taibuivan/inkwell/internal/platform/apperr"
)

var (
	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

	// NotBlank fails when a string (or *string) is empty after trimming whitespace.
	// A nil pointer passes; combine with [validation.Required] or [validation.NotNil].
	NotBlank = validation.By(func(value any) error {
		text, ok := stringValue(value)
		if ok && strings.TrimSpace(text) == "" {
			return validation.NewError("validation_not_blank", "must not be blank")
		}
		return nil
	})

	// HTTPURL fails unless a non-empty value is an absolute http or https URL.
	HTTPURL = validation.By(func(value any) error {
		text, ok := stringValue(value)
		if !ok || text == "" {
			return nil
		}
		invalid := validation.NewError("validation_http_url", "must be a valid http(s) URL")
		if is.URL.Validate(text) != nil {
			return invalid
		}
		parsed, err := url.Parse(text)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return invalid
		}
		return nil
	})
)

// stringValue unwraps string and *string values. ok is false for nil pointers.
func stringValue(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case *string:
		if typed == nil {
			return "", false
		}
		return *typed, true
	default:
		return "", false
	}
}

// Struct validates target and converts failures to a VALIDATION_ERROR.
func Struct(target validation.Validatable) error {
	return FromError(target.Validate())
}

// FromError converts an ozzo-validation error into an [apperr.AppError].
//
// Field errors are sorted by field name so responses are deterministic.
// Internal rule errors are reported as 500.
func FromError(err error) error {
	if err == nil {
		return nil
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return apperr.Internal(internal.InternalError())
	}

	var fieldErrors validation.Errors
	if !errors.As(err, &fieldErrors) {
		return apperr.ValidationError(err.Error())
	}

	details := make([]apperr.FieldError, 0, len(fieldErrors))
	for field, fieldErr := range fieldErrors {
		if fieldErr == nil {
			continue
		}
		details = append(details, apperr.FieldError{Field: field, Message: fieldErr.Error()})
	}
	sort.Slice(details, func(i, j int) bool { return details[i].Field < details[j].Field })

	return apperr.ValidationError("Validation failed", details...)
}

// Field builds a single-field validation error.
func Field(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
