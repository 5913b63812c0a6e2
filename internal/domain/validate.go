package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ValidationError describes one invalid input field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult accumulates every violated field. Validators never
// short-circuit: each field check runs independently so callers can
// surface all problems at once.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

func (r *ValidationResult) add(field, message string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

func result(errs []ValidationError) ValidationResult {
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidDate reports whether s matches YYYY-MM-DD and resolves to a real
// UTC calendar date (month 13 or day 45 are rejected by time.Parse).
func ValidDate(s string) bool {
	if !isoDatePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ValidateCreateEvent checks the shape of a create input. It performs no
// I/O and never mutates the input.
func ValidateCreateEvent(input CreateMedicalEventInput) ValidationResult {
	var r ValidationResult

	if strings.TrimSpace(input.Date) == "" {
		r.add("date", "date is required")
	} else if !ValidDate(input.Date) {
		r.add("date", "date must be a valid YYYY-MM-DD calendar date")
	}

	if strings.TrimSpace(string(input.Type)) == "" {
		r.add("type", "event type is required")
	} else if !input.Type.Valid() {
		r.add("type", fmt.Sprintf("invalid event type; must be one of: %s", EventTypeNames()))
	}

	if strings.TrimSpace(input.Description) == "" {
		r.add("description", "description is required")
	}

	if strings.TrimSpace(input.PatientID) == "" {
		r.add("patientId", "patient is required")
	}

	return result(r.Errors)
}

// ValidateUpdateEvent checks a patch with the same per-field rules as
// create, but a nil field is simply omitted. A present-but-blank value is
// still an error, distinguishing "omitted" from "blanked out".
func ValidateUpdateEvent(patch MedicalEventPatch) ValidationResult {
	var r ValidationResult

	if patch.Date != nil {
		if strings.TrimSpace(*patch.Date) == "" {
			r.add("date", "date cannot be blank")
		} else if !ValidDate(*patch.Date) {
			r.add("date", "date must be a valid YYYY-MM-DD calendar date")
		}
	}

	if patch.Type != nil {
		if strings.TrimSpace(string(*patch.Type)) == "" {
			r.add("type", "event type cannot be blank")
		} else if !patch.Type.Valid() {
			r.add("type", fmt.Sprintf("invalid event type; must be one of: %s", EventTypeNames()))
		}
	}

	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		r.add("description", "description cannot be blank")
	}

	if patch.PatientID != nil && strings.TrimSpace(*patch.PatientID) == "" {
		r.add("patientId", "patient cannot be blank")
	}

	return result(r.Errors)
}

// ValidateLinkPhoto checks the shape of a photo link input
func ValidateLinkPhoto(input LinkPhotoInput) ValidationResult {
	var r ValidationResult

	if strings.TrimSpace(input.EventID) == "" {
		r.add("eventId", "event id is required")
	}
	if strings.TrimSpace(input.PhotoURL) == "" {
		r.add("photoUrl", "photo URL is required")
	}
	if strings.TrimSpace(input.PhotoExternalID) == "" {
		r.add("photoExternalId", "photo external id is required")
	}

	return result(r.Errors)
}

// ValidateCreateRecording checks the shape of a recording link input
func ValidateCreateRecording(input CreateRecordingInput) ValidationResult {
	var r ValidationResult

	if strings.TrimSpace(input.EventID) == "" {
		r.add("eventId", "event id is required")
	}
	if strings.TrimSpace(input.RecordingURL) == "" {
		r.add("recordingUrl", "recording URL is required")
	}
	if strings.TrimSpace(input.FileName) == "" {
		r.add("fileName", "file name is required")
	}

	return result(r.Errors)
}
