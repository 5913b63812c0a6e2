package domain

import (
	"strings"
	"time"
)

// EventType identifies the kind of medical event being recorded
type EventType string

const (
	EventTypeMedicalConsultation EventType = "Medical Consultation"
	EventTypeDentalConsultation  EventType = "Dental Consultation"
	EventTypeEmergency           EventType = "Emergency"
	EventTypeSurgery             EventType = "Surgery"
	EventTypeExam                EventType = "Exam"
	EventTypeOther               EventType = "Other"
)

// EventTypes lists every valid event type, in display order
var EventTypes = []EventType{
	EventTypeMedicalConsultation,
	EventTypeDentalConsultation,
	EventTypeEmergency,
	EventTypeSurgery,
	EventTypeExam,
	EventTypeOther,
}

// Valid reports whether t is a member of the closed event-type set
func (t EventType) Valid() bool {
	for _, known := range EventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// EventTypeNames returns the valid type names joined for error messages
func EventTypeNames() string {
	names := make([]string, len(EventTypes))
	for i, t := range EventTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// MedicalEvent is one medical occurrence for a family member.
// Date is the clinically relevant calendar date (YYYY-MM-DD), not the
// creation time; CreatedAt/UpdatedAt track the record itself.
type MedicalEvent struct {
	ID                  string    `json:"id"`
	Date                string    `json:"date"`
	Type                EventType `json:"type"`
	Description         string    `json:"description"`
	PatientID           string    `json:"patientId"`
	IsapreReimbursed    bool      `json:"isapreReimbursed"`
	InsuranceReimbursed bool      `json:"insuranceReimbursed"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Clone returns a copy of the event, safe for callers to mutate
func (e *MedicalEvent) Clone() *MedicalEvent {
	c := *e
	return &c
}

// CreateMedicalEventInput carries the fields for a new event. Omitted
// reimbursement flags default to false.
type CreateMedicalEventInput struct {
	Date                string    `json:"date"`
	Type                EventType `json:"type"`
	Description         string    `json:"description"`
	PatientID           string    `json:"patientId"`
	IsapreReimbursed    bool      `json:"isapreReimbursed"`
	InsuranceReimbursed bool      `json:"insuranceReimbursed"`
}

// MedicalEventPatch is a partial update. A nil field is omitted and the
// stored value is kept; a non-nil field replaces it, even when empty
// (validation rejects blank values before the patch reaches a store).
type MedicalEventPatch struct {
	Date                *string    `json:"date,omitempty"`
	Type                *EventType `json:"type,omitempty"`
	Description         *string    `json:"description,omitempty"`
	PatientID           *string    `json:"patientId,omitempty"`
	IsapreReimbursed    *bool      `json:"isapreReimbursed,omitempty"`
	InsuranceReimbursed *bool      `json:"insuranceReimbursed,omitempty"`
}

// Apply merges the present patch fields over the event. The field list is
// fixed so the "only present fields change" contract is explicit.
func (p *MedicalEventPatch) Apply(e *MedicalEvent) {
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.PatientID != nil {
		e.PatientID = *p.PatientID
	}
	if p.IsapreReimbursed != nil {
		e.IsapreReimbursed = *p.IsapreReimbursed
	}
	if p.InsuranceReimbursed != nil {
		e.InsuranceReimbursed = *p.InsuranceReimbursed
	}
}
