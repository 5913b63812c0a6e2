package domain

// EventFilters narrows a list query. Every present field must match for a
// record to pass (AND-conjunction); absent fields impose no constraint.
type EventFilters struct {
	PatientID string `json:"patientId,omitempty"`
	Type      string `json:"type,omitempty"`
	// From and To bound the clinical date, inclusive. Lexicographic
	// comparison is correct because dates are zero-padded ISO form.
	From                string `json:"from,omitempty"`
	To                  string `json:"to,omitempty"`
	IsapreReimbursed    *bool  `json:"isapreReimbursed,omitempty"`
	InsuranceReimbursed *bool  `json:"insuranceReimbursed,omitempty"`
}

// IsZero reports whether no filter field is set
func (f *EventFilters) IsZero() bool {
	return f == nil || (f.PatientID == "" && f.Type == "" && f.From == "" && f.To == "" &&
		f.IsapreReimbursed == nil && f.InsuranceReimbursed == nil)
}

// Matches applies the filter set to a single event. Pure and
// side-effect-free; both backends share these semantics.
func (f *EventFilters) Matches(e *MedicalEvent) bool {
	if f == nil {
		return true
	}
	if f.PatientID != "" && e.PatientID != f.PatientID {
		return false
	}
	if f.Type != "" && string(e.Type) != f.Type {
		return false
	}
	if f.From != "" && e.Date < f.From {
		return false
	}
	if f.To != "" && e.Date > f.To {
		return false
	}
	if f.IsapreReimbursed != nil && e.IsapreReimbursed != *f.IsapreReimbursed {
		return false
	}
	if f.InsuranceReimbursed != nil && e.InsuranceReimbursed != *f.InsuranceReimbursed {
		return false
	}
	return true
}
