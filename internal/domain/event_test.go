package domain

import "testing"

func TestEventTypeValid(t *testing.T) {
	for _, et := range EventTypes {
		if !et.Valid() {
			t.Errorf("EventType(%q) should be valid", et)
		}
	}

	invalid := []EventType{"", "exam", "Checkup", "Urgencia"}
	for _, et := range invalid {
		if et.Valid() {
			t.Errorf("EventType(%q) should be invalid", et)
		}
	}
}

func TestPatchApply(t *testing.T) {
	base := MedicalEvent{
		ID:                  "evt-1",
		Date:                "2024-01-01",
		Type:                EventTypeExam,
		Description:         "Blood test",
		PatientID:           "1",
		IsapreReimbursed:    false,
		InsuranceReimbursed: false,
	}

	desc := "Blood test (fasting)"
	isapre := true

	e := base
	patch := MedicalEventPatch{Description: &desc, IsapreReimbursed: &isapre}
	patch.Apply(&e)

	if e.Description != desc {
		t.Errorf("description = %q, want %q", e.Description, desc)
	}
	if !e.IsapreReimbursed {
		t.Error("isapre flag should have been set")
	}

	// Unspecified fields stay untouched.
	if e.Date != base.Date || e.Type != base.Type || e.PatientID != base.PatientID {
		t.Errorf("unpatched fields changed: %+v", e)
	}
	if e.InsuranceReimbursed != base.InsuranceReimbursed {
		t.Error("insurance flag changed without being patched")
	}
}

func TestPatchApply_ExplicitFalse(t *testing.T) {
	e := MedicalEvent{IsapreReimbursed: true, InsuranceReimbursed: true}
	off := false
	patch := MedicalEventPatch{IsapreReimbursed: &off}
	patch.Apply(&e)

	if e.IsapreReimbursed {
		t.Error("explicit false should overwrite a true flag")
	}
	if !e.InsuranceReimbursed {
		t.Error("nil flag field should leave the stored value alone")
	}
}

func TestMedicalEventClone(t *testing.T) {
	orig := sampleEvent()
	clone := orig.Clone()
	clone.Description = "changed"

	if orig.Description == "changed" {
		t.Error("mutating a clone must not affect the original")
	}
}

func TestEventRecordingClone(t *testing.T) {
	dur := 42
	orig := &EventRecording{ID: "rec-1", DurationSeconds: &dur}
	clone := orig.Clone()
	*clone.DurationSeconds = 99

	if *orig.DurationSeconds != 42 {
		t.Error("clone must deep-copy the duration pointer")
	}
}
