// Package domain defines the entities of the family medical tracker.
//
// The central entity is MedicalEvent: one medical occurrence (a visit,
// exam, emergency, surgery) for one family member, carrying two
// independent reimbursement flags for the ISAPRE and the supplementary
// insurance policy. EventPhoto and EventRecording are immutable link
// entities tying externally hosted media to their owning event.
//
// # Validation
//
// Validators are pure functions returning a structured ValidationResult.
// They accumulate one entry per violated field instead of stopping at the
// first failure, and never reach out to storage.
//
// # Filtering
//
// EventFilters.Matches applies a partially populated filter set to a
// single event as an AND-conjunction. Both storage backends implement
// list queries against these semantics.
package domain
