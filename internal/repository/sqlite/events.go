package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"famcare/internal/domain"
	"famcare/internal/repository"
)

// EventStore is the durable medical-event repository
type EventStore struct {
	db *sql.DB
}

const eventColumns = "id, date, type, description, patient_id, isapre_reimbursed, insurance_reimbursed, created_at, updated_at"

// scanEvent maps one medical_events row back to the domain entity.
// The translation is bidirectional and lossless for every field.
func scanEvent(row interface{ Scan(...any) error }) (*domain.MedicalEvent, error) {
	var (
		e                    domain.MedicalEvent
		isapre, insurance    int
		createdAt, updatedAt string
	)

	if err := row.Scan(&e.ID, &e.Date, (*string)(&e.Type), &e.Description, &e.PatientID,
		&isapre, &insurance, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	e.IsapreReimbursed = isapre != 0
	e.InsuranceReimbursed = insurance != 0

	var err error
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event with a generated id and stamped timestamps
func (s *EventStore) Create(ctx context.Context, input domain.CreateMedicalEventInput) (*domain.MedicalEvent, error) {
	event := &domain.MedicalEvent{
		ID:                  uuid.New().String(),
		Date:                input.Date,
		Type:                input.Type,
		Description:         input.Description,
		PatientID:           input.PatientID,
		IsapreReimbursed:    input.IsapreReimbursed,
		InsuranceReimbursed: input.InsuranceReimbursed,
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO medical_events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, event.ID, event.Date, string(event.Type), event.Description, event.PatientID,
		boolToInt(event.IsapreReimbursed), boolToInt(event.InsuranceReimbursed),
		formatTime(event.CreatedAt), formatTime(event.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	return event, nil
}

// GetByID returns the event or (nil, nil) when the id is unknown
func (s *EventStore) GetByID(ctx context.Context, id string) (*domain.MedicalEvent, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+` FROM medical_events WHERE id = ?
	`, id)

	event, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query event: %w", err)
	}
	return event, nil
}

// List queries events matching every present filter field, most recent
// clinical date first. Conditions are assembled only for present fields
// so absent filters impose no constraint.
func (s *EventStore) List(ctx context.Context, filters *domain.EventFilters) ([]*domain.MedicalEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM medical_events`
	var (
		conds []string
		args  []any
	)

	if filters != nil {
		if filters.PatientID != "" {
			conds = append(conds, "patient_id = ?")
			args = append(args, filters.PatientID)
		}
		if filters.Type != "" {
			conds = append(conds, "type = ?")
			args = append(args, filters.Type)
		}
		if filters.From != "" {
			conds = append(conds, "date >= ?")
			args = append(args, filters.From)
		}
		if filters.To != "" {
			conds = append(conds, "date <= ?")
			args = append(args, filters.To)
		}
		if filters.IsapreReimbursed != nil {
			conds = append(conds, "isapre_reimbursed = ?")
			args = append(args, boolToInt(*filters.IsapreReimbursed))
		}
		if filters.InsuranceReimbursed != nil {
			conds = append(conds, "insurance_reimbursed = ?")
			args = append(args, boolToInt(*filters.InsuranceReimbursed))
		}
	}

	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY date DESC, created_at ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := make([]*domain.MedicalEvent, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// Update merges the present patch fields over the stored event and
// refreshes updated_at. Updating a missing id is a NotFoundError.
func (s *EventStore) Update(ctx context.Context, id string, patch domain.MedicalEventPatch) (*domain.MedicalEvent, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, &repository.NotFoundError{Entity: "medical event", ID: id}
	}

	patch.Apply(existing)
	existing.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE medical_events
		SET date = ?, type = ?, description = ?, patient_id = ?,
			isapre_reimbursed = ?, insurance_reimbursed = ?, updated_at = ?
		WHERE id = ?
	`, existing.Date, string(existing.Type), existing.Description, existing.PatientID,
		boolToInt(existing.IsapreReimbursed), boolToInt(existing.InsuranceReimbursed),
		formatTime(existing.UpdatedAt), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return existing, nil
}

// Delete removes the event; deleting an unknown id is a no-op
func (s *EventStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM medical_events WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
