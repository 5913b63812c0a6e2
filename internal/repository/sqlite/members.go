package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"famcare/internal/domain"
)

// MemberStore reads family members from durable storage. The table is an
// optional override for the configured seed list; the family source
// consults it once at startup.
type MemberStore struct {
	db *sql.DB
}

// ListMembers returns every stored family member, ordered by id
func (s *MemberStore) ListMembers(ctx context.Context) ([]domain.FamilyMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, relationship FROM family_members ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	members := make([]domain.FamilyMember, 0)
	for rows.Next() {
		var m domain.FamilyMember
		if err := rows.Scan(&m.ID, &m.Name, &m.Relationship); err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating family members: %w", err)
	}

	return members, nil
}

// SeedMembers inserts members that are not already present. Used by the
// server to mirror the configured family into the database.
func (s *MemberStore) SeedMembers(ctx context.Context, members []domain.FamilyMember) error {
	stmt, err := s.db.PrepareContext(ctx, `
		INSERT INTO family_members (id, name, relationship) VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare member insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range members {
		if _, err := stmt.ExecContext(ctx, m.ID, m.Name, m.Relationship); err != nil {
			return fmt.Errorf("failed to insert family member %s: %w", m.ID, err)
		}
	}
	return nil
}
