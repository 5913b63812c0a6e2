// Package family provides the seed-configured family-member source.
//
// The member set is small and effectively static: it comes from
// configuration, with an optional one-time load from durable storage
// that overrides the seed for the remainder of the process. The source
// is constructed explicitly and passed to whoever needs it; there is no
// package-level cache.
package family

import (
	"context"
	"log"
	"strings"
	"sync"

	"famcare/internal/domain"
	"famcare/internal/repository"
)

// Source resolves family members. Reads are served from an immutable
// snapshot decided on first use.
type Source struct {
	seed   []domain.FamilyMember
	loader repository.Members

	once    sync.Once
	members []domain.FamilyMember
}

// NewSource creates a source over the configured seed list. loader may
// be nil; when present it is consulted exactly once, and a non-empty
// result replaces the seed.
func NewSource(seed []domain.FamilyMember, loader repository.Members) *Source {
	return &Source{seed: seed, loader: loader}
}

func (s *Source) resolve(ctx context.Context) {
	s.once.Do(func() {
		s.members = s.seed
		if s.loader == nil {
			return
		}
		loaded, err := s.loader.ListMembers(ctx)
		if err != nil {
			log.Printf("family: load from storage failed, keeping seed list: %v", err)
			return
		}
		if len(loaded) > 0 {
			s.members = loaded
		}
	})
}

// List returns a copy of the member set
func (s *Source) List(ctx context.Context) []domain.FamilyMember {
	s.resolve(ctx)
	out := make([]domain.FamilyMember, len(s.members))
	copy(out, s.members)
	return out
}

// GetByID returns the member with the given id, or nil
func (s *Source) GetByID(ctx context.Context, id string) *domain.FamilyMember {
	s.resolve(ctx)
	for i := range s.members {
		if s.members[i].ID == id {
			m := s.members[i]
			return &m
		}
	}
	return nil
}

// GetByName returns the member with the given name, case-insensitively,
// or nil. Used by callers that accept names instead of ids.
func (s *Source) GetByName(ctx context.Context, name string) *domain.FamilyMember {
	s.resolve(ctx)
	for i := range s.members {
		if strings.EqualFold(s.members[i].Name, name) {
			m := s.members[i]
			return &m
		}
	}
	return nil
}
