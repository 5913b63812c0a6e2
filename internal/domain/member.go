package domain

// FamilyMember is one person events can be recorded against. The set is
// small and seed-configured; members are read-only at runtime.
type FamilyMember struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
}
