package models

import "time"

// Facility is the tenant unit (a hospital site) scoping most queries.
type Facility struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Timezone  string    `db:"timezone" json:"timezone"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FacilitySnapshot is the cached facility-resolution result. Fallback marks
// the fixed development facility used when resolution fails outside
// production.
type FacilitySnapshot struct {
	Facility   Facility  `json:"facility"`
	Fallback   bool      `json:"fallback"`
	ResolvedAt time.Time `json:"resolved_at"`
}
