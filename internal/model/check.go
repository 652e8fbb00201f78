package model

import "time"

// Lookup sources recorded on a Check.
const (
	SourceHIBP = "hibp"
	SourceDemo = "demo"
)

// Check is one completed email lookup. It is the unit that gets persisted and
// returned to the caller.
type Check struct {
	Email     string    `json:"email"`
	Found     bool      `json:"found"`
	Count     int       `json:"count"`
	Breaches  []Breach  `json:"breaches"`
	Source    string    `json:"source"`
	IsDemo    bool      `json:"is_demo"`
	CheckedAt time.Time `json:"checked_at"`
}

// NewCheck builds a Check whose derived fields always agree with its breach
// list and source.
func NewCheck(email string, breaches []Breach, source string, checkedAt time.Time) *Check {
	if breaches == nil {
		breaches = []Breach{}
	}
	return &Check{
		Email:     email,
		Found:     len(breaches) > 0,
		Count:     len(breaches),
		Breaches:  breaches,
		Source:    source,
		IsDemo:    source == SourceDemo,
		CheckedAt: checkedAt,
	}
}
