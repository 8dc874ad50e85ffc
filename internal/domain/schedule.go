package domain

import (
	"fmt"
	"regexp"
	"time"
)

var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

// Schedule owns a set of nodes and edges.
type Schedule struct {
	ID         string
	ShortID    string
	Name       string
	AnchorDate *time.Time
	Status     ScheduleStatus
	ArchivedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidateShortID checks that ShortID is non-empty and matches the required
// format: 3-6 uppercase letters followed by 2-4 digits (e.g. BLD01, TOWER0234).
func (s *Schedule) ValidateShortID() error {
	if s.ShortID == "" {
		return fmt.Errorf("%w: short ID is required (use --id flag)", ErrInvalidSchedule)
	}
	if !shortIDPattern.MatchString(s.ShortID) {
		return fmt.Errorf("%w: short ID %q must be 3-6 uppercase letters followed by 2-4 digits (e.g. BLD01)", ErrInvalidSchedule, s.ShortID)
	}
	return nil
}

// DisplayID returns the best short identifier for display.
// It prefers ShortID; if empty it truncates ID to 8 characters.
func (s *Schedule) DisplayID() string {
	if s.ShortID != "" {
		return s.ShortID
	}
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}
