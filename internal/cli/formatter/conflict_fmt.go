package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/girder/internal/domain"
)

// FormatConflicts renders conflicts grouped by kind, errors first.
func FormatConflicts(conflicts []domain.Conflict) string {
	if len(conflicts) == 0 {
		return StyleGreen.Render("✓ No conflicts") + "\n"
	}
	order := []domain.ConflictKind{
		domain.ConflictCircular,
		domain.ConflictDate,
		domain.ConflictOverAllocation,
		domain.ConflictDeliverable,
	}
	byKind := map[domain.ConflictKind][]domain.Conflict{}
	for _, c := range conflicts {
		byKind[c.Kind] = append(byKind[c.Kind], c)
	}

	var b strings.Builder
	for _, k := range order {
		group := byKind[k]
		if len(group) == 0 {
			continue
		}
		b.WriteString(Header(strings.ReplaceAll(string(k), "_", " ")) + "\n")
		for _, c := range group {
			fmt.Fprintf(&b, "%s  %s\n", SeverityIndicator(c.Severity), c.Message)
		}
		b.WriteString("\n")
	}
	b.WriteString(Dim(Plural(len(conflicts), "conflict", "conflicts")) + "\n")
	return b.String()
}

// ConflictBadge is a one-line conflict count for status bars.
func ConflictBadge(conflicts []domain.Conflict) string {
	errs := 0
	for _, c := range conflicts {
		if c.Severity == domain.SeverityError {
			errs++
		}
	}
	switch {
	case len(conflicts) == 0:
		return StyleGreen.Render("no conflicts")
	case errs > 0:
		return StyleRed.Render(fmt.Sprintf("%s (%d errors)", Plural(len(conflicts), "conflict", "conflicts"), errs))
	default:
		return StyleYellow.Render(Plural(len(conflicts), "conflict", "conflicts"))
	}
}
