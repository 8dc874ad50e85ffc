package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/girder/internal/domain"
)

// FormatBaselineList renders saved baselines.
func FormatBaselineList(baselines []*domain.Baseline) string {
	if len(baselines) == 0 {
		return Dim("No baselines saved.") + "\n"
	}
	rows := make([][]string, 0, len(baselines))
	for _, bl := range baselines {
		rows = append(rows, []string{
			Bold(bl.Name),
			bl.CapturedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", len(bl.Entries)),
		})
	}
	return RenderTable([]string{"NAME", "CAPTURED", "ENTRIES"}, rows)
}

// FormatVariance renders per-node slippage against a baseline.
func FormatVariance(name string, variances []domain.Variance) string {
	if len(variances) == 0 {
		return StyleGreen.Render(fmt.Sprintf("✓ On baseline %q", name)) + "\n"
	}
	rows := make([][]string, 0, len(variances))
	for _, v := range variances {
		note := ""
		switch {
		case v.Removed:
			note = Dim("removed")
		case v.Added:
			note = StyleBlue.Render("added")
		}
		rows = append(rows, []string{v.Title, slipLabel(v.StartSlip), slipLabel(v.DueSlip), note})
	}
	var b strings.Builder
	b.WriteString(Header("variance vs "+name) + "\n")
	b.WriteString(RenderTable([]string{"NODE", "START", "DUE", ""}, rows))
	return b.String()
}

func slipLabel(days *int) string {
	switch {
	case days == nil:
		return Dim("—")
	case *days > 0:
		return StyleRed.Render(fmt.Sprintf("+%dd", *days))
	case *days < 0:
		return StyleGreen.Render(fmt.Sprintf("%dd", *days))
	default:
		return Dim("0d")
	}
}
