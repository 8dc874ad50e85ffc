package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/girder/internal/cli/formatter"
	"github.com/alexanderramin/girder/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// girderHuhTheme matches the formatter palette.
func girderHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// nodeFormValues holds the raw strings collected by nodeForm.
type nodeFormValues struct {
	Title    string
	Kind     string
	Start    string
	Due      string
	Duration string
}

// nodeForm asks for the fields of a new node. Date and duration fields
// are skipped for persons.
func nodeForm(v *nodeFormValues) *huh.Form {
	if v.Kind == "" {
		v.Kind = string(domain.NodeTask)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&v.Title).
				Validate(validateRequired),
			huh.NewSelect[string]().
				Title("Kind").
				Options(
					huh.NewOption("Task", string(domain.NodeTask)),
					huh.NewOption("Milestone", string(domain.NodeMilestone)),
					huh.NewOption("Deliverable", string(domain.NodeDeliverable)),
					huh.NewOption("Person", string(domain.NodePerson)),
				).
				Value(&v.Kind),
		),
		huh.NewGroup(
			dateInput("Start (YYYY-MM-DD, blank to derive)", &v.Start),
			dateInput("Due (YYYY-MM-DD, blank to derive)", &v.Due),
			huh.NewInput().
				Title("Duration in days").
				Placeholder("5").
				Value(&v.Duration).
				Validate(validateNonNegativeInt),
		).WithHideFunc(func() bool { return v.Kind == string(domain.NodePerson) }),
	).WithTheme(girderHuhTheme()).WithShowHelp(false)
}

func dateInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder(time.Now().Format(domain.DateLayout)).
		Value(value).
		Validate(validateOptionalDate)
}

// node builds a fresh node of the chosen kind from the form values.
func (v *nodeFormValues) node(scheduleID string) (*domain.Node, error) {
	kf := &kindFlag{}
	if err := kf.Set(v.Kind); err != nil {
		return nil, err
	}
	n := newNodeOfKind(kf.value, strings.TrimSpace(v.Title))
	n.ScheduleID = scheduleID
	if n.Kind == domain.NodePerson {
		return n, nil
	}
	start, err := domain.ParseOptionalDate(v.Start)
	if err != nil {
		return nil, err
	}
	due, err := domain.ParseOptionalDate(v.Due)
	if err != nil {
		return nil, err
	}
	n.Start, n.Due = start, due
	if v.Duration != "" && n.IsTask() {
		d, _ := strconv.Atoi(v.Duration)
		n.Task.DurationDays = &d
	}
	return n, nil
}

func newNodeOfKind(kind domain.NodeKind, title string) *domain.Node {
	switch kind {
	case domain.NodeMilestone:
		return domain.NewMilestone("", title)
	case domain.NodeDeliverable:
		return domain.NewDeliverable("", title)
	case domain.NodePerson:
		return domain.NewPerson("", title)
	default:
		return domain.NewTask("", title, domain.TaskDetail{})
	}
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

// validateNonNegativeInt accepts empty or a non-negative integer.
func validateNonNegativeInt(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := domain.ParseDate(s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}
