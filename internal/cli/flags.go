package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/importer"
	"github.com/spf13/pflag"
)

// constraintFlag accepts FS, SS, FF or the long constraint names.
type constraintFlag struct {
	value domain.ConstraintType
}

var _ pflag.Value = (*constraintFlag)(nil)

func newConstraintFlag() *constraintFlag {
	return &constraintFlag{value: domain.FinishToStart}
}

func (f *constraintFlag) String() string { return f.value.Short() }
func (f *constraintFlag) Type() string { return "FS|SS|FF" }

func (f *constraintFlag) Set(s string) error {
	switch strings.ToUpper(s) {
	case "FS":
		f.value = domain.FinishToStart
	case "SS":
		f.value = domain.StartToStart
	case "FF":
		f.value = domain.FinishToFinish
	default:
		if !domain.ValidConstraintTypes[strings.ToLower(s)] {
			return fmt.Errorf("unknown constraint type %q", s)
		}
		f.value = domain.ConstraintType(strings.ToLower(s))
	}
	return nil
}

// kindFlag accepts a node kind.
type kindFlag struct {
	value domain.NodeKind
}

var _ pflag.Value = (*kindFlag)(nil)

func (f *kindFlag) String() string { return string(f.value) }
func (f *kindFlag) Type() string { return "kind" }

func (f *kindFlag) Set(s string) error {
	s = strings.ToLower(s)
	if !domain.ValidNodeKinds[s] {
		return fmt.Errorf("unknown node kind %q (task, milestone, deliverable, person)", s)
	}
	f.value = domain.NodeKind(s)
	return nil
}

// statusFlag accepts a task status, with spaces or dashes for underscores.
type statusFlag struct {
	value domain.TaskStatus
}

var _ pflag.Value = (*statusFlag)(nil)

func (f *statusFlag) String() string { return string(f.value) }
func (f *statusFlag) Type() string { return "status" }

func (f *statusFlag) Set(s string) error {
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(s))
	if !domain.ValidTaskStatuses[s] {
		return fmt.Errorf("unknown status %q (not_started, in_progress, blocked, done)", s)
	}
	f.value = domain.TaskStatus(s)
	return nil
}

// formatFlag selects an export encoding.
type formatFlag struct {
	value importer.Format
}

var _ pflag.Value = (*formatFlag)(nil)

func (f *formatFlag) String() string { return string(f.value) }
func (f *formatFlag) Type() string { return "json|yaml" }

func (f *formatFlag) Set(s string) error {
	switch importer.Format(strings.ToLower(s)) {
	case importer.FormatJSON:
		f.value = importer.FormatJSON
	case importer.FormatYAML, "yml":
		f.value = importer.FormatYAML
	default:
		return fmt.Errorf("unsupported export format %q", s)
	}
	return nil
}
