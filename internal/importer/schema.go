package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScheduleFile is the on-disk description of one schedule. Nodes and
// people are addressed by Ref inside the file; database ids are assigned
// on import.
type ScheduleFile struct {
	Schedule ScheduleImport `json:"schedule" yaml:"schedule"`
	People   []PersonImport `json:"people,omitempty" yaml:"people,omitempty"`
	Nodes    []NodeImport   `json:"nodes" yaml:"nodes"`
	Edges    []EdgeImport   `json:"edges,omitempty" yaml:"edges,omitempty"`
}

type ScheduleImport struct {
	ShortID    string `json:"short_id" yaml:"short_id"`
	Name       string `json:"name" yaml:"name"`
	AnchorDate string `json:"anchor_date,omitempty" yaml:"anchor_date,omitempty"`
}

type PersonImport struct {
	Ref  string `json:"ref" yaml:"ref"`
	Name string `json:"name" yaml:"name"`
}

// NodeImport is a task, milestone or deliverable. Status, PercentComplete,
// DurationDays and Assignees apply to tasks only.
type NodeImport struct {
	Ref             string   `json:"ref" yaml:"ref"`
	Title           string   `json:"title" yaml:"title"`
	Kind            string   `json:"kind" yaml:"kind"`
	ParentRef       *string  `json:"parent_ref,omitempty" yaml:"parent_ref,omitempty"`
	Start           *string  `json:"start,omitempty" yaml:"start,omitempty"`
	Due             *string  `json:"due,omitempty" yaml:"due,omitempty"`
	DurationDays    *int     `json:"duration_days,omitempty" yaml:"duration_days,omitempty"`
	Status          string   `json:"status,omitempty" yaml:"status,omitempty"`
	PercentComplete *int     `json:"percent_complete,omitempty" yaml:"percent_complete,omitempty"`
	Assignees       []string `json:"assignees,omitempty" yaml:"assignees,omitempty"`
}

// EdgeImport is a constraint between two node refs. An empty Type means
// finish_to_start.
type EdgeImport struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Format names a schedule file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// FormatOf picks the encoding from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("unsupported schedule file extension %q (want .json, .yaml, .yml or .hcl)", filepath.Ext(path))
	}
}

// LoadScheduleFile reads and parses a schedule file, dispatching on its
// extension.
func LoadScheduleFile(path string) (*ScheduleFile, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format == FormatHCL {
		return loadHCL(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, format)
}

// Parse decodes JSON or YAML schedule data. HCL needs a file name for its
// diagnostics and goes through LoadScheduleFile.
func Parse(data []byte, format Format) (*ScheduleFile, error) {
	var f ScheduleFile
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing schedule JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing schedule YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("cannot parse %s schedule data from bytes", format)
	}
	return &f, nil
}

// Encode renders f as JSON or YAML.
func Encode(f *ScheduleFile, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding schedule JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(f)
		if err != nil {
			return nil, fmt.Errorf("encoding schedule YAML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("export format %q not supported (want json or yaml)", format)
	}
}
