package importer

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// hclScheduleFile is the HCL rendition of ScheduleFile:
//
//	locals { start = "2025-03-03" }
//	schedule "BLD01" { name = "Tower A" anchor_date = local.start }
//	person "ana" { name = "Ana" }
//	node "dig" { title = "Excavation" kind = "task" start = local.start duration_days = 5 }
//	edge { from = "dig" to = "pour" }
type hclScheduleFile struct {
	Locals   []*hclLocals `hcl:"locals,block"`
	Schedule hclSchedule  `hcl:"schedule,block"`
	People   []*hclPerson `hcl:"person,block"`
	Nodes    []*hclNode   `hcl:"node,block"`
	Edges    []*hclEdge   `hcl:"edge,block"`
}

type hclLocals struct {
	Body hcl.Body `hcl:",remain"`
}

// hclLocalsOnly decodes just the locals blocks so they can be evaluated
// before the rest of the file is.
type hclLocalsOnly struct {
	Locals []*hclLocals `hcl:"locals,block"`
	Remain hcl.Body     `hcl:",remain"`
}

type hclSchedule struct {
	ShortID    string  `hcl:"short_id,label"`
	Name       string  `hcl:"name"`
	AnchorDate *string `hcl:"anchor_date,optional"`
}

type hclPerson struct {
	Ref  string `hcl:"ref,label"`
	Name string `hcl:"name"`
}

type hclNode struct {
	Ref             string   `hcl:"ref,label"`
	Title           string   `hcl:"title"`
	Kind            string   `hcl:"kind"`
	Parent          *string  `hcl:"parent,optional"`
	Start           *string  `hcl:"start,optional"`
	Due             *string  `hcl:"due,optional"`
	DurationDays    *int     `hcl:"duration_days,optional"`
	Status          *string  `hcl:"status,optional"`
	PercentComplete *int     `hcl:"percent_complete,optional"`
	Assignees       []string `hcl:"assignees,optional"`
}

type hclEdge struct {
	From string  `hcl:"from"`
	To   string  `hcl:"to"`
	Type *string `hcl:"type,optional"`
}

func loadHCL(path string) (*ScheduleFile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	ctx, err := localsContext(file.Body)
	if err != nil {
		return nil, fmt.Errorf("evaluating locals in %s: %w", path, err)
	}

	var parsed hclScheduleFile
	if diags := gohcl.DecodeBody(file.Body, ctx, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	return parsed.toScheduleFile(), nil
}

// localsContext evaluates every locals attribute in source order, so a
// local may refer to any local defined above it, and exposes them as
// local.<name>.
func localsContext(body hcl.Body) (*hcl.EvalContext, error) {
	var only hclLocalsOnly
	if diags := gohcl.DecodeBody(body, nil, &only); diags.HasErrors() {
		return nil, diags
	}

	var attrs []*hcl.Attribute
	for _, block := range only.Locals {
		blockAttrs, diags := block.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, diags
		}
		for _, a := range blockAttrs {
			attrs = append(attrs, a)
		}
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].Range.Start.Byte < attrs[j].Range.Start.Byte
	})

	locals := make(map[string]cty.Value, len(attrs))
	ctx := &hcl.EvalContext{Variables: map[string]cty.Value{"local": cty.EmptyObjectVal}}
	for _, a := range attrs {
		if _, dup := locals[a.Name]; dup {
			return nil, fmt.Errorf("local %q defined more than once", a.Name)
		}
		val, diags := a.Expr.Value(ctx)
		if diags.HasErrors() {
			return nil, diags
		}
		locals[a.Name] = val
		ctx.Variables["local"] = cty.ObjectVal(locals)
	}
	return ctx, nil
}

func (p *hclScheduleFile) toScheduleFile() *ScheduleFile {
	f := &ScheduleFile{
		Schedule: ScheduleImport{ShortID: p.Schedule.ShortID, Name: p.Schedule.Name},
	}
	if p.Schedule.AnchorDate != nil {
		f.Schedule.AnchorDate = *p.Schedule.AnchorDate
	}
	for _, person := range p.People {
		f.People = append(f.People, PersonImport{Ref: person.Ref, Name: person.Name})
	}
	for _, n := range p.Nodes {
		ni := NodeImport{
			Ref:             n.Ref,
			Title:           n.Title,
			Kind:            n.Kind,
			ParentRef:       n.Parent,
			Start:           n.Start,
			Due:             n.Due,
			DurationDays:    n.DurationDays,
			PercentComplete: n.PercentComplete,
			Assignees:       n.Assignees,
		}
		if n.Status != nil {
			ni.Status = *n.Status
		}
		f.Nodes = append(f.Nodes, ni)
	}
	for _, e := range p.Edges {
		ei := EdgeImport{From: e.From, To: e.To}
		if e.Type != nil {
			ei.Type = *e.Type
		}
		f.Edges = append(f.Edges, ei)
	}
	return f
}
