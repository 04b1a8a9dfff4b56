package generator

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/terrascope/tfgen/internal/models"
)

const (
	WarnUnsupportedKind       = "unsupported_node_type"
	WarnUnknownConfigKey      = "unknown_config_key"
	WarnDanglingConnection    = "dangling_connection"
	WarnUnsupportedConnection = "unsupported_connection"
	WarnDuplicateAssociation  = "duplicate_association"
)

// Options configures a Generator.
type Options struct {
	// DefaultRegion is the default of the aws_region variable when the
	// diagram does not name one.
	DefaultRegion string
}

// DefaultOptions returns the options used by Generate.
func DefaultOptions() Options {
	return Options{
		DefaultRegion: "us-east-1",
	}
}

// Generator renders diagrams. It holds no mutable state and is safe for
// concurrent use.
type Generator struct {
	opts Options
}

func New(opts Options) *Generator {
	if opts.DefaultRegion == "" {
		opts.DefaultRegion = DefaultOptions().DefaultRegion
	}
	return &Generator{opts: opts}
}

// Document is the result of one generation.
type Document struct {
	Main      string
	Variables string
	Outputs   string
	Warnings  []models.Warning
	Stats     Stats
}

type Stats struct {
	Resources       int
	Associations    int
	ResourcesByKind map[Kind]int
}

// Generate renders nodes and connections with the default options and
// returns the main configuration text.
func Generate(nodes []models.Node, connections []models.Connection) (string, error) {
	doc, err := New(DefaultOptions()).Generate(models.Diagram{Nodes: nodes, Connections: connections})
	if err != nil {
		return "", err
	}
	return doc.Main, nil
}

// planned is a node that passed validation together with its decoded config.
type planned struct {
	node models.Node
	kind Kind
	name string
	spec resourceSpec
}

// Generate validates d and renders it. Malformed input yields a
// *ValidationError and no document; everything else degrades into
// warnings.
func (g *Generator) Generate(d models.Diagram) (*Document, error) {
	plan, warnings, err := g.plan(d)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Warnings: warnings,
		Stats:    Stats{ResourcesByKind: make(map[Kind]int)},
	}

	parts := []string{ProviderBlock()}
	byID := make(map[string]planned, len(plan))
	for _, p := range plan {
		byID[p.node.ID] = p
		f := newFragment()
		p.spec.emit(f, p.name)
		parts = append(parts, f.String())
		doc.Stats.Resources++
		doc.Stats.ResourcesByKind[p.kind]++
	}

	emitted := make(map[associationKey]string)
	taken := make(map[string]bool)
	for i, c := range d.Connections {
		element := connectionElement(i)
		source, okSource := byID[c.SourceID]
		target, okTarget := byID[c.TargetID]
		if !okSource || !okTarget {
			missing := c.SourceID
			if okSource {
				missing = c.TargetID
			}
			doc.Warnings = append(doc.Warnings, models.Warning{
				Code:    WarnDanglingConnection,
				Element: element,
				Message: fmt.Sprintf("references node %q which is missing or unsupported", missing),
			})
			continue
		}

		assoc, ok := associations[kindPair{source.kind, target.kind}]
		if !ok {
			doc.Warnings = append(doc.Warnings, models.Warning{
				Code:    WarnUnsupportedConnection,
				Element: element,
				Message: fmt.Sprintf("no association for %s -> %s (%s connection)", source.kind, target.kind, c.ConnectionType()),
			})
			continue
		}

		base := assoc.name(source.name, target.name, connectionName(c))
		key := associationKey{source: source.node.ID, target: target.node.ID, name: base}
		if name, ok := emitted[key]; ok {
			doc.Warnings = append(doc.Warnings, models.Warning{
				Code:    WarnDuplicateAssociation,
				Element: element,
				Message: fmt.Sprintf("association %q was already generated", name),
			})
			continue
		}
		name := uniqueName(base, taken)
		emitted[key] = name
		taken[name] = true

		f := newFragment()
		assoc.emit(f, source.name, target.name, name)
		parts = append(parts, f.String())
		doc.Stats.Associations++
	}

	doc.Main = strings.Join(parts, "\n\n") + "\n"
	doc.Variables = g.variables(d, plan)
	doc.Outputs = outputs(plan)

	for _, file := range []struct{ name, src string }{
		{"main.tf", doc.Main},
		{"variables.tf", doc.Variables},
		{"outputs.tf", doc.Outputs},
	} {
		if err := Lint(file.name, []byte(file.src)); err != nil {
			return nil, fmt.Errorf("generated %s does not parse: %w", file.name, err)
		}
	}
	return doc, nil
}

// plan validates the whole diagram up front so that no output is produced
// for malformed input.
func (g *Generator) plan(d models.Diagram) ([]planned, []models.Warning, error) {
	problems := structProblems(d)
	problems = append(problems, identifierProblems(d)...)

	var (
		plan     []planned
		warnings []models.Warning
	)
	for i, n := range d.Nodes {
		if n.ID == "" || n.Type == "" {
			continue
		}
		element := nodeElement(i, n.ID)
		kind, ok := ParseKind(n.Type)
		if !ok {
			warnings = append(warnings, models.Warning{
				Code:    WarnUnsupportedKind,
				Element: element,
				Message: fmt.Sprintf("node type %q is not supported", n.Type),
			})
			continue
		}

		spec, unused, err := decodeSpec(kind, n.Config)
		if err != nil {
			for _, msg := range decodeErrorMessages(err) {
				problems = append(problems, Problem{Element: element, Field: "config", Message: "config: " + msg})
			}
			continue
		}
		for _, key := range unused {
			warnings = append(warnings, models.Warning{
				Code:    WarnUnknownConfigKey,
				Element: element,
				Message: fmt.Sprintf("config key %q is not used by %s", key, kind),
			})
		}

		plan = append(plan, planned{
			node: n,
			kind: kind,
			name: NormalizeID(n.ID),
			spec: spec,
		})
	}

	if len(problems) > 0 {
		return nil, nil, &ValidationError{Problems: problems}
	}
	return plan, warnings, nil
}

// associationKey identifies one association. Two connections with the same
// key render the same blocks.
type associationKey struct {
	source string
	target string
	name   string
}

// uniqueName appends _2, _3, ... to base until it is not taken.
func uniqueName(base string, taken map[string]bool) string {
	if !taken[base] {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d", base, n)
		if !taken[candidate] {
			return candidate
		}
	}
}

// connectionName is the normalized connection id when it can be used as an
// identifier.
func connectionName(c models.Connection) string {
	name := NormalizeID(c.ID)
	if name == "" || !hclsyntax.ValidIdentifier(name) {
		return ""
	}
	return name
}

// ProviderBlock is the fixed provider block every document starts with.
func ProviderBlock() string {
	f := newFragment()
	f.block("provider", "aws").SetAttributeTraversal("region", ref("var", "aws_region"))
	return f.String()
}

func (g *Generator) variables(d models.Diagram, plan []planned) string {
	region := d.Region
	if region == "" {
		region = g.opts.DefaultRegion
	}

	f := newFragment()
	body := f.block("variable", "aws_region")
	setString(body, "description", "AWS region")
	body.SetAttributeTraversal("type", ref("string"))
	setString(body, "default", region)

	for _, p := range plan {
		for _, v := range p.spec.variables(p.name, p.node.DisplayName()) {
			body := f.block("variable", v.name)
			setString(body, "description", v.description)
			body.SetAttributeTraversal("type", ref("string"))
			if v.sensitive {
				setBool(body, "sensitive", true)
			}
		}
	}
	return f.String() + "\n"
}

func outputs(plan []planned) string {
	f := newFragment()
	for _, p := range plan {
		out := p.kind.output()
		body := f.block("output", p.name+"_"+out.suffix)
		setString(body, "description", fmt.Sprintf(out.description, p.node.DisplayName()))
		body.SetAttributeTraversal("value", ref(p.kind.TerraformType(), p.name, out.attribute))
	}
	if len(f.body.Blocks()) == 0 {
		return ""
	}
	return f.String() + "\n"
}
