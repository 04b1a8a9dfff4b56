package parser

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/terrascope/tfgen/internal/generator"
	"github.com/terrascope/tfgen/internal/models"
)

const (
	WarnUnsupportedResource = "unsupported_resource"
	WarnUnknownDependency   = "unknown_dependency"
)

const (
	ConnectionDependsOn = "depends_on"
	ConnectionImplicit  = "implicit"
)

// BuildDiagram turns the managed resources of state into diagram nodes and
// their dependencies into connections. Resources with no matching kind are
// skipped with a warning; data sources are skipped silently.
func BuildDiagram(state *models.TerraformState) (*models.Diagram, []models.Warning) {
	diagram := &models.Diagram{
		Nodes:       []models.Node{},
		Connections: []models.Connection{},
	}
	var warnings []models.Warning

	type imported struct {
		id   string
		deps []dependency
	}
	var (
		order     []imported
		byAddress = make(map[string][]string)
		taken     = make(map[string]bool)
	)

	for _, res := range state.ManagedResources() {
		kind, ok := generator.KindForTerraformType(res.Type)
		if !ok {
			warnings = append(warnings, models.Warning{
				Code:    WarnUnsupportedResource,
				Element: res.Address(),
				Message: fmt.Sprintf("resource type %q has no diagram kind", res.Type),
			})
			continue
		}

		for i, instance := range res.Instances {
			nodeID := uniqueID(buildNodeID(res, instance, i), taken)
			diagram.Nodes = append(diagram.Nodes, models.Node{
				ID:     nodeID,
				Type:   string(kind),
				Title:  res.Address(),
				Config: generator.CompatibleConfig(kind, instance.Attributes),
			})
			byAddress[res.Address()] = append(byAddress[res.Address()], nodeID)
			order = append(order, imported{
				id:   nodeID,
				deps: collectDependencies(res.DependsOn, instance.Dependencies),
			})

			if diagram.Region == "" {
				diagram.Region = regionFromAttributes(instance.Attributes)
			}
		}
	}

	seen := make(map[[2]string]bool)
	for _, node := range order {
		for _, dep := range node.deps {
			targets, ok := byAddress[dep.address]
			if !ok {
				warnings = append(warnings, models.Warning{
					Code:    WarnUnknownDependency,
					Element: node.id,
					Message: fmt.Sprintf("dependency %q was not imported", dep.address),
				})
				continue
			}
			for _, target := range targets {
				key := [2]string{node.id, target}
				if seen[key] || target == node.id {
					continue
				}
				seen[key] = true
				diagram.Connections = append(diagram.Connections, models.Connection{
					SourceID: node.id,
					TargetID: target,
					Type:     dep.kind,
				})
			}
		}
	}

	return diagram, warnings
}

// buildNodeID derives an id from the resource name, prefixed with its module
// names and suffixed with the instance key when there are several instances.
func buildNodeID(res models.ResourceState, instance models.ResourceInstance, instanceIndex int) string {
	parts := []string{}

	if res.Module != "" {
		for _, segment := range strings.Split(res.Module, ".") {
			if segment != "module" {
				parts = append(parts, segment)
			}
		}
	}

	parts = append(parts, res.Name)

	if len(res.Instances) > 1 {
		key := instance.IndexKey
		if key != nil {
			val := reflect.ValueOf(key)
			if val.Kind() == reflect.Ptr && !val.IsNil() {
				val = val.Elem()
			}
			parts = append(parts, fmt.Sprint(val.Interface()))
		} else {
			parts = append(parts, fmt.Sprint(instanceIndex))
		}
	}

	return sanitizeID(strings.Join(parts, "_"))
}

// sanitizeID replaces characters that cannot appear in an identifier.
func sanitizeID(id string) string {
	var b strings.Builder
	for i, r := range id {
		switch {
		case r == '_' || r == '-' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteString("r_")
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func uniqueID(id string, taken map[string]bool) string {
	candidate := id
	for n := 2; taken[generator.NormalizeID(candidate)]; n++ {
		candidate = fmt.Sprintf("%s_%d", id, n)
	}
	taken[generator.NormalizeID(candidate)] = true
	return candidate
}

type dependency struct {
	address string
	kind    string
}

// collectDependencies merges explicit and implicit dependencies, keeping the
// order they were declared in. An address listed in both is explicit.
func collectDependencies(explicit, implicit []string) []dependency {
	var deps []dependency
	index := make(map[string]int)

	for _, dep := range explicit {
		if _, exists := index[dep]; !exists {
			index[dep] = len(deps)
			deps = append(deps, dependency{address: dep, kind: ConnectionDependsOn})
		}
	}

	for _, dep := range implicit {
		if _, exists := index[dep]; !exists {
			index[dep] = len(deps)
			deps = append(deps, dependency{address: dep, kind: ConnectionImplicit})
		}
	}

	return deps
}

// regionFromAttributes reads the region out of an ARN or an availability
// zone, returning "" when neither names a known region.
func regionFromAttributes(attrs map[string]any) string {
	if arn, ok := attrs["arn"].(string); ok {
		parts := strings.Split(arn, ":")
		if len(parts) > 3 && generator.IsRegion(parts[3]) {
			return parts[3]
		}
	}
	if zone, ok := attrs["availability_zone"].(string); ok && len(zone) > 1 {
		if region := zone[:len(zone)-1]; generator.IsRegion(region) {
			return region
		}
	}
	return ""
}
