package generator

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func parseBody(t *testing.T, src string) *hclsyntax.Body {
	t.Helper()
	file, diags := hclsyntax.ParseConfig([]byte(src), "main.tf", hcl.InitialPos)
	require.False(t, diags.HasErrors(), diags.Error())
	return file.Body.(*hclsyntax.Body)
}

func findBlock(t *testing.T, body *hclsyntax.Body, blockType string, labels ...string) *hclsyntax.Block {
	t.Helper()
	for _, b := range body.Blocks {
		if b.Type == blockType && equalLabels(b.Labels, labels) {
			return b
		}
	}
	require.Failf(t, "block not found", "%s %v", blockType, labels)
	return nil
}

func hasBlock(body *hclsyntax.Body, blockType string, labels ...string) bool {
	for _, b := range body.Blocks {
		if b.Type == blockType && equalLabels(b.Labels, labels) {
			return true
		}
	}
	return false
}

func equalLabels(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func blockLabels(body *hclsyntax.Body, blockType string) [][]string {
	var out [][]string
	for _, b := range body.Blocks {
		if b.Type == blockType {
			out = append(out, b.Labels)
		}
	}
	return out
}

// literal evaluates an attribute that holds no references.
func literal(t *testing.T, body *hclsyntax.Body, name string) cty.Value {
	t.Helper()
	a, ok := body.Attributes[name]
	require.True(t, ok, "attribute %q missing", name)
	v, diags := a.Expr.Value(nil)
	require.False(t, diags.HasErrors(), diags.Error())
	return v
}

func stringAttr(t *testing.T, body *hclsyntax.Body, name string) string {
	t.Helper()
	return literal(t, body, name).AsString()
}

func intAttr(t *testing.T, body *hclsyntax.Body, name string) int64 {
	t.Helper()
	i, _ := literal(t, body, name).AsBigFloat().Int64()
	return i
}

func boolAttr(t *testing.T, body *hclsyntax.Body, name string) bool {
	t.Helper()
	return literal(t, body, name).True()
}

func stringListAttr(t *testing.T, body *hclsyntax.Body, name string) []string {
	t.Helper()
	var out []string
	for _, v := range literal(t, body, name).AsValueSlice() {
		out = append(out, v.AsString())
	}
	return out
}

// references lists the traversals an attribute refers to, rendered as
// dotted addresses.
func references(t *testing.T, body *hclsyntax.Body, name string) []string {
	t.Helper()
	a, ok := body.Attributes[name]
	require.True(t, ok, "attribute %q missing", name)
	var out []string
	for _, tr := range a.Expr.Variables() {
		out = append(out, traversalString(tr))
	}
	return out
}

func traversalString(tr hcl.Traversal) string {
	s := tr.RootName()
	for _, step := range tr[1:] {
		if a, ok := step.(hcl.TraverseAttr); ok {
			s += "." + a.Name
		}
	}
	return s
}
