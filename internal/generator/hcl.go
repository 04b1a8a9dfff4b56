package generator

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// fragment is one unit of generated text: a resource or association block,
// possibly made of several Terraform blocks.
type fragment struct {
	file *hclwrite.File
	body *hclwrite.Body
}

func newFragment() *fragment {
	f := hclwrite.NewEmptyFile()
	return &fragment{file: f, body: f.Body()}
}

func (f *fragment) comment(text string) {
	f.body.AppendUnstructuredTokens(hclwrite.Tokens{
		{Type: hclsyntax.TokenComment, Bytes: []byte("# " + text + "\n")},
	})
}

func (f *fragment) block(typeName string, labels ...string) *hclwrite.Body {
	if len(f.body.Blocks()) > 0 {
		f.body.AppendNewline()
	}
	return f.body.AppendNewBlock(typeName, labels).Body()
}

func (f *fragment) resource(resourceType, name string) *hclwrite.Body {
	return f.block("resource", resourceType, name)
}

func (f *fragment) String() string {
	return strings.TrimRight(string(f.file.Bytes()), "\n")
}

// ref builds a traversal such as aws_instance.web.id.
func ref(root string, attrs ...string) hcl.Traversal {
	t := hcl.Traversal{hcl.TraverseRoot{Name: root}}
	for _, a := range attrs {
		t = append(t, hcl.TraverseAttr{Name: a})
	}
	return t
}

// interpolate renders "<prefix>${traversal}<suffix>".
func interpolate(prefix string, t hcl.Traversal, suffix string) hclwrite.Tokens {
	tokens := hclwrite.Tokens{{Type: hclsyntax.TokenOQuote, Bytes: []byte(`"`)}}
	if prefix != "" {
		tokens = append(tokens, &hclwrite.Token{Type: hclsyntax.TokenQuotedLit, Bytes: []byte(prefix)})
	}
	tokens = append(tokens, &hclwrite.Token{Type: hclsyntax.TokenTemplateInterp, Bytes: []byte("${")})
	tokens = append(tokens, hclwrite.TokensForTraversal(t)...)
	tokens = append(tokens, &hclwrite.Token{Type: hclsyntax.TokenTemplateSeqEnd, Bytes: []byte("}")})
	if suffix != "" {
		tokens = append(tokens, &hclwrite.Token{Type: hclsyntax.TokenQuotedLit, Bytes: []byte(suffix)})
	}
	return append(tokens, &hclwrite.Token{Type: hclsyntax.TokenCQuote, Bytes: []byte(`"`)})
}

type attr struct {
	name  string
	value hclwrite.Tokens
}

func object(attrs ...attr) hclwrite.Tokens {
	items := make([]hclwrite.ObjectAttrTokens, 0, len(attrs))
	for _, a := range attrs {
		items = append(items, hclwrite.ObjectAttrTokens{
			Name:  hclwrite.TokensForIdentifier(a.name),
			Value: a.value,
		})
	}
	return hclwrite.TokensForObject(items)
}

func tuple(elems ...hclwrite.Tokens) hclwrite.Tokens {
	return hclwrite.TokensForTuple(elems)
}

func str(s string) hclwrite.Tokens {
	return hclwrite.TokensForValue(cty.StringVal(s))
}

func stringTuple(values []string) hclwrite.Tokens {
	elems := make([]hclwrite.Tokens, 0, len(values))
	for _, v := range values {
		elems = append(elems, str(v))
	}
	return tuple(elems...)
}

func jsonencode(obj hclwrite.Tokens) hclwrite.Tokens {
	return hclwrite.TokensForFunctionCall("jsonencode", obj)
}

func setString(body *hclwrite.Body, name, value string) {
	body.SetAttributeValue(name, cty.StringVal(value))
}

func setOptionalString(body *hclwrite.Body, name, value string) {
	if value != "" {
		setString(body, name, value)
	}
}

func setInt(body *hclwrite.Body, name string, value int) {
	body.SetAttributeValue(name, cty.NumberIntVal(int64(value)))
}

func setBool(body *hclwrite.Body, name string, value bool) {
	body.SetAttributeValue(name, cty.BoolVal(value))
}

func setStringList(body *hclwrite.Body, name string, values []string) {
	if len(values) == 0 {
		return
	}
	body.SetAttributeRaw(name, stringTuple(values))
}

func setStringMap(body *hclwrite.Body, name string, values map[string]string) {
	if len(values) == 0 {
		return
	}
	m := make(map[string]cty.Value, len(values))
	for k, v := range values {
		m[k] = cty.StringVal(v)
	}
	body.SetAttributeValue(name, cty.MapVal(m))
}

// setTags writes the tags map after a blank line, adding a Name tag when
// name is set.
func setTags(body *hclwrite.Body, tags map[string]string, name string) {
	merged := make(map[string]string, len(tags)+1)
	for k, v := range tags {
		merged[k] = v
	}
	if name != "" {
		merged["Name"] = name
	}
	if len(merged) == 0 {
		return
	}
	body.AppendNewline()
	setStringMap(body, "tags", merged)
}

// Lint parses src as native HCL syntax and returns the diagnostics when it
// does not parse.
func Lint(filename string, src []byte) error {
	_, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return diags
	}
	return nil
}
