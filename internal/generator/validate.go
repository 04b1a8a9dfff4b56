package generator

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/terrascope/tfgen/internal/models"
)

var awsRegions = []string{
	"us-east-1",
	"us-east-2",
	"us-west-1",
	"us-west-2",
	"af-south-1",
	"ap-east-1",
	"ap-south-1",
	"ap-northeast-3",
	"ap-northeast-2",
	"ap-southeast-1",
	"ap-southeast-2",
	"ap-northeast-1",
	"ca-central-1",
	"eu-central-1",
	"eu-west-1",
	"eu-west-2",
	"eu-south-1",
	"eu-west-3",
	"eu-north-1",
	"me-south-1",
	"sa-east-1",
}

// IsRegion reports whether region is an AWS region the generator accepts.
func IsRegion(region string) bool {
	for _, r := range awsRegions {
		if r == region {
			return true
		}
	}
	return false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("aws_region", func(fl validator.FieldLevel) bool {
		return IsRegion(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Problem is one reason a diagram was rejected.
type Problem struct {
	Element string
	Field   string
	Message string
}

func (p Problem) String() string {
	if p.Element == "" {
		return p.Message
	}
	return p.Element + ": " + p.Message
}

// ValidationError reports malformed input. No output is produced when it is
// returned.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return "invalid diagram: " + strings.Join(msgs, "; ")
}

// IsValidationError reports whether err is, or wraps, a *ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// NormalizeID replaces hyphens with underscores so the id can be used as a
// Terraform identifier.
func NormalizeID(id string) string {
	return strings.ReplaceAll(id, "-", "_")
}

func nodeElement(i int, id string) string {
	if id == "" {
		return fmt.Sprintf("nodes[%d]", i)
	}
	return fmt.Sprintf("nodes[%d] (%q)", i, id)
}

func connectionElement(i int) string {
	return fmt.Sprintf("connections[%d]", i)
}

// structProblems runs the struct tag validation and turns each failure into
// a Problem naming the offending element.
func structProblems(d models.Diagram) []Problem {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Problem{{Message: err.Error()}}
	}

	problems := make([]Problem, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		element, field := splitNamespace(fe.Namespace())
		element = describeElement(d, element)

		var msg string
		switch fe.Tag() {
		case "required":
			msg = field + " is required"
		case "aws_region":
			msg = fmt.Sprintf("%s %q is not a supported AWS region", field, fe.Value())
		default:
			msg = field + " is invalid"
		}
		problems = append(problems, Problem{Element: element, Field: field, Message: msg})
	}
	return problems
}

// splitNamespace turns "Diagram.nodes[1].type" into ("nodes[1]", "type").
func splitNamespace(ns string) (string, string) {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}
	if i := strings.LastIndex(ns, "."); i >= 0 {
		return ns[:i], ns[i+1:]
	}
	return "", ns
}

func describeElement(d models.Diagram, element string) string {
	rest, ok := strings.CutPrefix(element, "nodes[")
	if !ok {
		return element
	}
	i, err := strconv.Atoi(strings.TrimSuffix(rest, "]"))
	if err != nil || i < 0 || i >= len(d.Nodes) {
		return element
	}
	return nodeElement(i, d.Nodes[i].ID)
}

// identifierProblems checks that node ids are unique and usable as
// Terraform identifiers once normalized.
func identifierProblems(d models.Diagram) []Problem {
	var problems []Problem
	seen := make(map[string]string, len(d.Nodes))
	for i, n := range d.Nodes {
		if n.ID == "" {
			continue
		}
		name := NormalizeID(n.ID)
		if !hclsyntax.ValidIdentifier(name) {
			problems = append(problems, Problem{
				Element: nodeElement(i, n.ID),
				Field:   "id",
				Message: fmt.Sprintf("id %q is not a valid identifier", n.ID),
			})
			continue
		}
		if prev, ok := seen[name]; ok {
			msg := fmt.Sprintf("id %q is duplicated", n.ID)
			if prev != n.ID {
				msg = fmt.Sprintf("id %q collides with %q as %q", n.ID, prev, name)
			}
			problems = append(problems, Problem{Element: nodeElement(i, n.ID), Field: "id", Message: msg})
			continue
		}
		seen[name] = n.ID
	}
	return problems
}
