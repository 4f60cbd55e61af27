package pubsub

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedTemplate signals a template node of an unrecognized shape.
// Templates built through ParseTemplate can never trigger it; it exists so
// that a hand-built template with a foreign Node implementation fails fast
// at expansion time instead of silently producing wrong topics.
var ErrMalformedTemplate = errors.New("malformed topic template")

// Node is one element of a topic template. The variant is closed: Literal,
// Field, Tenant, Skip and Any are the only implementations, and the
// expander rejects anything else. Nodes never mutate and are shared across
// all notifications processed during a rule's lifetime.
type Node interface {
	fmt.Stringer
	templateNode()
}

// Literal is a fixed topic segment
type Literal string

// Field references a notification data field by name
type Field string

// Tenant is the tenant placeholder. It is not a field reference: it
// resolves against the notification tenant, and prunes the branch for
// tenant-less notifications.
type Tenant struct{}

// Skip occupies a template position but renders to nothing, producing the
// "pattern with this segment missing" variants inside an Any list.
type Skip struct{}

// Any lists alternative nodes. Each alternative is substituted into the
// node's position and expanded independently; the list contributes one
// Cartesian dimension.
type Any []Node

// Template is an ordered sequence of nodes describing a topic pattern
type Template []Node

func (Literal) templateNode() {}
func (Field) templateNode()   {}
func (Tenant) templateNode()  {}
func (Skip) templateNode()    {}
func (Any) templateNode()     {}

func (l Literal) String() string { return string(l) }
func (f Field) String() string   { return ":" + string(f) }
func (Tenant) String() string    { return ":_tenant" }
func (Skip) String() string      { return ":_skip" }

func (a Any) String() string {
	parts := make([]string, len(a))
	for i, node := range a {
		parts[i] = node.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// String renders the template in its source form, for logs and introspection
func (t Template) String() string {
	return Any(t).String()
}

// literal returns the template's literal string if the template is a single
// literal node. Such templates take the renderer's fast path and bypass the
// expansion machinery entirely.
func (t Template) literal() (string, bool) {
	if len(t) != 1 {
		return "", false
	}
	lit, ok := t[0].(Literal)
	return string(lit), ok
}

// Validate walks the template and rejects unrecognized node shapes and
// empty alternative lists. Rules built from configuration are validated at
// load time; notification-time expansion never raises for valid templates.
func (t Template) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: empty template", ErrMalformedTemplate)
	}
	return validateNodes(t)
}

func validateNodes(nodes []Node) error {
	for _, node := range nodes {
		switch n := node.(type) {
		case Literal, Field, Tenant, Skip:
		case Any:
			if len(n) == 0 {
				return fmt.Errorf("%w: empty alternative list", ErrMalformedTemplate)
			}
			if err := validateNodes(n); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unrecognized node %T", ErrMalformedTemplate, node)
		}
	}
	return nil
}

// Template source markers used by ParseTemplate
const (
	fieldMarker  = ":"
	tenantSource = ":_tenant"
	skipSource   = ":_skip"
)

// ParseTemplate compiles a template from its configuration source form:
// plain strings are literals, ":name" strings are field references,
// ":_tenant" and ":_skip" are the tenant and skip placeholders, and nested
// arrays are alternative lists. Anything else is a configuration error.
func ParseTemplate(source []any) (Template, error) {
	if len(source) == 0 {
		return nil, fmt.Errorf("%w: empty template", ErrMalformedTemplate)
	}

	nodes, err := parseNodes(source)
	if err != nil {
		return nil, err
	}
	return Template(nodes), nil
}

func parseNodes(source []any) ([]Node, error) {
	nodes := make([]Node, 0, len(source))
	for _, element := range source {
		node, err := parseNode(element)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func parseNode(element any) (Node, error) {
	switch src := element.(type) {
	case string:
		switch {
		case src == tenantSource:
			return Tenant{}, nil
		case src == skipSource:
			return Skip{}, nil
		case strings.HasPrefix(src, fieldMarker):
			name := strings.TrimPrefix(src, fieldMarker)
			if name == "" {
				return nil, fmt.Errorf("%w: empty field reference", ErrMalformedTemplate)
			}
			return Field(name), nil
		default:
			return Literal(src), nil
		}
	case []any:
		if len(src) == 0 {
			return nil, fmt.Errorf("%w: empty alternative list", ErrMalformedTemplate)
		}
		alternatives, err := parseNodes(src)
		if err != nil {
			return nil, err
		}
		return Any(alternatives), nil
	default:
		return nil, fmt.Errorf("%w: unsupported element %T", ErrMalformedTemplate, element)
	}
}
