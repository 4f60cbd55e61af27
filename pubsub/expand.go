package pubsub

import "fmt"

// segment is one position of an expanded template. An omitted segment (from
// a Skip node) holds its position but contributes nothing to the rendered
// topic. This is distinct from a pruned branch, which produces no sequence
// at all - conflating the two would silently change which topics get
// generated.
type segment struct {
	text string
	omit bool
}

// expand produces every ordered segment sequence the template resolves to
// for the given notification. The result carries no order guarantee across
// sequences; each sequence preserves template segment order. Returns zero
// sequences when a required field or tenant is unavailable.
func expand(nodes []Node, n *Notification) ([][]segment, error) {
	if len(nodes) == 0 {
		// one result: the empty sequence
		return [][]segment{nil}, nil
	}

	rest := nodes[1:]

	switch node := nodes[0].(type) {
	case Literal:
		return expandWith([]segment{{text: string(node)}}, rest, n)

	case Field:
		return expandWith(candidates(resolveField(n, string(node))), rest, n)

	case Tenant:
		return expandWith(candidates(resolveTenant(n)), rest, n)

	case Skip:
		return expandWith([]segment{{omit: true}}, rest, n)

	case Any:
		var out [][]segment
		for _, alternative := range node {
			spliced := make([]Node, 0, len(rest)+1)
			spliced = append(spliced, alternative)
			spliced = append(spliced, rest...)

			sequences, err := expand(spliced, n)
			if err != nil {
				return nil, err
			}
			out = append(out, sequences...)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: unrecognized node %T", ErrMalformedTemplate, nodes[0])
	}
}

// expandWith expands the remaining nodes and prepends each head segment to
// every tail sequence. Zero head segments prune the branch: the rest of the
// template is not expanded and no sequence is produced.
func expandWith(heads []segment, rest []Node, n *Notification) ([][]segment, error) {
	if len(heads) == 0 {
		return nil, nil
	}

	tails, err := expand(rest, n)
	if err != nil {
		return nil, err
	}

	out := make([][]segment, 0, len(heads)*len(tails))
	for _, head := range heads {
		for _, tail := range tails {
			sequence := make([]segment, 0, len(tail)+1)
			sequence = append(sequence, head)
			sequence = append(sequence, tail...)
			out = append(out, sequence)
		}
	}
	return out, nil
}

func candidates(values []string) []segment {
	segments := make([]segment, len(values))
	for i, value := range values {
		segments[i] = segment{text: value}
	}
	return segments
}

// resolveField returns the candidate values a field reference expands to.
// For updates both the before and the after value qualify, before first,
// deduplicated, so an update that did not change the field yields a single
// branch. Absent or nil values are excluded; an empty result prunes the
// branch.
func resolveField(n *Notification, field string) []string {
	if n.Action.Type == ActionUpdate {
		out := make([]string, 0, 2)
		if v, ok := n.PreviousData[field]; ok && v != nil {
			out = append(out, stringify(v))
		}
		if v, ok := n.Data[field]; ok && v != nil {
			s := stringify(v)
			if len(out) == 0 || out[0] != s {
				out = append(out, s)
			}
		}
		return out
	}

	if v, ok := n.Data[field]; ok && v != nil {
		return []string{stringify(v)}
	}
	return nil
}

// resolveTenant returns the tenant candidate, or nothing for tenant-less
// notifications. A topic requiring tenant context is skipped for events
// without one rather than erroring.
func resolveTenant(n *Notification) []string {
	if n.Tenant == "" {
		return nil
	}
	return []string{n.Tenant}
}

// stringify converts a field value to its topic segment form
func stringify(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case []byte:
		return string(value)
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprint(value)
	}
}
