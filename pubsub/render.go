package pubsub

import "strings"

// delimiter joins topic segments and separates the prefix from the rest
const delimiter = ":"

// renderTopics flattens each segment sequence into a topic string: omitted
// segments are dropped, the rest joined with the delimiter, the prefix
// prepended when configured. Distinct branch combinations may render to the
// same string (an unchanged update field, two alternatives resolving
// equal), so the result is deduplicated, preserving first-seen order.
func renderTopics(sequences [][]segment, prefix string) []string {
	seen := make(map[string]struct{}, len(sequences))
	topics := make([]string, 0, len(sequences))

	for _, sequence := range sequences {
		parts := make([]string, 0, len(sequence)+1)
		if prefix != "" {
			parts = append(parts, prefix)
		}
		for _, seg := range sequence {
			if seg.omit {
				continue
			}
			parts = append(parts, seg.text)
		}

		topic := strings.Join(parts, delimiter)
		if _, dup := seen[topic]; dup {
			continue
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}

	return topics
}

// joinPrefix prepends the prefix to a topic suffix. An empty prefix adds no
// delimiter, matching the single-literal fast path.
func joinPrefix(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	return prefix + delimiter + suffix
}
