package pubsub

import (
	"fmt"

	"github.com/gobwas/glob"
)

// ResourceFilter matches notification resource types using glob patterns
type ResourceFilter struct {
	patterns []string
	globs    []glob.Glob
}

// NewResourceFilter compiles a filter from glob patterns. An empty pattern
// list matches every resource type.
func NewResourceFilter(patterns ...string) (*ResourceFilter, error) {
	filter := &ResourceFilter{
		patterns: patterns,
		globs:    make([]glob.Glob, 0, len(patterns)),
	}

	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid resource pattern %q: %w", pattern, err)
		}
		filter.globs = append(filter.globs, g)
	}

	return filter, nil
}

// Match returns true if the resource type matches any configured pattern.
// If no patterns are configured, all resource types match.
func (f *ResourceFilter) Match(resource string) bool {
	if len(f.globs) == 0 {
		return true
	}
	for _, g := range f.globs {
		if g.Match(resource) {
			return true
		}
	}
	return false
}

// Patterns returns the source patterns the filter was compiled from
func (f *ResourceFilter) Patterns() []string {
	return f.patterns
}
