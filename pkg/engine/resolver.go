package engine

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/strato-sh/strato/pkg/cli/format"
)

// Resolver expands glob-style name patterns into registered cluster names.
type Resolver struct {
	registry Registry
	local    LocalClassifier
	out      io.Writer
}

// NewResolver creates a resolver over the given registry.
func NewResolver(registry Registry, local LocalClassifier, out io.Writer) *Resolver {
	return &Resolver{registry: registry, local: local, out: out}
}

// Resolve returns the registered names matching at least one pattern,
// de-duplicated in first-seen order. Patterns that match nothing, or that
// are malformed, emit a user-visible notice unless silent is set;
// resolution of the remaining patterns continues regardless.
func (r *Resolver) Resolve(ctx context.Context, patterns []string, silent bool) ([]string, error) {
	refs, err := r.registry.ListClusters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}
	registered := make([]string, 0, len(refs))
	for _, ref := range refs {
		registered = append(registered, ref.Name)
	}

	seen := map[string]bool{}
	var resolved []string
	for _, pattern := range patterns {
		// A malformed pattern only affects itself; the remaining
		// patterns still resolve.
		if !validPattern(pattern) {
			if !silent {
				fmt.Fprintf(r.out, "Invalid cluster name pattern %s, skipping it.\n", pattern)
			}
			continue
		}
		matched := 0
		for _, name := range registered {
			ok, err := path.Match(pattern, name)
			if err != nil {
				continue
			}
			if !ok {
				continue
			}
			matched++
			if !seen[name] {
				seen[name] = true
				resolved = append(resolved, name)
			}
		}
		if matched == 0 && !silent {
			if r.local != nil && r.local.IsLocal(pattern) {
				fmt.Fprintf(r.out, "Local cluster %s is not initialized; run %s first.\n",
					pattern, format.Highlight("strato launch %s", pattern))
			} else {
				fmt.Fprintf(r.out, "Cluster %s not found.\n", pattern)
			}
		}
	}
	return resolved, nil
}

// validPattern reports whether pattern is well formed. path.Match
// checks pattern syntax even when the name does not match, so the
// empty name works as a pure syntax check.
func validPattern(pattern string) bool {
	_, err := path.Match(pattern, "")
	return err == nil
}

// AllNames returns every registered cluster name.
func (r *Resolver) AllNames(ctx context.Context) ([]string, error) {
	refs, err := r.registry.ListClusters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	return names, nil
}
