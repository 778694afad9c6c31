package navmenu

import "github.com/jrsteele09/go-condo-console/identity"

// Entry is one navigation item. Target is the route it opens; grouping
// headers have children and no target. RequiredRole gates visibility,
// with the administrator override from the identity package.
type Entry struct {
	Title        string
	Target       string
	RequiredRole string
	Children     []Entry
}

// Filter returns the subset of entries visible to ident, applied
// recursively. Rules:
//   - an entry with no role requirement is always eligible;
//   - a gated entry survives only if the identity satisfies its role
//     (nil identity satisfies nothing);
//   - after filtering children, an entry with no surviving children is
//     kept only if it is itself navigable (has a target).
//
// The input is never mutated and the function is idempotent: filtering
// an already-filtered tree changes nothing.
func Filter(entries []Entry, ident *identity.Identity) []Entry {
	if len(entries) == 0 {
		return nil
	}

	kept := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.RequiredRole != "" {
			if ident == nil || !ident.SatisfiesRole(entry.RequiredRole) {
				continue
			}
		}

		children := Filter(entry.Children, ident)
		if len(children) == 0 && entry.Target == "" {
			continue
		}

		entry.Children = children
		kept = append(kept, entry)
	}

	if len(kept) == 0 {
		return nil
	}
	return kept
}
