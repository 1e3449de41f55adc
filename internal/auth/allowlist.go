package auth

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPublicPatterns lists the routes reachable without a bearer token.
// "*" matches one path segment, "**" matches any number of segments.
var DefaultPublicPatterns = []string{
	// auth
	"/api/auth/register",
	"/api/auth/login",
	"/api/auth/reissue",

	// users
	"/api/users/profiles/*",

	// teams
	"/api/teams/recruiting",
	"/api/teams/contest/*",

	// contests
	"/api/contests/search",
	"/api/contests/categories",
	"/api/contests/detail",
	"/api/contests/main-recommendation",

	// reviews
	"/api/reviews/non-user",
	"/api/reviews/non-user/check/*",

	"/",
	"/api/health",
	"/api/s3/upload",
	"/v3/api-docs/**",
	"/swagger-ui/**",
}

// Allowlist is an ordered, immutable set of public path patterns.
// It is safe for concurrent use.
type Allowlist struct {
	patterns []string
}

// NewAllowlist validates and stores patterns in order. Duplicates after the
// first occurrence are dropped.
func NewAllowlist(patterns ...string) (*Allowlist, error) {
	seen := make(map[string]struct{}, len(patterns))
	kept := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid allowlist pattern %q", p)
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		kept = append(kept, p)
	}
	return &Allowlist{patterns: kept}, nil
}

// Patterns returns a copy of the configured patterns in evaluation order.
func (a *Allowlist) Patterns() []string {
	return append([]string(nil), a.patterns...)
}

// Match reports the first pattern that matches path.
func (a *Allowlist) Match(path string) (string, bool) {
	if a == nil {
		return "", false
	}
	for _, p := range a.patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return p, true
		}
	}
	return "", false
}
