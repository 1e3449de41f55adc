package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowlist_DefaultPatterns(t *testing.T) {
	allowlist, err := NewAllowlist(DefaultPublicPatterns...)
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		allowed bool
		pattern string
	}{
		{name: "register", path: "/api/auth/register", allowed: true, pattern: "/api/auth/register"},
		{name: "reissue", path: "/api/auth/reissue", allowed: true, pattern: "/api/auth/reissue"},
		{name: "health", path: "/api/health", allowed: true, pattern: "/api/health"},
		{name: "root", path: "/", allowed: true, pattern: "/"},
		{name: "profile by id", path: "/api/users/profiles/42", allowed: true, pattern: "/api/users/profiles/*"},
		{name: "single star stops at segment", path: "/api/users/profiles/42/awards", allowed: false},
		{name: "teams by contest", path: "/api/teams/contest/abc", allowed: true, pattern: "/api/teams/contest/*"},
		{name: "non-user review check", path: "/api/reviews/non-user/check/7", allowed: true, pattern: "/api/reviews/non-user/check/*"},
		{name: "api docs nested", path: "/v3/api-docs/swagger-config", allowed: true, pattern: "/v3/api-docs/**"},
		{name: "swagger deep", path: "/swagger-ui/dist/index.html", allowed: true, pattern: "/swagger-ui/**"},
		{name: "me requires auth", path: "/api/users/me", allowed: false},
		{name: "team detail requires auth", path: "/api/teams/12", allowed: false},
		{name: "prefix is not enough", path: "/api/auth/register/extra", allowed: false},
		{name: "logout requires auth", path: "/api/auth/logout", allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern, ok := allowlist.Match(tt.path)
			assert.Equal(t, tt.allowed, ok)
			if tt.allowed {
				assert.Equal(t, tt.pattern, pattern)
			}
		})
	}
}

func TestAllowlist_FirstMatchWins(t *testing.T) {
	allowlist, err := NewAllowlist("/api/**", "/api/health")
	require.NoError(t, err)

	pattern, ok := allowlist.Match("/api/health")
	assert.True(t, ok)
	assert.Equal(t, "/api/**", pattern)
}

func TestAllowlist_DropsDuplicates(t *testing.T) {
	allowlist, err := NewAllowlist("/v3/api-docs/**", "/v3/api-docs/**", "/swagger-ui/**", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"/v3/api-docs/**", "/swagger-ui/**"}, allowlist.Patterns())
}

func TestAllowlist_RejectsInvalidPattern(t *testing.T) {
	_, err := NewAllowlist("/api/[unclosed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid allowlist pattern")
}

func TestAllowlist_NilMatchesNothing(t *testing.T) {
	var allowlist *Allowlist
	_, ok := allowlist.Match("/api/health")
	assert.False(t, ok)
}
