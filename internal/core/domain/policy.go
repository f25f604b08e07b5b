package domain

import "strings"

// PolicyMode selects the access algorithm applied to a role.
type PolicyMode string

const (
	// AllowList grants only paths under AllowedRoutes; everything else is denied.
	AllowList PolicyMode = "allow_list"
	// DenyList denies paths under RestrictedRoutes first, then requires a
	// match under AllowedRoutes.
	DenyList PolicyMode = "deny_list"
)

const globalHome = "/"

// RoutePolicy is the static per-role navigation configuration. It is loaded
// once at process start and never mutated.
type RoutePolicy struct {
	Mode             PolicyMode
	AllowedRoutes    []string
	RestrictedRoutes []string
	DefaultRedirect  string
}

// PolicySet maps a role name to its route policy.
type PolicySet map[string]RoutePolicy

// HasAccess reports whether the given role may navigate to path.
// Unknown roles are always denied.
func (ps PolicySet) HasAccess(role, path string) bool {
	p, ok := ps[role]
	if !ok {
		return false
	}

	if p.Mode == DenyList {
		for _, prefix := range p.RestrictedRoutes {
			if underPrefix(path, prefix) {
				return false
			}
		}
	}

	for _, prefix := range p.AllowedRoutes {
		if underPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// DefaultRedirectFor returns the role's landing path, falling back to the
// global home path when the role has no policy entry.
func (ps PolicySet) DefaultRedirectFor(role string) string {
	p, ok := ps[role]
	if !ok || p.DefaultRedirect == "" {
		return globalHome
	}
	return p.DefaultRedirect
}

// underPrefix matches path against a route prefix at segment boundaries:
// "/settings/params" covers "/settings/params" and "/settings/params/history"
// but never "/settings/params-extra".
func underPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return path[len(prefix)] == '/'
}

// DefaultPolicySet is the built-in role table: ADMIN is a closed-world
// administrative role, EMPRESA a general operating role with restricted areas.
func DefaultPolicySet() PolicySet {
	return PolicySet{
		RoleAdmin: {
			Mode: AllowList,
			AllowedRoutes: []string{
				"/",
				"/settings/my-account",
				"/settings/users",
				"/settings/params",
			},
			DefaultRedirect: "/",
		},
		RoleEmpresa: {
			Mode: DenyList,
			AllowedRoutes: []string{
				"/",
				"/products",
				"/categories",
				"/inventory",
				"/settings",
			},
			RestrictedRoutes: []string{
				"/settings/users",
			},
			DefaultRedirect: "/",
		},
	}
}
