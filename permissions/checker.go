package permissions

import "github.com/tallymatic/tallymatic-api/types"

type grant struct {
	role     string
	resource types.Resource
	action   types.Action
}

// Checker is an immutable permission table. The zero value and a nil *Checker deny
// everything.
type Checker struct {
	grants map[grant]struct{}
}

// NewChecker copies rules into a lookup table. Later changes to rules do not affect
// the checker.
func NewChecker(rules Rules) *Checker {
	grants := make(map[grant]struct{})
	for role, resources := range rules {
		for resource, actions := range resources {
			for _, action := range actions {
				grants[grant{role: role, resource: resource, action: action}] = struct{}{}
			}
		}
	}
	return &Checker{grants: grants}
}

// CheckPermissions reports whether any of roles is granted action on resource.
// Identifiers are compared exactly. A principal without roles is only allowed what
// the empty role grants.
func (c *Checker) CheckPermissions(roles []string, action types.Action, resource types.Resource) bool {
	if c == nil || len(c.grants) == 0 {
		return false
	}
	if len(roles) == 0 {
		return c.allowed("", action, resource)
	}
	for _, role := range roles {
		if c.allowed(role, action, resource) {
			return true
		}
	}
	return false
}

func (c *Checker) allowed(role string, action types.Action, resource types.Resource) bool {
	_, ok := c.grants[grant{role: role, resource: resource, action: action}]
	return ok
}
