// Package permissions answers whether a set of roles may perform an action on a
// resource. Rules are loaded once at startup and never change afterwards.
package permissions

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tallymatic/tallymatic-api/types"
)

// Rules maps role -> resource -> granted actions.
//
// The empty role "" grants actions to principals that carry no role at all.
type Rules map[string]map[types.Resource][]types.Action

// DefaultRules grants admins every action on every resource and gives plain users
// read access to the catalog.
func DefaultRules() Rules {
	admin := make(map[types.Resource][]types.Action, len(types.AllResources))
	for _, resource := range types.AllResources {
		admin[resource] = append([]types.Action(nil), types.AllActions...)
	}

	readOnly := []types.Action{types.ActionList, types.ActionRead}
	user := map[types.Resource][]types.Action{
		types.ResourceProducts:        readOnly,
		types.ResourceProductTypes:    readOnly,
		types.ResourceProductOptions:  readOnly,
		types.ResourceProductVariants: readOnly,
		types.ResourceStores:          readOnly,
		types.ResourceInventoryItems:  readOnly,
	}

	return Rules{
		string(types.RoleAdmin): admin,
		string(types.RoleUser):  user,
	}
}

// rulesFile is the on-disk layout:
//
//	roles:
//	  admin:
//	    users: [create, list, read, update, delete]
type rulesFile struct {
	Roles Rules `yaml:"roles"`
}

// LoadRules reads a YAML rules file. Unknown actions or resources are rejected so a
// typo cannot silently widen or narrow access.
func LoadRules(path string) (Rules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read permission rules %s: %w", path, err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse permission rules %s: %w", path, err)
	}
	if len(file.Roles) == 0 {
		return nil, fmt.Errorf("permission rules %s define no roles", path)
	}

	for role, grants := range file.Roles {
		for resource, actions := range grants {
			if !resource.IsValid() {
				return nil, fmt.Errorf("role %q: unknown resource %q", role, resource)
			}
			for _, action := range actions {
				if !action.IsValid() {
					return nil, fmt.Errorf("role %q: unknown action %q on %s", role, action, resource)
				}
			}
		}
	}
	return file.Roles, nil
}
