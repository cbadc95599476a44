package models

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Role is the semantic category of a prompt. The build wizard groups
// candidates by role; Whole prompts are complete on their own and never
// take part in composition.
type Role int

const (
	RoleWhole Role = iota
	RoleInstruction
	RoleContext
	RoleInputIndicator
	RoleOutputIndicator
	RoleEtc
)

// roleRing is the cycling order used by selectors. Next and Prev walk it
// with modular arithmetic so the two directions always stay inverses.
var roleRing = []Role{
	RoleInstruction,
	RoleContext,
	RoleInputIndicator,
	RoleOutputIndicator,
	RoleEtc,
	RoleWhole,
}

var roleNames = map[Role]string{
	RoleWhole:           "whole",
	RoleInstruction:     "instruction",
	RoleContext:         "context",
	RoleInputIndicator:  "input_indicator",
	RoleOutputIndicator: "output_indicator",
	RoleEtc:             "etc",
}

var roleLabels = map[Role]string{
	RoleWhole:           "Whole",
	RoleInstruction:     "Instruction",
	RoleContext:         "Context",
	RoleInputIndicator:  "Input indicator",
	RoleOutputIndicator: "Output indicator",
	RoleEtc:             "Etc",
}

// Roles returns every role in ring order.
func Roles() []Role {
	out := make([]Role, len(roleRing))
	copy(out, roleRing)
	return out
}

// ComposeRoles returns the roles that take part in composition, in the
// order their content is concatenated.
func ComposeRoles() []Role {
	out := make([]Role, 0, len(roleRing)-1)
	for _, r := range roleRing {
		if r != RoleWhole {
			out = append(out, r)
		}
	}
	return out
}

// String returns the storage name of the role.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return roleNames[RoleWhole]
}

// Label returns the human readable name of the role.
func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return roleLabels[RoleWhole]
}

// Composable reports whether prompts of this role can be picked by the
// build wizard.
func (r Role) Composable() bool {
	return r != RoleWhole
}

func (r Role) ringIndex() int {
	for i, candidate := range roleRing {
		if candidate == r {
			return i
		}
	}
	return len(roleRing) - 1
}

// Next returns the following role in the ring, wrapping around.
func (r Role) Next() Role {
	return roleRing[(r.ringIndex()+1)%len(roleRing)]
}

// Prev returns the preceding role in the ring, wrapping around.
func (r Role) Prev() Role {
	n := len(roleRing)
	return roleRing[(r.ringIndex()-1+n)%n]
}

// ParseRole maps a stored role name to a Role. Separators and case are
// ignored so "Input-Indicator" and "inputindicator" both parse.
func ParseRole(s string) (Role, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("_", "", "-", "", " ", "").Replace(normalized)
	if normalized == "" {
		return RoleWhole, true
	}
	for role, name := range roleNames {
		if strings.ReplaceAll(name, "_", "") == normalized {
			return role, true
		}
	}
	return RoleWhole, false
}

// MarshalYAML writes the role by name.
func (r Role) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

// UnmarshalYAML reads a role by name. Unknown names fall back to Whole.
func (r *Role) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("role must be a scalar, got %v", value.Tag)
	}
	role, _ := ParseRole(value.Value)
	*r = role
	return nil
}
