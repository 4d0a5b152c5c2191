// Package registry implements the content-addressed store of components:
// hooks, skills, prompts, agents, and MCP server records, with atomic
// add/replace/remove, content hashing, and name validation.
package registry

import (
	"regexp"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
	"github.com/pkronstrom/hawk-hooks-sub000/pkg/logger"
)

var log = logger.New("hawk:registry")

// ComponentType is one of the five component kinds the registry stores.
// "command" is accepted as a legacy alias for Prompt but is never returned
// from Type-producing APIs.
type ComponentType string

const (
	Skill  ComponentType = "skills"
	Hook   ComponentType = "hooks"
	Prompt ComponentType = "prompts"
	Agent  ComponentType = "agents"
	MCP    ComponentType = "mcp"
)

// AllTypes lists every component type in the fixed processing order used
// for sync: skills, hooks, prompts, agents, mcp.
var AllTypes = []ComponentType{Skill, Hook, Prompt, Agent, MCP}

// NormalizeType resolves the "command" legacy alias and validates the
// result is a known type.
func NormalizeType(t string) (ComponentType, bool) {
	switch t {
	case string(Skill):
		return Skill, true
	case string(Hook):
		return Hook, true
	case string(Prompt), "command", "commands":
		return Prompt, true
	case string(Agent):
		return Agent, true
	case string(MCP):
		return MCP, true
	default:
		return "", false
	}
}

var nameRe = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9._-]*$`)

// ValidateName enforces a filesystem-safe name: no path separators, no "..".
func ValidateName(name string) error {
	if name == "" {
		return hawkerr.Validationf("component name must not be empty")
	}
	if !nameRe.MatchString(name) {
		return hawkerr.Validationf("invalid component name %q: must match %s", name, nameRe.String())
	}
	// The regex already forbids '/' and '\'; ".." cannot appear as a whole
	// path-separated segment, but guard the literal token too since a name
	// of exactly ".." would otherwise slip past a regex that allows dots.
	if name == ".." || name == "." {
		return hawkerr.Validationf("invalid component name %q", name)
	}
	return nil
}

// Identity is a component's (type, name) key, unique within a registry.
type Identity struct {
	Type ComponentType
	Name string
}
