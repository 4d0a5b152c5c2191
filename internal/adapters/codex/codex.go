// Package codex implements the Codex CLI adapter: skills and agents are
// symlinked; MCP servers are merged into config.toml's [mcp_servers] table
// via BurntSushi/toml's struct/map marshal path; Codex's single "notify"
// hook (its only event integration point) is spliced into the generated
// TOML text directly, escaped with tomlstring, since that path is authored
// as raw source text rather than round-tripped through the encoder.
package codex

import (
	"bytes"
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/adapters/base"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/adapters/mcpmerge"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/adapters/tomlstring"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/scope"
	hawksync "github.com/pkronstrom/hawk-hooks-sub000/internal/sync"
)

const ToolID = "codex"

var eventSupport = map[string]base.EventSupport{
	"notification": base.Native,
}

type Adapter struct{}

func New() *Adapter { return &Adapter{} }

func (a *Adapter) ToolID() string      { return ToolID }
func (a *Adapter) DisplayName() string { return "Codex CLI" }

func (a *Adapter) GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", hawkerr.Wrap("codex.GlobalDir", err)
	}
	return filepath.Join(home, ".codex"), nil
}

func (a *Adapter) ProjectMarker() string { return ".codex" }

func (a *Adapter) CapabilityFingerprint() []byte {
	h := sha256.New()
	h.Write([]byte("mcp:toml notify:1 skills:1 agents:1"))
	return h.Sum(nil)
}

func baseDir(sc hawksync.Scope) (string, error) {
	if sc.Global {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", hawkerr.Wrap("codex.baseDir", err)
		}
		return filepath.Join(home, ".codex"), nil
	}
	return filepath.Join(sc.Dir, ".codex"), nil
}

func (a *Adapter) Destination(t registry.ComponentType, sc hawksync.Scope) (string, error) {
	root, err := baseDir(sc)
	if err != nil {
		return "", err
	}
	switch t {
	case registry.Skill:
		return filepath.Join(root, "skills"), nil
	case registry.Agent:
		return filepath.Join(root, "agents"), nil
	default:
		return root, nil
	}
}

func readTOMLDoc(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, hawkerr.Wrap("codex.readTOMLDoc", err)
	}
	var doc map[string]any
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, hawkerr.Validationf("%s: malformed TOML: %v", path, err)
	}
	return doc, nil
}

func writeTOMLDoc(path string, doc map[string]any, notifyPath string) error {
	// Only hawk's own notify projection is managed here; when hawk has no
	// notification hook to project, leave whatever "notify" key the user
	// authored in config.toml untouched.
	if notifyPath != "" {
		delete(doc, "notify")
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return hawkerr.Wrap("codex.writeTOMLDoc: encode", err)
	}
	if notifyPath != "" {
		buf.WriteString("notify = ")
		buf.WriteString(tomlstring.Quote(notifyPath))
		buf.WriteString("\n")
	}

	tmp := path + ".hawk-stage"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return hawkerr.Wrap("codex.writeTOMLDoc: write", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return hawkerr.Wrap("codex.writeTOMLDoc: rename", err)
	}
	return nil
}

func (a *Adapter) Sync(state scope.ResolvedState, sc hawksync.Scope, reg *registry.Registry) (hawksync.Result, error) {
	var result hawksync.Result
	root, err := baseDir(sc)
	if err != nil {
		return result, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return result, hawkerr.Wrap("codex.Sync", err)
	}

	skillDest, err := a.Destination(registry.Skill, sc)
	if err != nil {
		return result, err
	}
	r, err := base.SyncSymlinks(skillDest, reg, registry.Skill, state.ComponentPlan(registry.Skill))
	if err != nil {
		return result, err
	}
	result.Merge(r)

	runnersDir := filepath.Join(root, "hawk-runners")
	registered, r, err := base.SyncHooks(runnersDir, state.ComponentPlan(registry.Hook), reg, nil, eventSupport)
	if err != nil {
		return result, err
	}
	result.Merge(r)

	var notifyPath string
	for _, ev := range registered {
		if ev == "notification" {
			notifyPath = filepath.Join(runnersDir, "notification.sh")
		}
	}

	agentDest, err := a.Destination(registry.Agent, sc)
	if err != nil {
		return result, err
	}
	r, err = base.SyncSymlinks(agentDest, reg, registry.Agent, state.ComponentPlan(registry.Agent))
	if err != nil {
		return result, err
	}
	result.Merge(r)

	configPath := filepath.Join(root, "config.toml")
	doc, err := readTOMLDoc(configPath)
	if err != nil {
		return result, err
	}

	desired, probeResult := base.DesiredMCPServers(context.Background(), reg, state.ComponentPlan(registry.MCP))
	result.Merge(probeResult)

	merged, linked, unlinked, err := mcpmerge.Merge(doc, "mcp_servers", desired)
	if err != nil {
		if hawkerr.IsConflict(err) {
			result.Errors = append(result.Errors, hawksync.Diagnostic{Target: "mcp_servers", Reason: err.Error()})
			return result, nil
		}
		return result, err
	}

	if err := writeTOMLDoc(configPath, merged, notifyPath); err != nil {
		return result, err
	}
	result.Linked = append(result.Linked, linked...)
	result.Unlinked = append(result.Unlinked, unlinked...)

	return result, nil
}
