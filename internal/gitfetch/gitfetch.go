// Package gitfetch is the thin external-collaborator boundary around the
// git binary. The Package Index (internal/pkgindex) only ever talks to a
// Fetcher interface, never to exec.Command directly, so the core's
// update/diff logic can be tested without a real git binary.
package gitfetch

import (
	"context"
	"os/exec"
	"strings"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
)

// Fetcher retrieves the current state of a git-sourced package.
type Fetcher interface {
	// ShallowClone clones url at ref (empty means the default branch) into
	// dir, which must not already exist, and returns the resulting HEAD
	// commit SHA.
	ShallowClone(ctx context.Context, url, ref, dir string) (commit string, err error)
}

// CommandFetcher shells out to the system git binary, bounded by ctx.
// Callers are expected to pass a ctx with a deadline so a hung clone
// cannot stall the caller indefinitely.
type CommandFetcher struct{}

func (CommandFetcher) ShallowClone(ctx context.Context, url, ref, dir string) (string, error) {
	args := []string{"clone", "--depth", "1", "--quiet"}
	if ref != "" {
		args = append(args, "--branch", ref)
	}
	args = append(args, url, dir)

	cmd := exec.CommandContext(ctx, "git", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", hawkerr.Wrap("gitfetch.ShallowClone", errWithOutput(err, out))
	}

	head := exec.CommandContext(ctx, "git", "-C", dir, "rev-parse", "HEAD")
	out, err := head.Output()
	if err != nil {
		return "", hawkerr.Wrap("gitfetch.ShallowClone: rev-parse HEAD", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func errWithOutput(err error, out []byte) error {
	if len(out) == 0 {
		return err
	}
	return &cmdError{err: err, output: strings.TrimSpace(string(out))}
}

type cmdError struct {
	err    error
	output string
}

func (e *cmdError) Error() string { return e.err.Error() + ": " + e.output }
func (e *cmdError) Unwrap() error { return e.err }
