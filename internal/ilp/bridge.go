// Package ilp bridges the planner to an external integer-linear-
// programming solver: it writes a `.dat` data file and a `.run`
// driver file into a fresh per-invocation working directory, spawns
// the configured solver binary, and hands back the raw stdout for the
// caller to parse into a domain-specific result.
//
// The adapter shape (translate domain state -> external wire format
// -> invoke external process -> translate response back) is grounded
// on the teacher's internal/bridge/field_bridge.go boundary pattern;
// the concrete file formats and subprocess protocol are grounded on
// original_source's algorithm/assignment/makespan_single_vehicle_ilp
// and algorithm/path/ilp modules, with their hard-coded absolute
// paths replaced by configuration (spec section 6).
package ilp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
)

// Settings configures where the solver binary and model file live.
// No absolute path is ever hard-coded in code; both are supplied by
// the caller (ultimately sourced from internal/config.Settings).
type Settings struct {
	SolverPath string
	ModelPath  string
	// WorkDir is the parent directory under which per-invocation
	// working directories are created. Defaults to os.TempDir() when
	// empty.
	WorkDir string
}

// Bridge drives one external-solver round trip.
type Bridge struct {
	Settings Settings
}

// NewBridge constructs a Bridge from Settings.
func NewBridge(settings Settings) *Bridge {
	return &Bridge{Settings: settings}
}

// WorkingDirectory creates a fresh, collision-free temporary
// directory for one solver invocation, naming it with a uuid so that
// concurrent per-robot TSP solves (spec section 5) never collide --
// unlike the original Rust code's single fixed WORKING_DIRECTORY
// constant, which cannot be reused by more than one concurrent solve.
func (b *Bridge) WorkingDirectory(label string) (string, error) {
	parent := b.Settings.WorkDir
	if parent == "" {
		parent = os.TempDir()
	}
	dir := filepath.Join(parent, fmt.Sprintf("warehousesim-ilp-%s-%s", label, uuid.New().String()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ilp: create working directory: %w", err)
	}
	return dir, nil
}

// WriteFile writes content to name within dir.
func (b *Bridge) WriteFile(dir, name, content string) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("ilp: write %s: %w", name, err)
	}
	return path, nil
}

// Run spawns the configured solver binary against runFilePath and
// returns its captured stdout. The context's deadline is the wall-
// clock budget spec section 5 requires; on expiry or non-zero exit it
// returns an error. pathengine.ILPHorizon fails the step on that error
// (see DESIGN.md Open Question 3); the assignment ILP variants instead
// fall back to the greedy-makespan result.
func (b *Bridge) Run(ctx context.Context, runFilePath string) ([]byte, error) {
	if b.Settings.SolverPath == "" {
		return nil, fmt.Errorf("ilp: no solver binary configured")
	}
	cmd := exec.CommandContext(ctx, b.Settings.SolverPath, runFilePath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("ilp: solver timed out: %w", ctx.Err())
		}
		return nil, fmt.Errorf("ilp: solver failed: %w (stderr: %s)", err, stderr.String())
	}
	return stdout.Bytes(), nil
}
