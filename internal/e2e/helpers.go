//go:build e2e
// +build e2e

package e2e

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"skillview/internal/cli"
	"skillview/internal/config"
	"skillview/internal/instance"
	"skillview/internal/logging"
	"skillview/internal/present"
	"skillview/internal/tui"
	"skillview/internal/web"
)

// WriteSkill creates root/rel/SKILL.md with body.
func WriteSkill(t *testing.T, root, rel, body string) {
	t.Helper()
	dir := filepath.Join(root, rel)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create %s: %v", rel, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s/SKILL.md: %v", rel, err)
	}
}

// SkillsTree creates a skills root with two top-level skills and one group
// of two.
func SkillsTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	WriteSkill(t, root, "my-tool", "# My Tool\nDoes useful things.")
	WriteSkill(t, root, "prd-writer", "Writes product requirement documents.")
	WriteSkill(t, root, "superpowers/brainstorming", "Turns ideas into designs.")
	WriteSkill(t, root, "superpowers/writing-plans", "Writes implementation plans.")
	if err := os.WriteFile(filepath.Join(root, "prd-writer.skill"), nil, 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}
	return root
}

// TestEnv returns an environment rooted at skillsDir with its own data dir.
func TestEnv(t *testing.T, skillsDir string) *cli.Env {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Language = "en"
	return &cli.Env{
		Config:    cfg,
		DataDir:   t.TempDir(),
		SkillsDir: skillsDir,
		Overrides: present.BuiltinOverrides(),
		Stdout:    io.Discard,
		Stderr:    io.Discard,
	}
}

// TestLogManager returns a channel-only log manager closed at test end.
func TestLogManager(t *testing.T) *logging.TestLogManager {
	t.Helper()
	lm := logging.NewTestLogManager(1000)
	t.Cleanup(func() { _ = lm.Close() })
	return lm
}

// StartServer runs cli.Serve on an ephemeral loopback port and returns its
// base URL once the instance is discoverable.
func StartServer(t *testing.T, env *cli.Env) string {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- cli.Serve(ctx, env, web.Config{Bind: "127.0.0.1", Port: 0})
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("serve: %v", err)
			}
		case <-time.After(10 * time.Second):
			t.Error("serve did not stop")
		}
	})

	// The lock is taken before the port file is written, so early attempts
	// may fail either way.
	var lastErr error
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		url, err := instance.Discover(env.DataDir)
		if err == nil {
			return url
		}
		lastErr = err
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("server did not become discoverable: %v", lastErr)
	return ""
}

// TUITestRunner helps drive the TUI through Update() calls for testing.
type TUITestRunner struct {
	t     *testing.T
	model tui.Model
}

// NewTUITestRunner creates a new test runner with the given model.
func NewTUITestRunner(t *testing.T, model tui.Model) *TUITestRunner {
	return &TUITestRunner{
		t:     t,
		model: model,
	}
}

// Model returns the current model state.
func (r *TUITestRunner) Model() tui.Model {
	return r.model
}

// Init runs the Init command and processes results.
func (r *TUITestRunner) Init() {
	r.t.Helper()
	r.runCmd(r.model.Init())
}

// Send delivers msg as if it came from the program.
func (r *TUITestRunner) Send(msg tea.Msg) {
	r.t.Helper()
	model, cmd := r.model.Update(msg)
	r.model = model.(tui.Model)
	r.runCmd(cmd)
}

// PressKey simulates pressing a regular key.
func (r *TUITestRunner) PressKey(key rune) {
	r.t.Helper()
	r.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{key}})
}

// PressSpecialKey simulates pressing a special key like Enter or Esc.
func (r *TUITestRunner) PressSpecialKey(keyType tea.KeyType) {
	r.t.Helper()
	r.Send(tea.KeyMsg{Type: keyType})
}

// SendWindowSize sends a window size message.
func (r *TUITestRunner) SendWindowSize(width, height int) {
	r.t.Helper()
	r.Send(tea.WindowSizeMsg{Width: width, Height: height})
}

// WaitForSkillCount refreshes until the model shows expected entries.
func (r *TUITestRunner) WaitForSkillCount(expected int, timeout time.Duration) bool {
	r.t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if r.model.SkillCount() == expected {
			return true
		}
		r.PressKey('r')
		time.Sleep(100 * time.Millisecond)
	}
	return false
}

// runCmd executes a Bubbletea command and processes its result.
func (r *TUITestRunner) runCmd(cmd tea.Cmd) {
	r.runCmdWithDepth(cmd, 0)
}

// runCmdWithDepth executes a command with depth tracking to prevent infinite recursion.
func (r *TUITestRunner) runCmdWithDepth(cmd tea.Cmd, depth int) {
	if cmd == nil || depth > 10 {
		return
	}

	msg := cmd()
	if msg == nil {
		return
	}

	// Handle batch messages (result of tea.Batch)
	if batchMsg, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batchMsg {
			if c != nil {
				r.runCmdWithDepth(c, depth+1)
			}
		}
		return
	}

	// Skip quit messages
	if _, ok := msg.(tea.QuitMsg); ok {
		return
	}

	model, nextCmd := r.model.Update(msg)
	r.model = model.(tui.Model)

	r.runCmdWithDepth(nextCmd, depth+1)
}
