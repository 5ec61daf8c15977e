//go:build e2e
// +build e2e

// pattern: Imperative Shell
// E2E tests for a headless instance driven through discovery and the CLI
// client, on a real filesystem tree.

package e2e

import (
	"errors"
	"testing"

	"skillview/internal/catalog"
	"skillview/internal/instance"
)

func TestServe_DiscoverAndBrowse(t *testing.T) {
	root := SkillsTree(t)
	env := TestEnv(t, root)
	url := StartServer(t, env)
	client := instance.NewClient(url)

	entries, err := client.Skills()
	if err != nil {
		t.Fatalf("Skills: %v", err)
	}
	if got := catalog.Count(entries); got != 5 {
		t.Fatalf("count = %d, want 5", got)
	}
	prd, ok := catalog.Find(entries, "prd-writer")
	if !ok || !prd.HasAuxiliaryFile {
		t.Errorf("prd-writer = %+v, want marker file detected", prd)
	}
	group, ok := catalog.Find(entries, "superpowers")
	if !ok || !group.IsGroup || group.ChildCount() != 2 {
		t.Errorf("superpowers = %+v, want group of 2", group)
	}

	// A new skill shows up on refresh, not before.
	WriteSkill(t, root, "zeta", "Last one.")
	entries, err = client.Refresh()
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if _, ok := catalog.Find(entries, "zeta"); !ok {
		t.Error("refresh should pick up the new skill")
	}
}

func TestServe_UsageCounters(t *testing.T) {
	env := TestEnv(t, SkillsTree(t))
	client := instance.NewClient(StartServer(t, env))

	for want := 1; want <= 2; want++ {
		count, err := client.Use("brainstorming")
		if err != nil {
			t.Fatalf("Use: %v", err)
		}
		if count != want {
			t.Errorf("count = %d, want %d", count, want)
		}
	}

	if _, err := client.Use("missing"); err == nil {
		t.Error("using an unknown skill should fail")
	}

	stats, err := client.Usage()
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	if stats["brainstorming"].Count != 2 {
		t.Errorf("brainstorming = %+v, want count 2", stats["brainstorming"])
	}
	if _, ok := stats["missing"]; ok {
		t.Error("failed use must not create a counter")
	}
}

func TestServe_SecondInstanceRefused(t *testing.T) {
	env := TestEnv(t, SkillsTree(t))
	StartServer(t, env)

	if _, err := instance.Lock(env.DataDir); !errors.Is(err, instance.ErrAlreadyRunning) {
		t.Errorf("Lock = %v, want ErrAlreadyRunning", err)
	}
}

func TestServe_MissingRootIsEmpty(t *testing.T) {
	env := TestEnv(t, t.TempDir()+"/does-not-exist")
	client := instance.NewClient(StartServer(t, env))

	entries, err := client.Skills()
	if err != nil {
		t.Fatalf("Skills: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
}
