// pattern: Imperative Shell
package cli

import (
	"errors"
	"fmt"

	"skillview/internal/catalog"
	"skillview/internal/instance"
	"skillview/internal/logging"
	"skillview/internal/present"
	"skillview/internal/usage"
)

// runner carries the injectable pieces shared by every command.
type runner struct {
	opts     Options
	version  string
	loadEnv  func(Options) (*Env, error)
	discover func(dataDir string) (string, error)
}

// BuildApp creates and configures the CLI application with all commands.
func BuildApp(version string, opts Options) *App {
	return buildApp(&runner{
		opts:     opts,
		version:  version,
		loadEnv:  LoadEnv,
		discover: instance.Discover,
	})
}

func buildApp(r *runner) *App {
	app := NewApp(r.version)

	app.AddCommand(&Command{
		Name:    "list",
		Summary: "Print the skill catalog as a tree (or JSON)",
		Usage:   "Usage: skillview list [--json] [-l/--lang zh|en]",
		Run:     r.runList,
	})

	app.AddCommand(&Command{
		Name:    "show",
		Summary: "Print details of one skill",
		Usage:   "Usage: skillview show <id> [--json] [-l/--lang zh|en]",
		Run:     r.runShow,
	})

	app.AddCommand(&Command{
		Name:    "use",
		Summary: "Record one use of a skill",
		Usage:   "Usage: skillview use <id>",
		Run:     r.runUse,
	})

	app.AddCommand(&Command{
		Name:    "usage",
		Summary: "Print usage counters, most used first",
		Usage:   "Usage: skillview usage [--json]",
		Run:     r.runUsage,
	})

	app.AddCommand(&Command{
		Name:    "refresh",
		Summary: "Ask the running instance to rescan (requires running instance)",
		Usage:   "Usage: skillview refresh",
		Run:     r.runRefresh,
	})

	app.AddCommand(&Command{
		Name:    "serve",
		Summary: "Serve the catalog API without the TUI",
		Usage:   "Usage: skillview serve [--bind 127.0.0.1] [-p/--port 0]",
		Run:     r.runServe,
	})

	app.AddCommand(&Command{
		Name:    "cleanup",
		Summary: "Remove stale lock/port files from a crashed instance",
		Usage:   "Usage: skillview cleanup",
		Run:     r.runCleanup,
	})

	app.AddCommand(&Command{
		Name:    "version",
		Summary: "Print version and exit",
		Usage:   "Usage: skillview version",
		Run: func(args []string) error {
			fmt.Println(r.version)
			return nil
		},
	})

	return app
}

// withLogs runs fn with a log manager that mirrors to stderr, so scan
// problems are visible to the person running the command.
func withLogs(env *Env, fn func(logging.LoggerProvider) error) error {
	lm, err := env.NewLogManager(env.Stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = lm.Close() }()
	return fn(lm)
}

func (r *runner) runList(args []string) error {
	fs := newFlagSet("list")
	asJSON := fs.Bool("json", false, "print JSON")
	lang := fs.StringP("lang", "l", "", "display language (zh or en)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	env, err := r.loadEnv(r.opts)
	if err != nil {
		return err
	}
	p, err := env.Presenter(*lang)
	if err != nil {
		return err
	}

	return withLogs(env, func(lp logging.LoggerProvider) error {
		entries := env.Scanner(lp.For("catalog")).Scan()
		if *asJSON {
			return WriteJSON(env.Stdout, entries)
		}

		stats := usage.Stats{}
		if store, err := env.OpenUsage(lp.For("usage")); err == nil {
			if all, err := store.All(); err == nil {
				stats = all
			}
		}
		RenderTree(env.Stdout, entries, p, stats, terminalWidth(env.Stdout))
		return nil
	})
}

func (r *runner) runShow(args []string) error {
	fs := newFlagSet("show")
	asJSON := fs.Bool("json", false, "print JSON")
	lang := fs.StringP("lang", "l", "", "display language (zh or en)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: skillview show <id>")
	}
	id := fs.Arg(0)

	env, err := r.loadEnv(r.opts)
	if err != nil {
		return err
	}
	p, err := env.Presenter(*lang)
	if err != nil {
		return err
	}

	return withLogs(env, func(lp logging.LoggerProvider) error {
		entry, ok := catalog.Find(env.Scanner(lp.For("catalog")).Scan(), id)
		if !ok {
			return fmt.Errorf("skill %q not found in %s", id, env.SkillsDir)
		}
		if *asJSON {
			return WriteJSON(env.Stdout, p.Localize(entry))
		}

		var rec usage.Record
		if store, err := env.OpenUsage(lp.For("usage")); err == nil {
			rec, _ = store.Get(id)
		}
		RenderDetail(env.Stdout, entry, p, rec, terminalWidth(env.Stdout))
		return nil
	})
}

// runUse goes through the running instance when there is one, so its TUI
// and subscribers see the change; otherwise it updates the store directly.
func (r *runner) runUse(args []string) error {
	fs := newFlagSet("use")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: skillview use <id>")
	}
	id := fs.Arg(0)

	env, err := r.loadEnv(r.opts)
	if err != nil {
		return err
	}

	baseURL, err := r.discover(env.DataDir)
	switch {
	case err == nil:
		count, err := instance.NewClient(baseURL).Use(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, "%s: %d\n", id, count)
		return nil
	case !errors.Is(err, instance.ErrNotRunning):
		return err
	}

	return withLogs(env, func(lp logging.LoggerProvider) error {
		if _, ok := catalog.Find(env.Scanner(lp.For("catalog")).Scan(), id); !ok {
			return fmt.Errorf("skill %q not found in %s", id, env.SkillsDir)
		}
		store, err := env.OpenUsage(lp.For("usage"))
		if err != nil {
			return err
		}
		rec, err := store.Increment(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, "%s: %d\n", id, rec.Count)
		return nil
	})
}

func (r *runner) runUsage(args []string) error {
	fs := newFlagSet("usage")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	env, err := r.loadEnv(r.opts)
	if err != nil {
		return err
	}
	store, err := env.OpenUsage(logging.NopLogger())
	if err != nil {
		return err
	}
	stats, err := store.All()
	if err != nil {
		return err
	}

	if *asJSON {
		return WriteJSON(env.Stdout, stats.Rank())
	}
	RenderUsage(env.Stdout, stats)
	return nil
}

func (r *runner) runRefresh(args []string) error {
	fs := newFlagSet("refresh")
	if err := fs.Parse(args); err != nil {
		return err
	}

	env, err := r.loadEnv(r.opts)
	if err != nil {
		return err
	}
	p, err := env.Presenter("")
	if err != nil {
		return err
	}

	d := Delegate{DataDir: env.DataDir, Discover: r.discover}
	return d.Run(func(client *instance.Client) error {
		entries, err := client.Refresh()
		if err != nil {
			return err
		}
		fmt.Fprintln(env.Stdout, p.T(present.KeyTotalSkills, catalog.Count(entries)))
		return nil
	})
}

// runCleanup removes stale lock and port files from a crashed instance.
func (r *runner) runCleanup(args []string) error {
	env, err := r.loadEnv(r.opts)
	if err != nil {
		return err
	}

	removed, err := instance.RemoveStale(env.DataDir)
	if errors.Is(err, instance.ErrAlreadyRunning) {
		return errors.New("a skillview instance appears to be running. Stop it first")
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Stdout, "Cleaned up %d stale file(s).\n", len(removed))
	return nil
}
