// pattern: Imperative Shell
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"skillview/internal/catalog"
	"skillview/internal/cli"
	"skillview/internal/events"
	"skillview/internal/instance"
	"skillview/internal/present"
	"skillview/internal/tui"
	"skillview/internal/web"
)

var version = "dev"

func main() {
	// Stop parsing flags after the first non-flag arg (the subcommand),
	// so that --help after a subcommand is handled by the subcommand.
	flag.CommandLine.SetInterspersed(false)

	configDir := flag.StringP("config-dir", "c", "", "config directory (default: ~/.config/skillview)")
	skillsDir := flag.StringP("skills-dir", "s", "", "skills root (default: skills_dir from config, else ~/.claude/skills)")

	options := func() cli.Options {
		return cli.Options{ConfigDir: *configDir, SkillsDir: *skillsDir}
	}

	// Override flag.Usage before Parse so --help uses the CLI app's help
	flag.Usage = func() {
		app := cli.BuildApp(version, options())
		app.PrintHelp(os.Stderr)
		flag.PrintDefaults()
	}

	flag.Parse()

	app := cli.BuildApp(version, options())
	if app.Execute(flag.Args()) {
		runTUI(options())
	}
}

// runTUI launches the interactive browser with the web API alongside it.
func runTUI(opts cli.Options) {
	env, err := cli.LoadEnv(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	lang, err := present.ParseLanguage(env.Config.Language)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Acquire single-instance lock
	fl, err := instance.Lock(env.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer instance.Cleanup(env.DataDir, fl)

	logManager, err := env.NewLogManager(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logManager.Close() }()

	appLogger := logManager.For("app")
	appLogger.Info("application starting", "root", env.SkillsDir, "version", version)

	store, err := env.OpenUsage(logManager.For("usage"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	scanner := env.Scanner(logManager.For("catalog"))

	// Set before the program starts; every scan the TUI applies is pushed
	// to websocket clients.
	var webServer *web.Server

	model := tui.NewModel(tui.Options{
		Root:      scanner.Root(),
		Theme:     env.Config.Theme,
		Language:  lang,
		Overrides: env.Overrides,
		Catalog:   scanner,
		Usage:     store,
		Logs:      logManager.Entries(),
		Logger:    logManager.For("tui"),
		OnScan: func(entries []catalog.Entry) {
			webServer.Publish(entries)
		},
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	// Web server always starts (ephemeral port if not configured)
	webServer = web.New(
		web.Config{Bind: env.Config.Web.Bind, Port: env.Config.Web.Port},
		web.Deps{
			Catalog:   scanner,
			Usage:     store,
			Overrides: env.Overrides,
			NotifyTUI: func(msg any) { p.Send(msg) },
		},
		logManager,
	)
	ln, err := webServer.Listen()
	if err != nil {
		appLogger.Error("web server listen error", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Write port file for CLI discovery
	if err := instance.WritePort(env.DataDir, webServer.Addr()); err != nil {
		appLogger.Error("failed to write port file", "error", err)
	}

	webURL := fmt.Sprintf("http://%s", webServer.Addr())
	go func() {
		p.Send(events.WebListenURLMsg{URL: webURL})
	}()

	go func() {
		if err := webServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("web server error", "error", err)
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := webServer.Shutdown(ctx); err != nil {
			appLogger.Error("web server shutdown error", "error", err)
		}
	}()

	if _, err := p.Run(); err != nil {
		appLogger.Error("application exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}

	appLogger.Info("application stopped")
}
