// pattern: Functional Core
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
)

// Command represents a single CLI command with its metadata and handler.
type Command struct {
	Name    string
	Summary string
	Usage   string
	Run     func(args []string) error
}

// App is the command registry. Commands are listed in help in the order
// they were added.
type App struct {
	commands map[string]*Command
	order    []string
	version  string

	// Stderr receives help and error output. Defaults to os.Stderr.
	Stderr io.Writer
	// ExitFunc is called to exit the process. Defaults to os.Exit.
	ExitFunc func(int)
}

// NewApp creates a new CLI application with the given version.
func NewApp(version string) *App {
	return &App{
		commands: make(map[string]*Command),
		version:  version,
		Stderr:   os.Stderr,
		ExitFunc: os.Exit,
	}
}

// AddCommand registers a command.
func (a *App) AddCommand(cmd *Command) {
	if _, exists := a.commands[cmd.Name]; !exists {
		a.order = append(a.order, cmd.Name)
	}
	a.commands[cmd.Name] = cmd
}

// Execute dispatches the CLI arguments to the appropriate command.
// Returns true if TUI should be launched, false otherwise.
//
// A command returning flag.ErrHelp gets its usage printed. Any other error
// is printed as "error: ..." and exits with status 1, or the code of an
// *ExitError.
func (a *App) Execute(args []string) bool {
	if len(args) == 0 {
		return true
	}

	cmd, ok := a.commands[args[0]]
	if !ok {
		if args[0] == "help" {
			a.PrintHelp(a.Stderr)
			return false
		}
		fmt.Fprintf(a.Stderr, "unknown command %q\n\n", args[0])
		a.PrintHelp(a.Stderr)
		a.ExitFunc(1)
		return false
	}

	err := cmd.Run(args[1:])
	var exitErr *ExitError
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		fmt.Fprintf(a.Stderr, "%s\n", cmd.Usage)
	case errors.As(err, &exitErr):
		fmt.Fprintf(a.Stderr, "error: %v\n", err)
		a.ExitFunc(exitErr.Code)
	default:
		fmt.Fprintf(a.Stderr, "error: %v\n", err)
		a.ExitFunc(1)
	}
	return false
}

// PrintHelp prints the top-level help text.
func (a *App) PrintHelp(w io.Writer) {
	fmt.Fprintf(w, "Usage: skillview [options] [command]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, name := range a.order {
		fmt.Fprintf(w, "  %-10s %s\n", name, a.commands[name].Summary)
	}
	fmt.Fprintf(w, "  %-10s %s\n", "(none)", "Launch interactive TUI")
	fmt.Fprintf(w, "\nUse \"skillview <command> --help\" for command details.\n\n")
	fmt.Fprintf(w, "Options:\n")
}

// newFlagSet returns a pflag set that reports errors instead of printing
// them, so App.Execute owns all output.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}
