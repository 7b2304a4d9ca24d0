package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"crepl/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "crepl [flags]",
	Short: "Interactive REPL for calling C library functions",
	Long: `crepl loads shared libraries and calls their exported functions from a prompt.
Arguments are typed from their literals, the return value is decoded by the
output mode (:d :f :c :s :p :v).`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRepl,
}

func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("config", "", "settings file (default $XDG_CONFIG_HOME/crepl/config.toml)")
	rootCmd.PersistentFlags().String("color", "", "colorize output (auto|on|off), overrides ui.color")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress informational messages")
	rootCmd.PersistentFlags().Bool("timings", false, "show per-phase timings after each line")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics per line (0 = config)")
	rootCmd.PersistentFlags().StringArray("lib", nil, "preload a library (repeatable), after the configured ones")
	rootCmd.PersistentFlags().String("default-lib", "", "default C runtime library (overrides libraries.default)")
	rootCmd.PersistentFlags().String("mode", "", "initial output mode (int|float|char|void|string|pointer)")

	// Трассировка
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 1024, "events kept by the trace ring buffer")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 disables)")

	// Профилирование
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")

	rootCmd.Flags().String("ui", "", "line editor (auto|on|off), overrides ui.mode")
	rootCmd.Flags().Bool("no-history", false, "do not read or write the history file")
}

// main executes the root command. A failing command exits with status 1;
// exec --strict with failed lines exits with status 2.
func main() {
	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// exitError ends the process with code without printing anything more.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) || isatty.IsCygwinTerminal(f.Fd())
}
