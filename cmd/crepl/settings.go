package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"crepl/internal/config"
	"crepl/internal/output"
)

// settings is the config file with command-line overrides applied.
type settings struct {
	file        config.Config
	color       bool
	quiet       bool
	timings     bool
	maxDiag     int
	mode        output.Mode
	defaultLib  string
	preload     []string
	prompt      string
	historySize int
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	flags := cmd.Root().PersistentFlags()

	path, err := flags.GetString("config")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	file, err := config.Load(path)
	if err != nil {
		return settings{}, err
	}

	st := settings{
		file:        file,
		maxDiag:     file.Session.MaxDiagnostics,
		mode:        file.OutputMode(),
		defaultLib:  file.Libraries.Default,
		preload:     append([]string(nil), file.Libraries.Preload...),
		prompt:      file.Session.Prompt,
		historySize: file.History.Size,
	}

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get color flag: %w", err)
	}
	if colorFlag == "" {
		colorFlag = file.UI.Color
	}
	mode, err := readUIMode(colorFlag)
	if err != nil {
		return settings{}, fmt.Errorf("--color: %w", err)
	}
	st.color = switchEnabled(mode, os.Stderr) && os.Getenv("NO_COLOR") == ""
	color.NoColor = !st.color

	if st.quiet, err = flags.GetBool("quiet"); err != nil {
		return settings{}, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if st.timings, err = flags.GetBool("timings"); err != nil {
		return settings{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiag, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if maxDiag > 0 {
		st.maxDiag = maxDiag
	}

	libs, err := flags.GetStringArray("lib")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get lib flag: %w", err)
	}
	st.preload = append(st.preload, libs...)
	defaultLib, err := flags.GetString("default-lib")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get default-lib flag: %w", err)
	}
	if defaultLib != "" {
		st.defaultLib = defaultLib
	}

	modeFlag, err := flags.GetString("mode")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get mode flag: %w", err)
	}
	if modeFlag != "" {
		m, err := output.Parse(strings.ToLower(modeFlag))
		if err != nil {
			return settings{}, fmt.Errorf("--mode: %w", err)
		}
		st.mode = m
	}
	return st, nil
}
