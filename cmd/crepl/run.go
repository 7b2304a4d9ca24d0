package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"crepl/internal/config"
	"crepl/internal/repl"
	"crepl/internal/session"
)

// app is everything a command needs after startup.
type app struct {
	st      settings
	sess    *session.Session
	cleanup func()
}

func (r *app) close(errOut io.Writer) {
	if r.sess != nil {
		if err := r.sess.Close(); err != nil {
			fmt.Fprintf(errOut, "close: %v\n", err)
		}
	}
	r.cleanup()
}

// startSession sets up tracing and opens the libraries. progressUI shows
// the preload progress model instead of loading silently.
func startSession(cmd *cobra.Command, st settings, scripted, progressUI bool) (*app, error) {
	stopProfiles, err := setupProfiling(cmd)
	if err != nil {
		return nil, err
	}
	tracer, heartbeat, stopTrace, err := setupTracing(cmd)
	if err != nil {
		stopProfiles()
		return nil, err
	}
	cleanup := func() {
		stopTrace()
		stopProfiles()
	}
	cfg := session.Config{
		Backend:        session.NativeBackend(),
		DefaultLibrary: st.defaultLib,
		Preload:        st.preload,
		Mode:           st.mode,
		MaxDiagnostics: st.maxDiag,
		Scripted:       scripted,
		Out:            cmd.OutOrStdout(),
		Err:            cmd.ErrOrStderr(),
		Color:          st.color,
		Quiet:          st.quiet,
		Timings:        st.timings,
		Tracer:         tracer,
		Heartbeat:      heartbeat,
	}

	var sess *session.Session
	if progressUI && len(cfg.Preload) > 0 && !st.quiet {
		sess, err = openSessionWithUI(cmd.Context(), cfg, cmd.ErrOrStderr())
	} else {
		sess, err = session.New(cmd.Context(), cfg)
	}
	if err != nil {
		cleanup()
		return nil, err
	}
	return &app{st: st, sess: sess, cleanup: cleanup}, nil
}

func runRepl(cmd *cobra.Command, args []string) error {
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return fmt.Errorf("failed to get no-history flag: %w", err)
	}

	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if uiFlag == "" {
		uiFlag = st.file.UI.Mode
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return fmt.Errorf("--ui: %w", err)
	}
	useTUI := shouldUseTUI(mode)

	rt, err := startSession(cmd, st, false, useTUI)
	if err != nil {
		return err
	}
	defer rt.close(cmd.ErrOrStderr())

	history, err := openHistory(rt.st.file, noHistory, rt.st.historySize)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "history: %v\n", err)
		history = repl.NewHistory(rt.st.historySize)
	}
	defer func() {
		if err := history.Save(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "history: %v\n", err)
		}
	}()

	if !rt.st.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "crepl %s, libraries: %v, :h for help\n", versionString(), rt.sess.Libraries())
	}

	var reader repl.Reader
	if useTUI {
		reader = repl.NewEditor(cmd.InOrStdin(), cmd.OutOrStdout(), rt.st.prompt, history)
	} else {
		prompt := rt.st.prompt
		if !isTerminal(os.Stdin) {
			prompt = ""
		}
		reader = repl.NewPlain(cmd.InOrStdin(), cmd.OutOrStdout(), prompt, history)
	}

	err = rt.sess.Run(cmd.Context(), reader)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if !rt.st.quiet {
		fmt.Fprintln(cmd.ErrOrStderr(), "GoodBye!")
	}
	return err
}

func openHistory(file config.Config, disabled bool, size int) (*repl.History, error) {
	if disabled || file.History.Disabled {
		return repl.NewHistory(size), nil
	}
	path, err := file.HistoryPath()
	if err != nil {
		return nil, err
	}
	return repl.LoadHistory(path, size)
}
