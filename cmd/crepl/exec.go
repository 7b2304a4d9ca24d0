package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"crepl/internal/repl"
)

var execCmd = &cobra.Command{
	Use:   "exec [flags] [line...]",
	Short: "Run command lines non-interactively",
	Long: `Exec runs each argument as one command line. With --file the lines are read
from a script, "-" reads them from stdin.`,
	RunE: runExec,
}

func init() {
	execCmd.Flags().StringP("file", "f", "", "read command lines from a file (- for stdin)")
	execCmd.Flags().Bool("strict", false, "exit with status 2 if any line failed")
	execCmd.Flags().Bool("echo", false, "print each line before running it")
}

func runExec(cmd *cobra.Command, args []string) error {
	file, err := cmd.Flags().GetString("file")
	if err != nil {
		return fmt.Errorf("failed to get file flag: %w", err)
	}
	strict, err := cmd.Flags().GetBool("strict")
	if err != nil {
		return fmt.Errorf("failed to get strict flag: %w", err)
	}
	echo, err := cmd.Flags().GetBool("echo")
	if err != nil {
		return fmt.Errorf("failed to get echo flag: %w", err)
	}
	if file == "" && len(args) == 0 {
		return fmt.Errorf("nothing to run: pass lines as arguments or use --file")
	}
	if file != "" && len(args) > 0 {
		return fmt.Errorf("--file and line arguments are mutually exclusive")
	}

	var reader repl.Reader
	switch file {
	case "":
		reader = repl.NewLines(args)
	case "-":
		reader = repl.NewPlain(cmd.InOrStdin(), nil, "", nil)
	default:
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		reader = repl.NewPlain(f, nil, "", nil)
	}
	if echo {
		reader = echoReader{Reader: reader, out: cmd.ErrOrStderr()}
	}

	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	rt, err := startSession(cmd, st, true, false)
	if err != nil {
		return err
	}
	defer rt.close(cmd.ErrOrStderr())

	if err := rt.sess.Run(cmd.Context(), reader); err != nil {
		return err
	}
	if strict && rt.sess.Failures() > 0 {
		return &exitError{code: 2}
	}
	return nil
}

// echoReader prints "> line" before handing the line on.
type echoReader struct {
	repl.Reader
	out io.Writer
}

func (e echoReader) ReadLine(ctx context.Context) (string, error) {
	line, err := e.Reader.ReadLine(ctx)
	if err == nil {
		fmt.Fprintf(e.out, "> %s\n", line)
	}
	return line, err
}
