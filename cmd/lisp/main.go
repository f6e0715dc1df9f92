// Command lisp is the interactive REPL driver: a cobra-based entrypoint
// where flag parsing lives entirely in main and the library packages stay
// flag-free.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/basilisk-lang/lisp/internal/core"
	"github.com/basilisk-lang/lisp/internal/env"
	"github.com/basilisk-lang/lisp/internal/eval"
	"github.com/basilisk-lang/lisp/internal/value"
)

const defaultHistoryLimitKiB = 16

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		debugEval    bool
		historyLimit int
	)

	cmd := &cobra.Command{
		Use:           "lisp [file]",
		Short:         "A tree-walking Lisp interpreter REPL",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			it := eval.New(os.Stderr)
			root := env.New(nil)
			if err := core.New(it, root, os.Stdout); err != nil {
				return fmt.Errorf("initializing core environment: %w", err)
			}
			if debugEval {
				root.Set("DEBUG-EVAL", value.Bool(true))
			}

			if len(args) == 1 {
				return loadAndExit(it, root, args[0])
			}
			return runREPL(it, root, os.Stdin, os.Stdout, os.Stderr, historyLimit*1024)
		},
	}

	cmd.Flags().BoolVar(&debugEval, "debug-eval", false, "bind DEBUG-EVAL to true before the REPL starts")
	cmd.Flags().IntVar(&historyLimit, "history-limit", defaultHistoryLimitKiB, "maximum input line length, in KiB")

	return cmd
}

// loadAndExit evaluates (load-file path) in root and exits, for the
// optional "run a source file non-interactively" mode.
func loadAndExit(it *eval.Interp, root *env.Env, path string) error {
	call := value.List([]value.Value{value.Symbol("load-file"), value.String(path)})
	_, err := it.Eval(call, root)
	if err != nil {
		return fmt.Errorf("RUNTIME ERROR: %w", err)
	}
	return nil
}
