package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/basilisk-lang/lisp/internal/env"
	"github.com/basilisk-lang/lisp/internal/eval"
	"github.com/basilisk-lang/lisp/internal/reader"
	"github.com/basilisk-lang/lisp/internal/value"
)

// runREPL implements the read-eval-print loop: prompt, read one line (up
// to maxLineBytes), read->eval->print, loop. EOF exits cleanly (nil
// error); a line over the limit is a fatal error.
func runREPL(it *eval.Interp, root *env.Env, stdin io.Reader, stdout, stderr io.Writer, maxLineBytes int) error {
	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, maxLineBytes), maxLineBytes)

	for {
		fmt.Fprint(stdout, "user> ")

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				if errors.Is(err, bufio.ErrTooLong) {
					return fmt.Errorf("input line exceeds %d bytes", maxLineBytes)
				}
				return err
			}
			return nil // EOF
		}

		line := scanner.Text()

		form, err := reader.Read(line)
		if err != nil {
			fmt.Fprintf(stderr, "PARSE ERROR: %s\n", err)
			continue
		}

		result, err := it.Eval(form, root)
		if err != nil {
			fmt.Fprintf(stderr, "RUNTIME ERROR: %s\n", err)
			continue
		}

		fmt.Fprintln(stdout, value.PrStr(result, true))
	}
}
