package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"backupphotos/internal/extract"
)

// confirmAnswer is the reply that lets a run continue.
const confirmAnswer = "ok"

// newPrompter asks on out and reads answers from in. Any reply other than
// "ok" (case-insensitive) declines.
func newPrompter(in io.Reader, out io.Writer) extract.ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(ctx context.Context, prompt string) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		fmt.Fprintf(out, "%s Type '%s' to continue: ", prompt, confirmAnswer)
		line, err := reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return false, err
			}
			if line == "" {
				fmt.Fprintln(out)
				return false, nil
			}
		}
		return strings.EqualFold(strings.TrimSpace(line), confirmAnswer), nil
	}
}
