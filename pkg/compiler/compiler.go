// Package compiler runs external text compilers such as the sass CLI.
package compiler

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Compiler describes an external command that reads its input on stdin and
// writes its output to stdout.
type Compiler interface {
	Name() string
	Args(arg ...string) []string
}

// Available reports whether c can be found in $PATH.
func Available(c Compiler) bool {
	_, err := exec.LookPath(c.Name())
	return err == nil
}

// Run feeds input to c and returns what it writes to stdout.
// The command is killed if ctx is done before it exits.
func Run(ctx context.Context, c Compiler, input string, arg ...string) (string, error) {
	var (
		stdout bytes.Buffer
		stderr bytes.Buffer
		cmd    = exec.CommandContext(ctx, c.Name(), c.Args(arg...)...)
	)
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("failed to run %s: %w: %s", c.Name(), err, msg)
		}
		return "", fmt.Errorf("failed to run %s: %w", c.Name(), err)
	}

	return stdout.String(), nil
}
