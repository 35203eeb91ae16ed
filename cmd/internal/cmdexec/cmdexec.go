// Package cmdexec runs the external CLIs siteops drives (cdk, aws).
package cmdexec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// Error describes a failed command.
type Error struct {
	Cmd      string
	Args     []string
	Dir      string
	ExitCode int
	Stderr   string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("(in %s) %s %s", e.Dir, e.Cmd, strings.Join(e.Args, " "))
	if e.Stderr != "" {
		return fmt.Sprintf("%s: exit %d\n%s", msg, e.ExitCode, strings.TrimSpace(e.Stderr))
	}
	return fmt.Sprintf("%s: exit %d", msg, e.ExitCode)
}

// Command is a command to run in Dir with extra environment variables.
type Command struct {
	Dir  string
	Env  map[string]string
	Name string
	Args []string
}

func (c Command) build(ctx context.Context) (*exec.Cmd, error) {
	if !filepath.IsAbs(c.Dir) {
		return nil, errors.Newf("cmdexec: dir must be absolute, got %q", c.Dir)
	}
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range c.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}
	return cmd, nil
}

// Output runs the command and returns its stdout.
func (c Command) Output(ctx context.Context) (string, error) {
	cmd, err := c.build(ctx)
	if err != nil {
		return "", err
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", c.wrapErr(err, stderr.String())
	}
	return string(out), nil
}

// Run runs the command attached to the terminal.
func (c Command) Run(ctx context.Context) error {
	cmd, err := c.build(ctx)
	if err != nil {
		return err
	}
	var stderr bytes.Buffer
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = io.MultiWriter(os.Stderr, &stderr)

	if err := cmd.Run(); err != nil {
		return c.wrapErr(err, stderr.String())
	}
	return nil
}

// Output runs name in dir and returns its stdout.
func Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	return Command{Dir: dir, Name: name, Args: args}.Output(ctx)
}

// Run runs name in dir attached to the terminal.
func Run(ctx context.Context, dir, name string, args ...string) error {
	return Command{Dir: dir, Name: name, Args: args}.Run(ctx)
}

func (c Command) wrapErr(err error, stderr string) error {
	exitCode := 1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
		if stderr == "" {
			stderr = string(exitErr.Stderr)
		}
	}
	return &Error{
		Cmd:      c.Name,
		Args:     c.Args,
		Dir:      c.Dir,
		ExitCode: exitCode,
		Stderr:   stderr,
	}
}
