// Package tidy runs the external manifest formatter after a rewrite.
package tidy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// PomPlaceholder in Args is replaced by the manifest path.
const PomPlaceholder = "{pom}"

// ErrFormatter is wrapped by every formatter failure.
var ErrFormatter = errors.New("formatter failed")

// FormatterError carries the exit code and combined output of a failed run.
type FormatterError struct {
	Command  string
	ExitCode int
	Output   string
	Err      error
}

func (e *FormatterError) Error() string {
	msg := fmt.Sprintf("%s: exit code %d", e.Command, e.ExitCode)
	if e.ExitCode < 0 && e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	if out := lastLine(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *FormatterError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrFormatter, e.Err}
	}
	return []error{ErrFormatter}
}

// Runner invokes the formatter.
type Runner struct {
	Enabled bool
	Command string
	Args    []string
	// Dir is the working directory; empty means the manifest directory.
	Dir string
}

// DefaultRunner runs the tidy:pom goal through mvn.
func DefaultRunner() *Runner {
	return &Runner{
		Enabled: true,
		Command: "mvn",
		Args:    []string{"-q", "-f", PomPlaceholder, "tidy:pom"},
	}
}

// CommandLine returns the argv used for pomPath.
func (r *Runner) CommandLine(pomPath string) []string {
	args := make([]string, 0, len(r.Args)+3)
	substituted := false
	for _, a := range r.Args {
		if strings.Contains(a, PomPlaceholder) {
			a = strings.ReplaceAll(a, PomPlaceholder, pomPath)
			substituted = true
		}
		args = append(args, a)
	}
	if !substituted {
		args = append([]string{"-f", pomPath}, args...)
	}
	return append([]string{r.Command}, args...)
}

// Run formats pomPath in place. A nil or disabled runner does nothing.
func (r *Runner) Run(ctx context.Context, pomPath string) error {
	if r == nil || !r.Enabled {
		return nil
	}
	if r.Command == "" {
		return &FormatterError{Command: "<empty>", ExitCode: -1, Err: errors.New("no formatter command configured")}
	}
	argv := r.CommandLine(pomPath)
	// #nosec G204 -- the formatter command comes from the user's configuration
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir
	if cmd.Dir == "" {
		cmd.Dir = filepath.Dir(pomPath)
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if err == nil {
		return nil
	}
	fe := &FormatterError{Command: r.Command, ExitCode: -1, Output: out.String(), Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		fe.ExitCode = exitErr.ExitCode()
		fe.Err = nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		fe.Err = ctxErr
	}
	return fe
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
