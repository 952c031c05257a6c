package service

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"morning_heating/internal/logger"
)

const powershellPath = `C:\Windows\System32\WindowsPowerShell\v1.0\powershell.exe`

// runCommand executes name with args and returns its stdout.
type runCommand func(ctx context.Context, name string, args ...string) ([]byte, error)

func execOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// NewPresenceChecker picks the probe for the given GOOS value.
func NewPresenceChecker(goos string, log *logger.Logger) PresenceChecker {
	if goos == "windows" {
		return &WindowsPresence{run: execOutput, log: log}
	}
	return &PingPresence{run: execOutput, log: log}
}

// PingPresence sends a single ICMP echo with the system ping binary.
type PingPresence struct {
	run runCommand
	log *logger.Logger
}

// IsReachable is true only when ping exits 0. A ping that cannot be started
// is indeterminate and reported as not seen.
func (p *PingPresence) IsReachable(ctx context.Context, address string) bool {
	args := []string{address, "-c", "1"}
	_, err := p.run(ctx, "ping", args...)

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		p.log.Infow("looking for computer", "address", address, "seen", true)
		return true
	case errors.As(err, &exitErr):
		p.log.Infow("looking for computer", "address", address, "seen", false, "exit_code", exitErr.ExitCode())
		return false
	default:
		p.log.Errorw("presence probe failed, treating device as not seen",
			"err", err, "command", "ping "+strings.Join(args, " "))
		return false
	}
}

// WindowsPresence asks PowerShell's Test-Connection, which prints True or False.
type WindowsPresence struct {
	run runCommand
	log *logger.Logger
}

// IsReachable is true only for a literal "True" answer. Anything that is
// neither True nor False is indeterminate and reported as not seen.
func (w *WindowsPresence) IsReachable(ctx context.Context, address string) bool {
	args := []string{"test-connection", "-quiet", "-count", "1", address}
	out, err := w.run(ctx, powershellPath, args...)
	if err != nil {
		w.log.Errorw("presence probe failed, treating device as not seen",
			"err", err, "command", "powershell "+strings.Join(args, " "))
		return false
	}

	answer := strings.TrimSpace(string(out))
	switch answer {
	case "True":
		w.log.Infow("looking for computer", "address", address, "seen", true)
		return true
	case "False":
		w.log.Infow("looking for computer", "address", address, "seen", false)
		return false
	default:
		w.log.Errorw("failed to parse presence probe output, treating device as not seen",
			"output", answer, "address", address)
		return false
	}
}
