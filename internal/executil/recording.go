package executil

import (
	"context"
	"fmt"
	"sync"
)

// RecordedCommand captures a command that was executed.
type RecordedCommand struct {
	Cmd  string
	Args []string
}

// RecordingExecutor captures commands for testing.
// Configure Outputs and Errors maps to control return values.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []RecordedCommand

	// Outputs maps command names to their output.
	Outputs map[string][]byte

	// Errors maps command names to their error.
	Errors map[string]error

	// Block makes Run wait for context cancellation before returning.
	Block bool

	// Missing lists commands LookPath reports as absent.
	Missing map[string]bool
}

// Run records the command and returns configured output/error.
func (e *RecordingExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	out, err, block := e.record(cmd, args...)
	if block {
		<-ctx.Done()
		return nil, fmt.Errorf("exec %s: %w", cmd, ctx.Err())
	}
	return out, err
}

func (e *RecordingExecutor) LookPath(cmd string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Missing[cmd] {
		return fmt.Errorf("%s: executable file not found in $PATH", cmd)
	}
	return nil
}

func (e *RecordingExecutor) record(cmd string, args ...string) ([]byte, error, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Commands = append(e.Commands, RecordedCommand{Cmd: cmd, Args: args})

	var out []byte
	var err error
	if e.Outputs != nil {
		out = e.Outputs[cmd]
	}
	if e.Errors != nil {
		err = e.Errors[cmd]
	}
	return out, err, e.Block
}

// Recorded returns a copy of the commands run so far.
func (e *RecordingExecutor) Recorded() []RecordedCommand {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]RecordedCommand, len(e.Commands))
	copy(out, e.Commands)
	return out
}

// Reset clears recorded commands.
func (e *RecordingExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = nil
}
