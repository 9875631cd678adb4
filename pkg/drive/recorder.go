package drive

import (
	"sync"

	"github.com/teslashibe/go-follow/internal/log"
)

// Command is one recorded actuator call.
type Command struct {
	Stop  bool
	Left  float64
	Right float64
}

// Recorder is an in-memory actuator used for dry runs and tests.
type Recorder struct {
	mu       sync.Mutex
	commands []Command
	limit    int
}

// NewRecorder keeps at most limit commands; 0 keeps everything.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Drive records a drive command.
func (r *Recorder) Drive(left, right float64) error {
	log.Debug("[MOVE]", "left", left, "right", right)
	r.add(Command{Left: left, Right: right})
	return nil
}

// Stop records a stop command.
func (r *Recorder) Stop() error {
	log.Debug("[STOP] motors")
	r.add(Command{Stop: true})
	return nil
}

// Close is a no-op so Recorder can stand in for SerialActuator.
func (r *Recorder) Close() error {
	return nil
}

// Commands returns a copy of the recorded commands.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.commands...)
}

// Last returns the most recent command.
func (r *Recorder) Last() (Command, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.commands) == 0 {
		return Command{}, false
	}
	return r.commands[len(r.commands)-1], true
}

func (r *Recorder) add(c Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, c)
	if r.limit > 0 && len(r.commands) > r.limit {
		r.commands = r.commands[len(r.commands)-r.limit:]
	}
}
