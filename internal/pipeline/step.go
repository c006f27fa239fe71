package pipeline

import (
	"fmt"
	"strings"

	"al.essio.dev/pkg/shellescape"
)

// Kind is what a step does.
type Kind int

const (
	// KindRun executes a remote command.
	KindRun Kind = iota
	// KindUpload copies a local directory to the instance.
	KindUpload
	// KindDownload copies a remote directory back.
	KindDownload
)

func (k Kind) String() string {
	switch k {
	case KindRun:
		return "run"
	case KindUpload:
		return "upload"
	case KindDownload:
		return "download"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Step is one ordered unit of remote work.
type Step struct {
	Name string
	Kind Kind

	// Args is the argv of a run step, executed in Dir when set.
	Args []string
	Dir  string

	// Local and Remote are the directories of a transfer step.
	Local  string
	Remote string
}

// Command renders a run step as a quoted remote shell command.
func (s Step) Command() string {
	cmd := shellescape.QuoteCommand(s.Args)
	if s.Dir == "" {
		return cmd
	}
	return "cd " + shellescape.Quote(s.Dir) + " && " + cmd
}

// Describe returns a one-line description for logs.
func (s Step) Describe() string {
	switch s.Kind {
	case KindUpload:
		return fmt.Sprintf("%s -> remote:%s", s.Local, s.Remote)
	case KindDownload:
		return fmt.Sprintf("remote:%s -> %s", s.Remote, s.Local)
	default:
		return s.Command()
	}
}

// StepError reports the step that ended a run.
type StepError struct {
	Step  string
	Kind  Kind
	Index int
	Total int
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d/%d %q failed: %v", e.Index, e.Total, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Names returns the step names in order.
func Names(steps []Step) string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}
