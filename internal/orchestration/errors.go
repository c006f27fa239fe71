package orchestration

import (
	"errors"
	"fmt"

	"github.com/imamik/podtrain/internal/compute"
)

// ErrorKind classifies a fatal job failure.
type ErrorKind int

const (
	// KindConfig is a malformed or incomplete configuration.
	KindConfig ErrorKind = iota + 1
	// KindSelection means no offer could be selected.
	KindSelection
	// KindProvisioning is a failed create or an instance that never became ready.
	KindProvisioning
	// KindConnectivity means the remote session could not be opened.
	KindConnectivity
	// KindTransfer is a failed upload, download or archive.
	KindTransfer
	// KindRemoteCommand is a remote step that exited non-zero.
	KindRemoteCommand
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindSelection:
		return "selection"
	case KindProvisioning:
		return "provisioning"
	case KindConnectivity:
		return "connectivity"
	case KindTransfer:
		return "transfer"
	case KindRemoteCommand:
		return "remote command"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// JobError is a fatal job failure.
type JobError struct {
	Kind  ErrorKind
	Stage Stage

	// PodID is set once an instance exists.
	PodID compute.Handle

	Err error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// NewConfigError wraps a configuration failure detected before the job starts.
func NewConfigError(err error) *JobError {
	return &JobError{Kind: KindConfig, Stage: StageConfig, Err: err}
}

// KindOf returns the kind of a JobError anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var jobErr *JobError
	if errors.As(err, &jobErr) {
		return jobErr.Kind, true
	}
	return 0, false
}
