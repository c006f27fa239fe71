package orchestration

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := &JobError{Kind: KindConnectivity, Stage: StageConnect, Err: cause}

	assert.Equal(t, "connectivity error: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	kind, ok := KindOf(fmt.Errorf("wrapped: %w", err))
	assert.True(t, ok)
	assert.Equal(t, KindConnectivity, kind)

	_, ok = KindOf(cause)
	assert.False(t, ok)
}

func TestNewConfigError(t *testing.T) {
	t.Parallel()

	err := NewConfigError(errors.New("gpu_count must be at least 1"))
	assert.Equal(t, KindConfig, err.Kind)
	assert.Equal(t, StageConfig, err.Stage)
	assert.Equal(t, "config error: gpu_count must be at least 1", err.Error())
}

func TestErrorKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "remote command", KindRemoteCommand.String())
	assert.Equal(t, "transfer", KindTransfer.String())
	assert.Equal(t, "ErrorKind(42)", ErrorKind(42).String())
}

func TestStage_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "await_ready", StageAwaitReady.String())
	assert.Equal(t, "done", StageDone.String())
	assert.Equal(t, "unknown", Stage(99).String())
}
