package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/imamik/podtrain/internal/metrics"
)

// Session is the remote capability the executor drives.
// Implemented by internal/platform/ssh.Session.
type Session interface {
	Run(ctx context.Context, command string, stdout, stderr io.Writer) error
	UploadDir(ctx context.Context, localDir, remoteDir string) error
	DownloadDir(ctx context.Context, remoteDir, localDir string) error
}

// RemoteSession is a Session owned by the caller, who must close it.
type RemoteSession interface {
	Session
	Close() error
}

// Executor runs steps one at a time against a session.
type Executor struct {
	log     *logrus.Entry
	metrics *metrics.Recorder
}

// NewExecutor creates an executor. Remote output is logged line by line
// through log.
func NewExecutor(log logrus.FieldLogger, rec *metrics.Recorder) *Executor {
	return &Executor{log: log.WithField("component", "pipeline"), metrics: rec}
}

// Run executes steps in order and stops at the first failure, which is
// returned as *StepError.
func (e *Executor) Run(ctx context.Context, session Session, steps []Step) error {
	start := time.Now()
	e.log.Infof("[Pipeline] Starting %d steps: %s", len(steps), Names(steps))

	for i, step := range steps {
		stepStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", step.Name, i+1, len(steps))
		log := e.log.WithField("step", step.Name)

		log.Infof("[%s] starting: %s", name, step.Describe())

		if err := e.runStep(ctx, session, step, log); err != nil {
			e.metrics.ObserveStep(step.Name, metrics.ResultFailure, time.Since(stepStart))
			log.WithError(err).Errorf("[%s] failed", name)
			return &StepError{Step: step.Name, Kind: step.Kind, Index: i + 1, Total: len(steps), Err: err}
		}

		e.metrics.ObserveStep(step.Name, metrics.ResultSuccess, time.Since(stepStart))
		log.Infof("[%s] completed in %v", name, time.Since(stepStart).Round(time.Millisecond))
	}

	e.log.Infof("[Pipeline] Completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}

func (e *Executor) runStep(ctx context.Context, session Session, step Step, log *logrus.Entry) error {
	switch step.Kind {
	case KindUpload:
		return session.UploadDir(ctx, step.Local, step.Remote)
	case KindDownload:
		return session.DownloadDir(ctx, step.Remote, step.Local)
	case KindRun:
		stdout := log.WithField("stream", "stdout").WriterLevel(logrus.InfoLevel)
		stderr := log.WithField("stream", "stderr").WriterLevel(logrus.InfoLevel)
		defer func() {
			_ = stdout.Close()
			_ = stderr.Close()
		}()
		return session.Run(ctx, step.Command(), stdout, stderr)
	default:
		return fmt.Errorf("unsupported step kind %s", step.Kind)
	}
}
