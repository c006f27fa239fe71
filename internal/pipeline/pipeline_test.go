package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/podtrain/internal/config"
	"github.com/imamik/podtrain/internal/metrics"
)

// stepSeries counts the step counter series in the exported textfile.
func stepSeries(t *testing.T, rec *metrics.Recorder) int {
	t.Helper()
	path := filepath.Join(t.TempDir(), "podtrain.prom")
	require.NoError(t, rec.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	count := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "podtrain_pipeline_steps_total{") {
			count++
		}
	}
	return count
}

// fakeSession records every call and fails on the configured one.
type fakeSession struct {
	calls  []string
	failOn string
	err    error
	stdout string
}

func (f *fakeSession) record(call string) error {
	f.calls = append(f.calls, call)
	if f.failOn != "" && call == f.failOn {
		return f.err
	}
	return nil
}

func (f *fakeSession) Run(_ context.Context, command string, stdout, _ io.Writer) error {
	if f.stdout != "" {
		_, _ = io.WriteString(stdout, f.stdout)
	}
	return f.record("run " + command)
}

func (f *fakeSession) UploadDir(_ context.Context, localDir, remoteDir string) error {
	return f.record(fmt.Sprintf("upload %s %s", localDir, remoteDir))
}

func (f *fakeSession) DownloadDir(_ context.Context, remoteDir, localDir string) error {
	return f.record(fmt.Sprintf("download %s %s", remoteDir, localDir))
}

func testConfig() *config.Config {
	return &config.Config{
		LocalDatasetPath:  "./dataset",
		RemoteDatasetPath: "/workspace/dataset",
		RemoteModelsPath:  "/workspace/models",
		ModelSource:       "meta-llama/Llama-3.2-1B",
		TrainingRepo:      "https://github.com/acme/trainer.git",
		TrainingDir:       "/workspace/trainer",
		RequirementsFile:  "requirements.txt",
		TrainEntrypoint:   "train.py",
		TrainConfig:       "config.yaml",
		RemoteOutputDir:   "/workspace/output",
		LocalOutputDir:    "./output",
	}
}

var expectedCalls = []string{
	"upload ./dataset /workspace/dataset",
	"run huggingface-cli download meta-llama/Llama-3.2-1B --local-dir /workspace/models/Llama-3.2-1B",
	"run git clone --depth 1 https://github.com/acme/trainer.git /workspace/trainer",
	"run cd /workspace/trainer && pip install -r requirements.txt",
	"run cd /workspace/trainer && python train.py config.yaml",
	"download /workspace/output ./output",
}

func newTestExecutor(rec *metrics.Recorder) *Executor {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewExecutor(log, rec)
}

func TestWorkflow_Order(t *testing.T) {
	t.Parallel()

	steps := Workflow(testConfig())
	require.Len(t, steps, 6)

	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}
	assert.Equal(t, []string{
		StepUploadDataset, StepDownloadModel, StepCloneRepo,
		StepInstallDeps, StepTrain, StepDownloadOutput,
	}, names)
	assert.Equal(t, KindUpload, steps[0].Kind)
	assert.Equal(t, KindDownload, steps[5].Kind)
}

func TestExecutor_RunsAllStepsInOrder(t *testing.T) {
	t.Parallel()

	session := &fakeSession{stdout: "line one\nline two\n"}
	rec := metrics.NewRecorder()

	err := newTestExecutor(rec).Run(context.Background(), session, Workflow(testConfig()))
	require.NoError(t, err)
	assert.Equal(t, expectedCalls, session.calls)

	count := stepSeries(t, rec)
	assert.Equal(t, 6, count)
}

func TestExecutor_InstallFailureStopsPipeline(t *testing.T) {
	t.Parallel()

	exitErr := errors.New("remote command exited with status 1")
	session := &fakeSession{failOn: expectedCalls[3], err: exitErr}

	err := newTestExecutor(nil).Run(context.Background(), session, Workflow(testConfig()))
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepInstallDeps, stepErr.Step)
	assert.Equal(t, KindRun, stepErr.Kind)
	assert.Equal(t, 4, stepErr.Index)
	assert.Equal(t, 6, stepErr.Total)
	assert.ErrorIs(t, err, exitErr)

	assert.Equal(t, expectedCalls[:4], session.calls, "train and download must not run")
}

func TestExecutor_FailureAtAnyStepStopsLaterSteps(t *testing.T) {
	t.Parallel()

	for k := range expectedCalls {
		k := k
		t.Run(fmt.Sprintf("fail at %d", k+1), func(t *testing.T) {
			t.Parallel()

			injected := fmt.Errorf("injected failure %d", k+1)
			session := &fakeSession{failOn: expectedCalls[k], err: injected}

			err := newTestExecutor(nil).Run(context.Background(), session, Workflow(testConfig()))

			var stepErr *StepError
			require.ErrorAs(t, err, &stepErr)
			assert.Equal(t, k+1, stepErr.Index)
			assert.ErrorIs(t, err, injected)
			assert.Equal(t, expectedCalls[:k+1], session.calls)
		})
	}
}

func TestExecutor_TransferFailureKind(t *testing.T) {
	t.Parallel()

	session := &fakeSession{failOn: expectedCalls[0], err: errors.New("no such file")}

	err := newTestExecutor(nil).Run(context.Background(), session, Workflow(testConfig()))

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, KindUpload, stepErr.Kind)
	assert.Len(t, session.calls, 1)
}

func TestExecutor_RecordsFailedStep(t *testing.T) {
	t.Parallel()

	rec := metrics.NewRecorder()
	session := &fakeSession{failOn: expectedCalls[3], err: errors.New("exit 1")}

	_ = newTestExecutor(rec).Run(context.Background(), session, Workflow(testConfig()))

	count := stepSeries(t, rec)
	assert.Equal(t, 4, count, "three successes and one failure")
}

func TestExecutor_EmptyPipeline(t *testing.T) {
	t.Parallel()

	session := &fakeSession{}
	require.NoError(t, newTestExecutor(nil).Run(context.Background(), session, nil))
	assert.Empty(t, session.calls)
}
