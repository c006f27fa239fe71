package orchestration

// Stage is a step of the job state machine.
type Stage int

const (
	StageConfig Stage = iota
	StageSelect
	StageProvision
	StageAwaitReady
	StageConnect
	StageRunPipeline
	StageArchive
	StageTeardown
	StageDone
)

var stageNames = [...]string{
	StageConfig:      "config",
	StageSelect:      "select",
	StageProvision:   "provision",
	StageAwaitReady:  "await_ready",
	StageConnect:     "connect",
	StageRunPipeline: "run_pipeline",
	StageArchive:     "archive",
	StageTeardown:    "teardown",
	StageDone:        "done",
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}
