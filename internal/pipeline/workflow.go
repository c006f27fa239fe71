package pipeline

import (
	"path"
	"strings"

	"github.com/imamik/podtrain/internal/config"
)

// Step names of the training workflow.
const (
	StepUploadDataset  = "upload dataset"
	StepDownloadModel  = "download base model"
	StepCloneRepo      = "clone training repository"
	StepInstallDeps    = "install dependencies"
	StepTrain          = "train"
	StepDownloadOutput = "download output"
)

// Workflow returns the training workflow for cfg.
func Workflow(cfg *config.Config) []Step {
	return []Step{
		{
			Name:   StepUploadDataset,
			Kind:   KindUpload,
			Local:  cfg.LocalDatasetPath,
			Remote: cfg.RemoteDatasetPath,
		},
		{
			Name: StepDownloadModel,
			Kind: KindRun,
			Args: []string{"huggingface-cli", "download", cfg.ModelSource, "--local-dir", ModelDir(cfg)},
		},
		{
			Name: StepCloneRepo,
			Kind: KindRun,
			Args: []string{"git", "clone", "--depth", "1", cfg.TrainingRepo, cfg.TrainingDir},
		},
		{
			Name: StepInstallDeps,
			Kind: KindRun,
			Dir:  cfg.TrainingDir,
			Args: []string{"pip", "install", "-r", cfg.RequirementsFile},
		},
		{
			Name: StepTrain,
			Kind: KindRun,
			Dir:  cfg.TrainingDir,
			Args: []string{"python", cfg.TrainEntrypoint, cfg.TrainConfig},
		},
		{
			Name:   StepDownloadOutput,
			Kind:   KindDownload,
			Remote: cfg.RemoteOutputDir,
			Local:  cfg.LocalOutputDir,
		},
	}
}

// ModelDir is where the base model lands on the instance: the last path
// element of the model source under the remote models path.
func ModelDir(cfg *config.Config) string {
	name := path.Base(strings.TrimRight(cfg.ModelSource, "/"))
	return path.Join(cfg.RemoteModelsPath, name)
}
