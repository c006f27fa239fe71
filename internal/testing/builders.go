package testing

import (
	"time"

	"github.com/imamik/podtrain/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder with a complete, valid job
// configuration.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: config.Config{
			APIKey:            "test-api-key",
			APIURL:            config.DefaultAPIURL,
			ImageName:         "runpod/pytorch:2.4.0-py3.11-cuda12.4.1-devel-ubuntu22.04",
			CloudType:         config.CloudTypeAll,
			GPUCount:          1,
			ContainerDiskGB:   50,
			VolumeGB:          50,
			MinVCPU:           2,
			MinRAMGB:          15,
			Ports:             "22/tcp",
			VolumeMountPath:   "/workspace",
			PodNamePrefix:     "podtrain",
			MinMemory:         16,
			MinBid:            0.1,
			MaxBid:            0.5,
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
			SSHUser:           "root",
			SSHPort:           22,
			PollInterval:      config.Duration(10 * time.Second),
		},
	}
}

// WithMinMemory sets the minimum GPU memory in GB.
func (b *ConfigBuilder) WithMinMemory(gb int) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.MinMemory = gb
	return newBuilder
}

// WithBidRange sets the accepted bid price range.
func (b *ConfigBuilder) WithBidRange(minBid, maxBid float64) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.MinBid = minBid
	newBuilder.cfg.MaxBid = maxBid
	return newBuilder
}

// WithInterruptible selects bid-priced instances.
func (b *ConfigBuilder) WithInterruptible(enabled bool) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Interruptible = enabled
	return newBuilder
}

// WithTeardownOnFailure sets the teardown policy.
func (b *ConfigBuilder) WithTeardownOnFailure(enabled bool) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.TeardownOnFailure = enabled
	return newBuilder
}

// WithArchive enables result archiving to bucket.
func (b *ConfigBuilder) WithArchive(bucket, prefix string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Bucket = bucket
	newBuilder.cfg.Prefix = prefix
	newBuilder.cfg.AccessKey = "access"
	newBuilder.cfg.SecretKey = "secret"
	return newBuilder
}

// WithLocalOutputDir sets where results are downloaded to.
func (b *ConfigBuilder) WithLocalOutputDir(dir string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.LocalOutputDir = dir
	return newBuilder
}

// Build returns the constructed config.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.cfg
	return &cfg
}

func (b *ConfigBuilder) clone() *ConfigBuilder {
	return &ConfigBuilder{cfg: b.cfg}
}
