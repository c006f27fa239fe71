package config

import (
	"encoding/json"
	"time"
)

// Cloud types accepted by the provider.
const (
	CloudTypeAll       = "ALL"
	CloudTypeSecure    = "SECURE"
	CloudTypeCommunity = "COMMUNITY"
)

const redacted = "********"

// Config is the effective job configuration.
type Config struct {
	// Provider access and instance shape.
	APIKey          string   `mapstructure:"runpod_api_key" json:"runpod_api_key" yaml:"runpod_api_key"`
	APIURL          string   `mapstructure:"api_url" json:"api_url" yaml:"api_url"`
	ImageName       string   `mapstructure:"image_name" json:"image_name" yaml:"image_name"`
	CloudType       string   `mapstructure:"cloud_type" json:"cloud_type" yaml:"cloud_type"`
	GPUCount        int      `mapstructure:"gpu_count" json:"gpu_count" yaml:"gpu_count"`
	ContainerDiskGB int      `mapstructure:"container_disk_gb" json:"container_disk_gb" yaml:"container_disk_gb"`
	VolumeGB        int      `mapstructure:"volume_gb" json:"volume_gb" yaml:"volume_gb"`
	MinVCPU         int      `mapstructure:"min_vcpu" json:"min_vcpu" yaml:"min_vcpu"`
	MinRAMGB        int      `mapstructure:"min_ram_gb" json:"min_ram_gb" yaml:"min_ram_gb"`
	Ports           string   `mapstructure:"ports" json:"ports" yaml:"ports"`
	VolumeMountPath string   `mapstructure:"volume_mount_path" json:"volume_mount_path" yaml:"volume_mount_path"`
	PodNamePrefix   string   `mapstructure:"pod_name_prefix" json:"pod_name_prefix" yaml:"pod_name_prefix"`
	Interruptible   bool     `mapstructure:"interruptible" json:"interruptible" yaml:"interruptible"`

	// Selection constraints.
	MinMemory int     `mapstructure:"min_memory" json:"min_memory" yaml:"min_memory"`
	MinBid    float64 `mapstructure:"min_bid" json:"min_bid" yaml:"min_bid"`
	MaxBid    float64 `mapstructure:"max_bid" json:"max_bid" yaml:"max_bid"`

	// Workflow paths and sources.
	LocalDatasetPath  string `mapstructure:"local_dataset_path" json:"local_dataset_path" yaml:"local_dataset_path"`
	RemoteDatasetPath string `mapstructure:"remote_dataset_path" json:"remote_dataset_path" yaml:"remote_dataset_path"`
	RemoteModelsPath  string `mapstructure:"remote_models_path" json:"remote_models_path" yaml:"remote_models_path"`
	ModelSource       string `mapstructure:"model_source" json:"model_source" yaml:"model_source"`
	TrainingRepo      string `mapstructure:"training_repo" json:"training_repo" yaml:"training_repo"`
	TrainingDir       string `mapstructure:"training_dir" json:"training_dir" yaml:"training_dir"`
	RequirementsFile  string `mapstructure:"requirements_file" json:"requirements_file" yaml:"requirements_file"`
	TrainEntrypoint   string `mapstructure:"train_entrypoint" json:"train_entrypoint" yaml:"train_entrypoint"`
	TrainConfig       string `mapstructure:"train_config" json:"train_config" yaml:"train_config"`
	RemoteOutputDir   string `mapstructure:"remote_output_dir" json:"remote_output_dir" yaml:"remote_output_dir"`
	LocalOutputDir    string `mapstructure:"local_output_dir" json:"local_output_dir" yaml:"local_output_dir"`

	// Remote access.
	SSHUser    string `mapstructure:"ssh_user" json:"ssh_user" yaml:"ssh_user"`
	SSHPort    int    `mapstructure:"ssh_port" json:"ssh_port" yaml:"ssh_port"`
	SSHKeyPath string `mapstructure:"ssh_key_path" json:"ssh_key_path" yaml:"ssh_key_path"`

	// Instance lifecycle.
	PollInterval      Duration `mapstructure:"poll_interval" json:"poll_interval" yaml:"poll_interval"`
	ReadyTimeout      Duration `mapstructure:"ready_timeout" json:"ready_timeout" yaml:"ready_timeout"`
	ReadyMaxAttempts  int      `mapstructure:"ready_max_attempts" json:"ready_max_attempts" yaml:"ready_max_attempts"`
	TeardownOnFailure bool     `mapstructure:"teardown_on_failure" json:"teardown_on_failure" yaml:"teardown_on_failure"`

	ArchiveConfig `mapstructure:",squash" yaml:",inline"`

	MetricsFile string `mapstructure:"metrics_file" json:"metrics_file" yaml:"metrics_file"`
	Debug       bool   `mapstructure:"debug" json:"debug" yaml:"debug"`
}

// ArchiveConfig configures the optional upload of results to an
// S3-compatible bucket. An empty Bucket disables archiving.
type ArchiveConfig struct {
	Bucket    string `mapstructure:"archive_bucket" json:"archive_bucket" yaml:"archive_bucket"`
	Prefix    string `mapstructure:"archive_prefix" json:"archive_prefix" yaml:"archive_prefix"`
	Endpoint  string `mapstructure:"archive_endpoint" json:"archive_endpoint" yaml:"archive_endpoint"`
	Region    string `mapstructure:"archive_region" json:"archive_region" yaml:"archive_region"`
	AccessKey string `mapstructure:"archive_access_key" json:"archive_access_key" yaml:"archive_access_key"`
	SecretKey string `mapstructure:"archive_secret_key" json:"archive_secret_key" yaml:"archive_secret_key"`
}

// Enabled reports whether results should be archived.
func (a ArchiveConfig) Enabled() bool {
	return a.Bucket != ""
}

// Redacted returns a copy with credentials masked, for printing.
func (c Config) Redacted() Config {
	if c.APIKey != "" {
		c.APIKey = redacted
	}
	if c.ArchiveConfig.AccessKey != "" {
		c.ArchiveConfig.AccessKey = redacted
	}
	if c.ArchiveConfig.SecretKey != "" {
		c.ArchiveConfig.SecretKey = redacted
	}
	return c
}

// Duration is a time.Duration that prints as "10s" in JSON and YAML output
// and decodes from duration strings or plain seconds.
type Duration time.Duration

// Std returns the standard library duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}
