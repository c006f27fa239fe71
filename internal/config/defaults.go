package config

import (
	"strings"
	"time"
)

// EnvPrefix prefixes every environment variable override (PODTRAIN_MIN_MEMORY, ...).
const EnvPrefix = "PODTRAIN"

// DefaultConfigFile is read when --config is not given. Its absence is not an error.
const DefaultConfigFile = "config.json"

// DefaultAPIURL is the provider's GraphQL endpoint.
const DefaultAPIURL = "https://api.runpod.io/graphql"

// option is one recognized configuration key with its built-in default.
// The default's dynamic type decides the flag type.
type option struct {
	key   string
	def   any
	usage string
}

var options = []option{
	{"runpod_api_key", "", "Provider API key (also read from RUNPOD_API_KEY)"},
	{"api_url", DefaultAPIURL, "Provider GraphQL endpoint"},
	{"image_name", "runpod/pytorch:2.1.0-py3.10-cuda11.8.0-devel-ubuntu22.04", "Container image for the instance"},
	{"cloud_type", CloudTypeAll, "Cloud type: ALL, SECURE or COMMUNITY"},
	{"gpu_count", 1, "GPUs per instance"},
	{"container_disk_gb", 50, "Container disk size in GB"},
	{"volume_gb", 50, "Persistent volume size in GB"},
	{"min_vcpu", 2, "Minimum vCPUs"},
	{"min_ram_gb", 15, "Minimum system memory in GB"},
	{"ports", "22/tcp", "Exposed ports, comma separated"},
	{"volume_mount_path", "/workspace", "Mount path of the persistent volume"},
	{"pod_name_prefix", "podtrain", "Prefix for generated instance names"},
	{"interruptible", false, "Rent an interruptible instance at the offer's bid price"},

	{"min_memory", 16, "Minimum GPU memory in GB"},
	{"min_bid", 0.1, "Minimum acceptable bid price per GPU hour"},
	{"max_bid", 0.5, "Maximum acceptable bid price per GPU hour"},

	{"local_dataset_path", "./dataset", "Local dataset directory to upload"},
	{"remote_dataset_path", "/workspace/dataset", "Remote dataset directory"},
	{"remote_models_path", "/workspace/models", "Remote directory for base models"},
	{"model_source", "", "Base model reference to download on the instance"},
	{"training_repo", "", "Git URL of the training scripts"},
	{"training_dir", "/workspace/trainer", "Remote checkout directory of the training scripts"},
	{"requirements_file", "requirements.txt", "Requirements file inside the training checkout"},
	{"train_entrypoint", "train.py", "Training entry point inside the training checkout"},
	{"train_config", "config.yaml", "Configuration file passed to the training entry point"},
	{"remote_output_dir", "/workspace/output", "Remote output directory"},
	{"local_output_dir", "./output", "Local directory receiving the results"},

	{"ssh_user", "root", "SSH user on the instance"},
	{"ssh_port", 22, "Private SSH port on the instance"},
	{"ssh_key_path", "", "Private key for SSH; empty generates an ephemeral key"},

	{"poll_interval", 10 * time.Second, "Interval between readiness queries"},
	{"ready_timeout", time.Duration(0), "Give up waiting for readiness after this long (0 waits forever)"},
	{"ready_max_attempts", 0, "Give up after this many readiness queries (0 waits forever)"},
	{"teardown_on_failure", false, "Stop the instance when the job fails after provisioning"},

	{"archive_bucket", "", "S3 bucket receiving the results (empty disables)"},
	{"archive_prefix", "", "Key prefix inside the archive bucket"},
	{"archive_endpoint", "", "S3-compatible endpoint URL"},
	{"archive_region", "us-east-1", "Archive bucket region"},
	{"archive_access_key", "", "Archive access key"},
	{"archive_secret_key", "", "Archive secret key"},

	{"metrics_file", "", "Write Prometheus metrics to this textfile when the job ends"},
	{"debug", false, "Enable debug logging"},
}

// FlagName returns the command-line flag name for a configuration key.
func FlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// Keys returns every recognized configuration key in declaration order.
func Keys() []string {
	keys := make([]string, 0, len(options))
	for _, o := range options {
		keys = append(keys, o.key)
	}
	return keys
}
