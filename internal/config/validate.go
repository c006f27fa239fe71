package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var validCloudTypes = map[string]bool{
	CloudTypeAll:       true,
	CloudTypeSecure:    true,
	CloudTypeCommunity: true,
}

// Validate checks that the values are consistent: bid range, counts, ports
// and the API URL.
func (c *Config) Validate() error {
	var errs []error

	if c.MinBid < 0 || c.MaxBid < 0 {
		errs = append(errs, fmt.Errorf("min_bid and max_bid must not be negative"))
	}
	if c.MinBid > c.MaxBid {
		errs = append(errs, fmt.Errorf("min_bid (%v) must not exceed max_bid (%v)", c.MinBid, c.MaxBid))
	}
	if c.MinMemory < 0 {
		errs = append(errs, fmt.Errorf("min_memory must not be negative"))
	}
	if c.GPUCount < 1 {
		errs = append(errs, fmt.Errorf("gpu_count must be at least 1"))
	}
	if !validCloudTypes[strings.ToUpper(c.CloudType)] {
		errs = append(errs, fmt.Errorf("cloud_type %q is not one of ALL, SECURE, COMMUNITY", c.CloudType))
	}
	if c.SSHPort < 1 || c.SSHPort > 65535 {
		errs = append(errs, fmt.Errorf("ssh_port %d is out of range", c.SSHPort))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval must be positive"))
	}
	if c.ReadyTimeout < 0 || c.ReadyMaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("ready_timeout and ready_max_attempts must not be negative"))
	}
	if c.APIURL != "" {
		if u, err := url.Parse(c.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("api_url %q is not an absolute URL", c.APIURL))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// ValidateForRun additionally requires everything a real job needs.
func (c *Config) ValidateForRun() error {
	if err := c.Validate(); err != nil {
		return err
	}

	required := map[string]string{
		"runpod_api_key":     c.APIKey,
		"image_name":         c.ImageName,
		"model_source":       c.ModelSource,
		"training_repo":      c.TrainingRepo,
		"local_dataset_path": c.LocalDatasetPath,
		"local_output_dir":   c.LocalOutputDir,
		"remote_output_dir":  c.RemoteOutputDir,
	}

	var missing []string
	for _, key := range Keys() {
		if val, ok := required[key]; ok && strings.TrimSpace(val) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required keys: %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}

	if c.ArchiveConfig.Enabled() && (c.ArchiveConfig.AccessKey == "" || c.ArchiveConfig.SecretKey == "") {
		return fmt.Errorf("%w: archive_bucket requires archive_access_key and archive_secret_key", ErrInvalidConfig)
	}
	return nil
}
