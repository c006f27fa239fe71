package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/imamik/podtrain/internal/config"
	"github.com/imamik/podtrain/internal/logging"
	"github.com/imamik/podtrain/internal/metrics"
	"github.com/imamik/podtrain/internal/orchestration"
	"github.com/imamik/podtrain/internal/pipeline"
	"github.com/imamik/podtrain/internal/platform/runpod"
	"github.com/imamik/podtrain/internal/platform/s3"
	"github.com/imamik/podtrain/internal/platform/ssh"
	"github.com/imamik/podtrain/internal/provisioning"
	"github.com/imamik/podtrain/internal/util/keygen"
)

// ProviderClient is the provider API the job needs: the offer catalog and
// the instance control plane.
type ProviderClient interface {
	orchestration.Catalog
	provisioning.ControlPlane
}

// Factory function variables for run - can be replaced in tests.
var (
	// newLogger creates the process logger.
	newLogger = func(debug bool) *logrus.Logger {
		return logging.New(os.Stderr, debug)
	}

	// resolveKeyPair loads or generates the SSH key pair.
	resolveKeyPair = keygen.Resolve

	// newProviderClient creates the provider API client.
	newProviderClient = func(cfg *config.Config, timeouts *config.Timeouts, log logrus.FieldLogger) ProviderClient {
		return runpod.NewClient(cfg.APIURL, cfg.APIKey,
			runpod.WithTimeouts(timeouts),
			runpod.WithLogger(log),
		)
	}

	// newDialer creates the SSH dialer for the ready instance.
	newDialer = func(cfg *config.Config, privateKey []byte, timeouts *config.Timeouts) orchestration.Dialer {
		return sessionDialer{d: ssh.NewDialer(ssh.Config{
			User:        cfg.SSHUser,
			PrivateKey:  privateKey,
			DialTimeout: timeouts.SSHDial,
			MaxRetries:  timeouts.SSHMaxRetries,
			RetryDelay:  timeouts.SSHRetryDelay,
		})}
	}

	// newArchiver creates the results archiver.
	newArchiver = func(cfg config.ArchiveConfig, log logrus.FieldLogger) (orchestration.Archiver, error) {
		a, err := s3.NewArchiver(cfg, log)
		if err != nil {
			return nil, err
		}
		return a, nil
	}
)

// sessionDialer adapts ssh.Dialer to the orchestration interface.
type sessionDialer struct {
	d *ssh.Dialer
}

func (s sessionDialer) Open(ctx context.Context, host string, port int) (pipeline.RemoteSession, error) {
	session, err := s.d.Open(ctx, host, port)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Run handles the run action.
//
// It loads and validates the configuration, prepares the SSH key, wires the
// provider, SSH and archive clients, and runs the job once. Configuration
// problems are reported before anything is rented.
func Run(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return orchestration.NewConfigError(err)
	}
	if err := cfg.ValidateForRun(); err != nil {
		return orchestration.NewConfigError(err)
	}

	log := newLogger(cfg.Debug)
	timeouts := config.LoadTimeouts()

	keys, err := resolveKeyPair(cfg.SSHKeyPath)
	if err != nil {
		return orchestration.NewConfigError(fmt.Errorf("failed to prepare SSH key: %w", err))
	}

	var rec *metrics.Recorder
	if cfg.MetricsFile != "" {
		rec = metrics.NewRecorder()
	}

	jobOpts := []orchestration.Option{
		orchestration.WithLogger(log),
		orchestration.WithMetrics(rec),
		orchestration.WithPublicKey(string(keys.PublicKey)),
	}
	if cfg.ArchiveConfig.Enabled() {
		archiver, err := newArchiver(cfg.ArchiveConfig, log)
		if err != nil {
			return orchestration.NewConfigError(fmt.Errorf("failed to create archive client: %w", err))
		}
		jobOpts = append(jobOpts, orchestration.WithArchiver(archiver))
	}

	client := newProviderClient(cfg, timeouts, log)
	controller := provisioning.NewController(client,
		provisioning.WithPollPolicy(provisioning.PollPolicy{
			Interval:    cfg.PollInterval.Std(),
			Timeout:     cfg.ReadyTimeout.Std(),
			MaxAttempts: cfg.ReadyMaxAttempts,
			Port:        cfg.SSHPort,
		}),
		provisioning.WithTeardownTimeout(timeouts.Teardown),
		provisioning.WithLogger(log),
		provisioning.WithMetrics(rec),
	)

	job := orchestration.NewJob(cfg, client, controller, newDialer(cfg, keys.PrivateKey, timeouts), jobOpts...)
	_, runErr := job.Run(ctx)

	if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
		log.WithError(err).Warn("Failed to write metrics")
	}

	if runErr != nil {
		return runErr
	}

	log.Infof("Results downloaded to %s", cfg.LocalOutputDir)
	return nil
}
