package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/imamik/podtrain/internal/compute"
	"github.com/imamik/podtrain/internal/config"
	"github.com/imamik/podtrain/internal/metrics"
	"github.com/imamik/podtrain/internal/pipeline"
	"github.com/imamik/podtrain/internal/pricing"
	"github.com/imamik/podtrain/internal/provisioning"
	"github.com/imamik/podtrain/internal/selection"
)

// Catalog lists the offers currently available.
// Implemented by internal/platform/runpod.Client.
type Catalog interface {
	ListOffers(ctx context.Context, filter compute.CapacityFilter) ([]compute.Offer, error)
}

// Provisioner owns the instance lifecycle.
// Implemented by internal/provisioning.Controller.
type Provisioner interface {
	Provision(ctx context.Context, spec compute.PodSpec, acq compute.Acquisition) (*compute.Instance, error)
	AwaitReady(ctx context.Context, inst *compute.Instance) (compute.Endpoint, error)
	Teardown(ctx context.Context, inst *compute.Instance) error
}

// Dialer opens the remote session to a ready instance.
type Dialer interface {
	Open(ctx context.Context, host string, port int) (pipeline.RemoteSession, error)
}

// Archiver uploads the downloaded results.
// Implemented by internal/platform/s3.Archiver.
type Archiver interface {
	Archive(ctx context.Context, localDir, podID string) (int, error)
}

// Result describes a finished job.
type Result struct {
	Offer    compute.Offer
	Instance *compute.Instance
	Endpoint compute.Endpoint
	Archived int
	Stage    Stage

	// Cost is nil when the offer has no price for the acquisition mode.
	Cost *pricing.Estimate
}

// Job runs the training workflow once.
type Job struct {
	cfg         *config.Config
	catalog     Catalog
	provisioner Provisioner
	dialer      Dialer
	archiver    Archiver
	publicKey   string
	steps       []pipeline.Step
	log         logrus.FieldLogger
	metrics     *metrics.Recorder
}

// Option configures a Job.
type Option func(*Job)

// WithArchiver uploads results after the pipeline.
func WithArchiver(a Archiver) Option {
	return func(j *Job) {
		j.archiver = a
	}
}

// WithPublicKey injects an authorized SSH key into the instance.
func WithPublicKey(key string) Option {
	return func(j *Job) {
		j.publicKey = key
	}
}

// WithSteps replaces the remote workflow.
func WithSteps(steps []pipeline.Step) Option {
	return func(j *Job) {
		j.steps = steps
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(j *Job) {
		j.log = l
	}
}

// WithMetrics records job metrics.
func WithMetrics(r *metrics.Recorder) Option {
	return func(j *Job) {
		j.metrics = r
	}
}

// NewJob creates a job over its collaborators. cfg is never modified.
func NewJob(cfg *config.Config, catalog Catalog, provisioner Provisioner, dialer Dialer, opts ...Option) *Job {
	j := &Job{
		cfg:         cfg,
		catalog:     catalog,
		provisioner: provisioner,
		dialer:      dialer,
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(j)
	}
	if j.steps == nil {
		j.steps = pipeline.Workflow(cfg)
	}
	return j
}

// Run executes the job. The returned Result is never nil and records the
// stage the job ended in; err is a *JobError for every fatal failure.
func (j *Job) Run(ctx context.Context) (res *Result, err error) {
	start := time.Now()
	res = &Result{Stage: StageSelect}

	defer func() {
		outcome := metrics.ResultSuccess
		if err != nil {
			outcome = metrics.ResultFailure
		}
		j.metrics.ObserveJob(res.Stage.String(), outcome, time.Since(start))
	}()

	offer, err := j.selectOffer(ctx)
	if err != nil {
		kind := KindSelection
		if errors.Is(err, compute.ErrUnauthorized) {
			kind = KindConfig
			err = fmt.Errorf("check runpod_api_key: %w", err)
		}
		return res, j.fail(res, kind, err)
	}
	res.Offer = offer

	res.Stage = StageProvision
	spec := provisioning.SpecFromConfig(j.cfg, offer, j.publicKey)
	acq := provisioning.AcquisitionFor(j.cfg, offer)
	inst, err := j.provisioner.Provision(ctx, spec, acq)
	if err != nil {
		return res, j.fail(res, KindProvisioning, err)
	}
	res.Instance = inst

	// From here on the instance is billing.
	billingStart := time.Now()
	defer func() {
		if err != nil {
			j.afterFailure(ctx, inst)
		}
		res.Cost = j.estimateCost(offer, acq, time.Since(billingStart))
	}()

	res.Stage = StageAwaitReady
	ep, err := j.provisioner.AwaitReady(ctx, inst)
	if err != nil {
		return res, j.fail(res, KindProvisioning, err)
	}
	res.Endpoint = ep

	res.Stage = StageConnect
	session, err := j.dialer.Open(ctx, ep.Host, ep.Port)
	if err != nil {
		return res, j.fail(res, KindConnectivity, fmt.Errorf("failed to connect to %s: %w", ep, err))
	}

	res.Stage = StageRunPipeline
	runErr := pipeline.NewExecutor(j.log, j.metrics).Run(ctx, session, j.steps)
	if closeErr := session.Close(); closeErr != nil {
		j.log.WithError(closeErr).Debug("[Pipeline] Closing session failed")
	}
	if runErr != nil {
		return res, j.fail(res, pipelineErrorKind(runErr), runErr)
	}

	if j.archiver != nil {
		res.Stage = StageArchive
		n, archiveErr := j.archiver.Archive(ctx, j.cfg.LocalOutputDir, string(inst.Handle))
		if archiveErr != nil {
			return res, j.fail(res, KindTransfer, archiveErr)
		}
		res.Archived = n
	}

	res.Stage = StageTeardown
	j.teardown(ctx, inst)

	res.Stage = StageDone
	j.log.Infof("Job completed in %v", time.Since(start).Round(time.Second))
	return res, nil
}

func (j *Job) selectOffer(ctx context.Context) (compute.Offer, error) {
	offers, err := j.catalog.ListOffers(ctx, compute.CapacityFilter{GPUCount: j.cfg.GPUCount})
	if err != nil {
		return compute.Offer{}, fmt.Errorf("failed to list offers: %w", err)
	}

	constraints := selection.Constraints{
		MinMemoryGB: j.cfg.MinMemory,
		MinBid:      decimal.NewFromFloat(j.cfg.MinBid),
		MaxBid:      decimal.NewFromFloat(j.cfg.MaxBid),
	}
	offer, err := selection.Select(offers, constraints)
	if err != nil {
		return compute.Offer{}, err
	}

	j.log.Infof("[Select] Selected %s from %d offers", offer, len(offers))
	return offer, nil
}

// afterFailure applies the teardown policy once an instance exists.
func (j *Job) afterFailure(ctx context.Context, inst *compute.Instance) {
	if j.cfg.TeardownOnFailure {
		j.teardown(ctx, inst)
		return
	}
	j.log.WithField("pod_id", inst.Handle).
		Warnf("[Teardown] Skipped after failure; pod %s is still running and billing until stopped", inst.Handle)
}

// teardown stops the instance. Failures are logged only.
func (j *Job) teardown(ctx context.Context, inst *compute.Instance) {
	if err := j.provisioner.Teardown(ctx, inst); err != nil {
		j.log.WithError(err).WithField("pod_id", inst.Handle).
			Errorf("[Teardown] Failed; stop pod %s manually", inst.Handle)
	}
}

func (j *Job) estimateCost(offer compute.Offer, acq compute.Acquisition, d time.Duration) *pricing.Estimate {
	est, err := pricing.Calculate(offer, acq, j.cfg.GPUCount, d)
	if err != nil {
		j.log.WithError(err).Debug("[Cost] No estimate available")
		return nil
	}
	j.log.Infof("[Cost] %s", est)
	return est
}

func (j *Job) fail(res *Result, kind ErrorKind, err error) error {
	jobErr := &JobError{Kind: kind, Stage: res.Stage, Err: err}
	if res.Instance != nil {
		jobErr.PodID = res.Instance.Handle
	}
	return jobErr
}

func pipelineErrorKind(err error) ErrorKind {
	var stepErr *pipeline.StepError
	if errors.As(err, &stepErr) && stepErr.Kind != pipeline.KindRun {
		return KindTransfer
	}
	return KindRemoteCommand
}
