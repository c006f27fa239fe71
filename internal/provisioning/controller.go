package provisioning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/imamik/podtrain/internal/compute"
	"github.com/imamik/podtrain/internal/metrics"
)

const (
	defaultPollInterval    = 10 * time.Second
	defaultTeardownTimeout = time.Minute
)

var (
	// ErrNotReady is returned when a bounded poll policy runs out.
	ErrNotReady = errors.New("instance did not become ready")

	// ErrUnknownAcquisition is returned for an acquisition mode the
	// controller cannot create.
	ErrUnknownAcquisition = errors.New("unknown acquisition mode")
)

// PollPolicy bounds the readiness loop. Zero Timeout and MaxAttempts mean
// the loop only ends on readiness or cancellation.
type PollPolicy struct {
	Interval    time.Duration
	Timeout     time.Duration
	MaxAttempts int

	// Port is the private port whose mapping is preferred, usually sshd.
	Port int
}

// Controller owns one instance through its lifecycle.
type Controller struct {
	cp              ControlPlane
	policy          PollPolicy
	teardownTimeout time.Duration
	log             logrus.FieldLogger
	metrics         *metrics.Recorder

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithPollPolicy sets the readiness poll policy.
func WithPollPolicy(p PollPolicy) Option {
	return func(c *Controller) {
		c.policy = p
	}
}

// WithTeardownTimeout bounds the stop request.
func WithTeardownTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.teardownTimeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// WithMetrics records poll and readiness metrics.
func WithMetrics(r *metrics.Recorder) Option {
	return func(c *Controller) {
		c.metrics = r
	}
}

// WithClock replaces the sleep and time source, for tests.
func WithClock(sleep func(ctx context.Context, d time.Duration) error, now func() time.Time) Option {
	return func(c *Controller) {
		c.sleep = sleep
		c.now = now
	}
}

// NewController creates a controller over the given control plane.
func NewController(cp ControlPlane, opts ...Option) *Controller {
	c := &Controller{
		cp:              cp,
		policy:          PollPolicy{Interval: defaultPollInterval, Port: 22},
		teardownTimeout: defaultTeardownTimeout,
		log:             logrus.StandardLogger(),
		sleep:           sleepContext,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.policy.Interval <= 0 {
		c.policy.Interval = defaultPollInterval
	}
	return c
}

// Provision issues the create request and returns the instance in the
// Requested state. A failed create is not retried here.
func (c *Controller) Provision(ctx context.Context, spec compute.PodSpec, acq compute.Acquisition) (*compute.Instance, error) {
	c.log.Infof("[Provision] Creating pod %s on %s (%s)", spec.Name, spec.OfferID, acq)

	var (
		handle compute.Handle
		err    error
	)
	switch acq.Mode {
	case compute.ModeOnDemand:
		handle, err = c.cp.CreateOnDemand(ctx, spec)
	case compute.ModeBid:
		handle, err = c.cp.CreateInterruptible(ctx, spec, acq.BidPrice.InexactFloat64())
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownAcquisition, acq.Mode)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to provision pod %s: %w", spec.Name, err)
	}

	c.log.WithField("pod_id", handle).Infof("[Provision] Pod %s requested", handle)
	return &compute.Instance{Handle: handle, State: compute.StateRequested}, nil
}

// AwaitReady polls until the instance reports a reachable endpoint, then
// marks it Ready. Status errors are logged and retried.
func (c *Controller) AwaitReady(ctx context.Context, inst *compute.Instance) (compute.Endpoint, error) {
	log := c.log.WithField("pod_id", inst.Handle)
	start := c.now()

	for attempt := 1; ; attempt++ {
		status, err := c.cp.Status(ctx, inst.Handle)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return compute.Endpoint{}, fmt.Errorf("waiting for pod %s: %w", inst.Handle, ctx.Err())
			}
			c.metrics.ObservePoll(metrics.ResultError)
			log.WithError(err).WithField("attempt", attempt).Warn("[Provision] Status query failed, will retry")
		default:
			if ep, ok := PreferredEndpoint(status.Ports, c.policy.Port); ok {
				elapsed := c.now().Sub(start)
				c.metrics.ObservePoll(metrics.ResultSuccess)
				c.metrics.ObserveReady(elapsed)
				inst.Endpoint = ep
				inst.State = compute.StateReady
				log.Infof("[Provision] Pod ready at %s after %d polls (%v)", ep, attempt, elapsed.Round(time.Second))
				return ep, nil
			}
			c.metrics.ObservePoll(metrics.ResultPending)
			log.WithField("attempt", attempt).Debugf("[Provision] Pod %s not reachable yet (status %s)", inst.Handle, status.DesiredStatus)
		}

		if c.policy.MaxAttempts > 0 && attempt >= c.policy.MaxAttempts {
			return compute.Endpoint{}, fmt.Errorf("%w: pod %s after %d attempts", ErrNotReady, inst.Handle, attempt)
		}
		if c.policy.Timeout > 0 && c.now().Sub(start) >= c.policy.Timeout {
			return compute.Endpoint{}, fmt.Errorf("%w: pod %s within %v", ErrNotReady, inst.Handle, c.policy.Timeout)
		}

		if err := c.sleep(ctx, c.policy.Interval); err != nil {
			return compute.Endpoint{}, fmt.Errorf("waiting for pod %s: %w", inst.Handle, err)
		}
	}
}

// Teardown requests that the instance be stopped. It runs even when ctx is
// already cancelled, bounded by the teardown timeout.
func (c *Controller) Teardown(ctx context.Context, inst *compute.Instance) error {
	log := c.log.WithField("pod_id", inst.Handle)

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.teardownTimeout)
	defer cancel()

	log.Infof("[Teardown] Stopping pod %s", inst.Handle)
	if err := c.cp.Stop(stopCtx, inst.Handle); err != nil {
		return fmt.Errorf("failed to stop pod %s: %w", inst.Handle, err)
	}

	inst.State = compute.StateStopped
	log.Infof("[Teardown] Pod %s stopped", inst.Handle)
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
