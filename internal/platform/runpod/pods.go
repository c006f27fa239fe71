package runpod

import (
	"context"
	"errors"
	"fmt"

	graphql "github.com/hasura/go-graphql-client"

	"github.com/imamik/podtrain/internal/compute"
	"github.com/imamik/podtrain/internal/util/retry"
)

// CreateOnDemand rents an on-demand pod and returns its handle.
func (c *Client) CreateOnDemand(ctx context.Context, spec compute.PodSpec) (compute.Handle, error) {
	input := PodFindAndDeployOnDemandInput{podInputFields: toInputFields(spec)}

	return c.create(ctx, "on-demand", func(ctx context.Context) (graphql.String, error) {
		var m deployOnDemandMutation
		err := c.gql.Mutate(ctx, &m, map[string]interface{}{"input": input})
		return m.Pod.ID, err
	})
}

// CreateInterruptible rents an interruptible pod at bidPerGPU and returns
// its handle.
func (c *Client) CreateInterruptible(ctx context.Context, spec compute.PodSpec, bidPerGPU float64) (compute.Handle, error) {
	input := PodRentInterruptableInput{
		podInputFields: toInputFields(spec),
		BidPerGpu:      bidPerGPU,
	}

	return c.create(ctx, "interruptible", func(ctx context.Context) (graphql.String, error) {
		var m rentInterruptableMutation
		err := c.gql.Mutate(ctx, &m, map[string]interface{}{"input": input})
		return m.Pod.ID, err
	})
}

func (c *Client) create(ctx context.Context, kind string, mutate func(context.Context) (graphql.String, error)) (compute.Handle, error) {
	var id graphql.String

	err := retry.WithExponentialBackoff(ctx, func() error {
		callCtx, cancel := c.callContext(ctx)
		defer cancel()

		podID, err := mutate(callCtx)
		if err != nil {
			if isCapacityShortage(err) {
				return err
			}
			return retry.Fatal(classify(err))
		}
		if podID == "" {
			return retry.Fatal(ErrNoPodReturned)
		}
		id = podID
		return nil
	},
		retry.WithMaxRetries(c.timeouts.CreateMaxAttempts),
		retry.WithInitialDelay(c.timeouts.CreateInitialDelay),
		retry.WithOnRetry(func(attempt int, err error) {
			c.log.WithError(err).Warnf("[Provision] No capacity for %s pod (attempt %d), retrying", kind, attempt)
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create %s pod: %w", kind, err)
	}

	return compute.Handle(id), nil
}

// Status returns the runtime view of a pod.
func (c *Client) Status(ctx context.Context, handle compute.Handle) (*compute.PodStatus, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	var q podQuery
	vars := map[string]interface{}{
		"podId": graphql.String(handle),
	}
	if err := c.gql.Query(ctx, &q, vars); err != nil {
		return nil, fmt.Errorf("failed to query pod %s: %w", handle, err)
	}
	if q.Pod.ID == "" {
		return nil, fmt.Errorf("%w: %s", ErrPodNotFound, handle)
	}

	status := &compute.PodStatus{
		ID:            string(q.Pod.ID),
		DesiredStatus: string(q.Pod.DesiredStatus),
	}
	for _, p := range q.Pod.Runtime.Ports {
		status.Ports = append(status.Ports, compute.PortMapping{
			IP:          string(p.IP),
			Public:      bool(p.IsIPPublic),
			PrivatePort: int(p.PrivatePort),
			PublicPort:  int(p.PublicPort),
			Type:        string(p.Type),
		})
	}

	return status, nil
}

// Stop requests that the pod be stopped. A pod that no longer exists is
// treated as already stopped.
func (c *Client) Stop(ctx context.Context, handle compute.Handle) error {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	var m stopMutation
	vars := map[string]interface{}{
		"podId": graphql.String(handle),
	}
	if err := c.gql.Mutate(ctx, &m, vars); err != nil {
		if messageContains(err, "not found") {
			c.log.Debugf("[Teardown] Pod %s already gone", handle)
			return nil
		}
		return fmt.Errorf("failed to stop pod %s: %w", handle, err)
	}
	c.log.Debugf("[Teardown] Pod %s desired status %s", handle, m.PodStop.DesiredStatus)

	return nil
}

func toInputFields(spec compute.PodSpec) podInputFields {
	env := make([]EnvironmentVariableInput, 0, len(spec.Env))
	for _, e := range spec.Env {
		env = append(env, EnvironmentVariableInput{Key: e.Key, Value: e.Value})
	}

	return podInputFields{
		CloudType:         spec.CloudType,
		GPUCount:          spec.GPUCount,
		VolumeInGb:        spec.VolumeGB,
		ContainerDiskInGb: spec.ContainerDiskGB,
		MinVcpuCount:      spec.MinVCPU,
		MinMemoryInGb:     spec.MinRAMGB,
		GPUTypeID:         spec.OfferID,
		Name:              spec.Name,
		ImageName:         spec.ImageName,
		Ports:             spec.Ports,
		VolumeMountPath:   spec.VolumeMountPath,
		Env:               env,
	}
}

// IsNotFound checks if an error indicates the pod does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPodNotFound)
}
