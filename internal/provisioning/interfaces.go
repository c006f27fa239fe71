package provisioning

import (
	"context"

	"github.com/imamik/podtrain/internal/compute"
)

// ControlPlane creates, inspects and stops instances.
// Implemented by internal/platform/runpod.Client.
type ControlPlane interface {
	CreateOnDemand(ctx context.Context, spec compute.PodSpec) (compute.Handle, error)
	CreateInterruptible(ctx context.Context, spec compute.PodSpec, bidPerGPU float64) (compute.Handle, error)
	Status(ctx context.Context, handle compute.Handle) (*compute.PodStatus, error)
	Stop(ctx context.Context, handle compute.Handle) error
}
