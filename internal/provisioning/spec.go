package provisioning

import (
	"strings"

	"github.com/imamik/podtrain/internal/compute"
	"github.com/imamik/podtrain/internal/config"
	"github.com/imamik/podtrain/internal/util/naming"
)

// PublicKeyEnv is the container environment variable the image reads its
// authorized SSH key from.
const PublicKeyEnv = "PUBLIC_KEY"

// SpecFromConfig builds the create request for the selected offer. The
// public key, when set, is injected so sshd accepts the job's key.
func SpecFromConfig(cfg *config.Config, offer compute.Offer, publicKey string) compute.PodSpec {
	spec := compute.PodSpec{
		Name:            naming.Pod(cfg.PodNamePrefix),
		OfferID:         offer.ID,
		CloudType:       strings.ToUpper(cfg.CloudType),
		GPUCount:        cfg.GPUCount,
		ContainerDiskGB: cfg.ContainerDiskGB,
		VolumeGB:        cfg.VolumeGB,
		MinVCPU:         cfg.MinVCPU,
		MinRAMGB:        cfg.MinRAMGB,
		ImageName:       cfg.ImageName,
		Ports:           cfg.Ports,
		VolumeMountPath: cfg.VolumeMountPath,
	}
	if key := strings.TrimSpace(publicKey); key != "" {
		spec.Env = append(spec.Env, compute.EnvVar{Key: PublicKeyEnv, Value: key})
	}
	return spec
}

// AcquisitionFor returns the rental mode for the job: a bid at the offer's
// lowest bid price when interruptible, otherwise on-demand.
func AcquisitionFor(cfg *config.Config, offer compute.Offer) compute.Acquisition {
	if cfg.Interruptible && offer.BidPrice != nil {
		return compute.Bid(*offer.BidPrice)
	}
	return compute.OnDemand()
}
