package provisioning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imamik/podtrain/internal/compute"
	tu "github.com/imamik/podtrain/internal/testing"
)

func TestSpecFromConfig(t *testing.T) {
	t.Parallel()

	cfg := tu.NewConfigBuilder().Build()
	cfg.CloudType = "secure"
	offer := tu.NewOffer("NVIDIA A40", 48, "0.2")

	spec := SpecFromConfig(cfg, offer, "ssh-ed25519 AAAA test\n")

	assert.Regexp(t, `^podtrain-`, spec.Name)
	assert.Equal(t, "NVIDIA A40", spec.OfferID)
	assert.Equal(t, "SECURE", spec.CloudType)
	assert.Equal(t, cfg.GPUCount, spec.GPUCount)
	assert.Equal(t, cfg.ContainerDiskGB, spec.ContainerDiskGB)
	assert.Equal(t, cfg.VolumeGB, spec.VolumeGB)
	assert.Equal(t, cfg.MinVCPU, spec.MinVCPU)
	assert.Equal(t, cfg.MinRAMGB, spec.MinRAMGB)
	assert.Equal(t, cfg.ImageName, spec.ImageName)
	assert.Equal(t, "22/tcp", spec.Ports)
	assert.Equal(t, "/workspace", spec.VolumeMountPath)
	assert.Equal(t, []compute.EnvVar{{Key: PublicKeyEnv, Value: "ssh-ed25519 AAAA test"}}, spec.Env)
}

func TestSpecFromConfig_NoKey(t *testing.T) {
	t.Parallel()

	spec := SpecFromConfig(tu.NewConfigBuilder().Build(), tu.NewOffer("g1", 16, "0.1"), "")
	assert.Empty(t, spec.Env)
}

func TestAcquisitionFor(t *testing.T) {
	t.Parallel()

	offer := tu.NewOffer("g1", 16, "0.15")

	onDemand := AcquisitionFor(tu.NewConfigBuilder().Build(), offer)
	assert.Equal(t, compute.ModeOnDemand, onDemand.Mode)

	bid := AcquisitionFor(tu.NewConfigBuilder().WithInterruptible(true).Build(), offer)
	assert.Equal(t, compute.ModeBid, bid.Mode)
	assert.True(t, bid.BidPrice.Equal(*offer.BidPrice))

	noBid := offer
	noBid.BidPrice = nil
	assert.Equal(t, compute.ModeOnDemand, AcquisitionFor(tu.NewConfigBuilder().WithInterruptible(true).Build(), noBid).Mode)
}
