// Package compute defines the provider-neutral types shared by the catalog,
// selection, provisioning and orchestration packages.
package compute

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Offer is a snapshot of one compute configuration advertised by the provider.
type Offer struct {
	ID          string
	DisplayName string
	MemoryGB    int

	// BidPrice is the lowest interruptible bid. Nil when the provider does
	// not currently accept bids for this offer.
	BidPrice *decimal.Decimal

	// OnDemandPrice is the fixed uninterruptible price, if advertised.
	OnDemandPrice *decimal.Decimal

	TotalCount  int
	RentedCount int
}

// Available reports whether at least one unit of the offer is not rented.
func (o Offer) Available() bool {
	return o.TotalCount > o.RentedCount
}

func (o Offer) String() string {
	price := "n/a"
	if o.BidPrice != nil {
		price = o.BidPrice.String()
	}
	return fmt.Sprintf("%s (%s, %dGB, bid %s, %d/%d rented)",
		o.ID, o.DisplayName, o.MemoryGB, price, o.RentedCount, o.TotalCount)
}

// CapacityFilter narrows a catalog query.
type CapacityFilter struct {
	GPUCount int
}

// Handle identifies a created instance. It is opaque to everything but the
// control plane that issued it.
type Handle string

// EnvVar is one environment variable injected into the instance.
type EnvVar struct {
	Key   string
	Value string
}

// PodSpec carries everything the control plane needs to create an instance.
type PodSpec struct {
	Name            string
	OfferID         string
	CloudType       string
	GPUCount        int
	ContainerDiskGB int
	VolumeGB        int
	MinVCPU         int
	MinRAMGB        int
	ImageName       string
	Ports           string
	VolumeMountPath string
	Env             []EnvVar
}

// PortMapping is one network mapping reported for a running instance.
type PortMapping struct {
	IP          string
	Public      bool
	PrivatePort int
	PublicPort  int
	Type        string
}

// PodStatus is the runtime view of an instance returned by a status query.
// Ports is empty while the instance is still starting.
type PodStatus struct {
	ID            string
	DesiredStatus string
	Ports         []PortMapping
}

// Endpoint is a reachable network address of a ready instance.
type Endpoint struct {
	Host   string
	Port   int
	Public bool
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}
