package testing

import (
	"github.com/shopspring/decimal"

	"github.com/imamik/podtrain/internal/compute"
)

// Price returns a pointer to the decimal value of s.
func Price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// NewOffer returns an available offer with the given memory and bid price.
func NewOffer(id string, memoryGB int, bid string) compute.Offer {
	return compute.Offer{
		ID:          id,
		DisplayName: id,
		MemoryGB:    memoryGB,
		BidPrice:    Price(bid),
		TotalCount:  10,
		RentedCount: 2,
	}
}

// SampleOffers is a catalog where g3 is below the minimum bid and g1 and
// g2 tie on price.
func SampleOffers() []compute.Offer {
	return []compute.Offer{
		NewOffer("g1", 16, "0.15"),
		NewOffer("g2", 24, "0.15"),
		NewOffer("g3", 16, "0.05"),
	}
}

// ReadyStatus returns a status with a public SSH mapping.
func ReadyStatus(id string) *compute.PodStatus {
	return &compute.PodStatus{
		ID:            id,
		DesiredStatus: "RUNNING",
		Ports: []compute.PortMapping{
			{IP: "203.0.113.10", Public: true, PrivatePort: 22, PublicPort: 40122, Type: "tcp"},
		},
	}
}

// PendingStatus returns a status without any port mapping yet.
func PendingStatus(id string) *compute.PodStatus {
	return &compute.PodStatus{ID: id, DesiredStatus: "RUNNING"}
}
