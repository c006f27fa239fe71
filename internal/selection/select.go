// Package selection picks the offer a job will rent.
//
// Selection is a pure function over a catalog snapshot: filter by the
// eligibility predicate, then take the cheapest bid, breaking price ties by
// the smallest sufficient memory.
package selection

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/imamik/podtrain/internal/compute"
)

// ErrNoMatchingOffer is returned when no offer satisfies the constraints.
var ErrNoMatchingOffer = errors.New("no offer satisfies the selection constraints")

// Constraints bounds the acceptable offers. No defaults are applied here.
type Constraints struct {
	MinMemoryGB int
	MinBid      decimal.Decimal
	MaxBid      decimal.Decimal
}

func (c Constraints) String() string {
	return fmt.Sprintf("memory>=%dGB, %s<=bid<=%s", c.MinMemoryGB, c.MinBid, c.MaxBid)
}

// Eligible reports whether the offer satisfies the memory, price and capacity predicate.
func Eligible(o compute.Offer, c Constraints) bool {
	if o.MemoryGB < c.MinMemoryGB {
		return false
	}
	if o.BidPrice == nil {
		return false
	}
	if !o.Available() {
		return false
	}
	return o.BidPrice.GreaterThanOrEqual(c.MinBid) && o.BidPrice.LessThanOrEqual(c.MaxBid)
}

// Filter returns the eligible offers in their original order.
func Filter(offers []compute.Offer, c Constraints) []compute.Offer {
	var eligible []compute.Offer
	for _, o := range offers {
		if Eligible(o, c) {
			eligible = append(eligible, o)
		}
	}
	return eligible
}

// Select returns the eligible offer with the lowest (price, memory) pair.
// Offers that tie on both keys keep their catalog order.
func Select(offers []compute.Offer, c Constraints) (compute.Offer, error) {
	eligible := Filter(offers, c)
	if len(eligible) == 0 {
		return compute.Offer{}, fmt.Errorf("%w (%s, %d offers considered)", ErrNoMatchingOffer, c, len(offers))
	}

	slices.SortStableFunc(eligible, compareOffers)
	return eligible[0], nil
}

// compareOffers orders by bid price, then memory. Both offers must have a bid price.
func compareOffers(a, b compute.Offer) int {
	if n := a.BidPrice.Cmp(*b.BidPrice); n != 0 {
		return n
	}
	switch {
	case a.MemoryGB < b.MemoryGB:
		return -1
	case a.MemoryGB > b.MemoryGB:
		return 1
	default:
		return 0
	}
}
