package compute

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AcquisitionMode selects how an instance is rented.
type AcquisitionMode int

const (
	// ModeOnDemand rents at the fixed uninterruptible price.
	ModeOnDemand AcquisitionMode = iota
	// ModeBid rents an interruptible instance at a bid price.
	ModeBid
)

func (m AcquisitionMode) String() string {
	switch m {
	case ModeOnDemand:
		return "on-demand"
	case ModeBid:
		return "bid"
	default:
		return fmt.Sprintf("AcquisitionMode(%d)", int(m))
	}
}

// Acquisition is a tagged variant over the two rental modes. The bid price
// is only meaningful when Mode is ModeBid.
type Acquisition struct {
	Mode     AcquisitionMode
	BidPrice decimal.Decimal
}

// OnDemand returns an on-demand acquisition.
func OnDemand() Acquisition {
	return Acquisition{Mode: ModeOnDemand}
}

// Bid returns an interruptible acquisition at the given price per GPU.
func Bid(price decimal.Decimal) Acquisition {
	return Acquisition{Mode: ModeBid, BidPrice: price}
}

func (a Acquisition) String() string {
	if a.Mode == ModeBid {
		return fmt.Sprintf("bid@%s", a.BidPrice.String())
	}
	return a.Mode.String()
}
