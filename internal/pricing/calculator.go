// Package pricing estimates what a job's instance costs.
//
// Provider prices are per GPU and hour. The estimate covers the time from
// the create call to the end of the job; an instance left running after a
// failure keeps billing beyond it.
package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imamik/podtrain/internal/compute"
)

// ErrNoPrice is returned when the offer advertises no price for the
// acquisition mode.
var ErrNoPrice = errors.New("offer has no price for the acquisition mode")

var hour = decimal.NewFromInt(int64(time.Hour))

// Estimate contains the calculated cost estimate.
type Estimate struct {
	// Items is the list of line items.
	Items []LineItem

	// Total is the sum of all items.
	Total decimal.Decimal

	// Duration is the billed time the estimate covers.
	Duration time.Duration

	Acquisition compute.Acquisition
}

// LineItem represents a single cost line item.
type LineItem struct {
	Description string
	Quantity    int
	UnitType    string
	UnitPrice   decimal.Decimal // per unit and hour
	Total       decimal.Decimal
}

// String returns a formatted string representation of the line item.
func (l LineItem) String() string {
	return fmt.Sprintf("%s: %d× %s @ $%s/h = $%s",
		l.Description, l.Quantity, l.UnitType, l.UnitPrice.StringFixed(2), l.Total.StringFixed(4))
}

// Hourly returns the cost of one hour at the estimate's rates.
func (e *Estimate) Hourly() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range e.Items {
		sum = sum.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum
}

func (e *Estimate) String() string {
	return fmt.Sprintf("~$%s for %v (%s, $%s/h)",
		e.Total.StringFixed(4), e.Duration.Round(time.Second), e.Acquisition, e.Hourly().StringFixed(2))
}

// HourlyRate returns the per-GPU hourly price the offer is rented at.
func HourlyRate(offer compute.Offer, acq compute.Acquisition) (decimal.Decimal, error) {
	switch acq.Mode {
	case compute.ModeBid:
		return acq.BidPrice, nil
	case compute.ModeOnDemand:
		if offer.OnDemandPrice == nil {
			return decimal.Zero, fmt.Errorf("%w: %s on-demand", ErrNoPrice, offer.ID)
		}
		return *offer.OnDemandPrice, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNoPrice, acq)
	}
}

// Calculate estimates the cost of renting gpuCount GPUs of offer for d.
func Calculate(offer compute.Offer, acq compute.Acquisition, gpuCount int, d time.Duration) (*Estimate, error) {
	rate, err := HourlyRate(offer, acq)
	if err != nil {
		return nil, err
	}
	if gpuCount < 1 {
		gpuCount = 1
	}

	hours := decimal.NewFromInt(int64(d)).Div(hour)
	total := rate.Mul(decimal.NewFromInt(int64(gpuCount))).Mul(hours).Round(4)

	return &Estimate{
		Items: []LineItem{{
			Description: "GPU",
			Quantity:    gpuCount,
			UnitType:    offer.ID,
			UnitPrice:   rate,
			Total:       total,
		}},
		Total:       total,
		Duration:    d,
		Acquisition: acq,
	}, nil
}
