package runpod

import (
	"context"
	"fmt"

	graphql "github.com/hasura/go-graphql-client"
	"github.com/shopspring/decimal"

	"github.com/imamik/podtrain/internal/compute"
)

// ListOffers returns a snapshot of the GPU catalog priced for the filter's
// GPU count. Offers without a bid price keep a nil BidPrice.
func (c *Client) ListOffers(ctx context.Context, filter compute.CapacityFilter) ([]compute.Offer, error) {
	gpuCount := filter.GPUCount
	if gpuCount < 1 {
		gpuCount = 1
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	var q gpuTypesQuery
	vars := map[string]interface{}{
		"gpuCount": graphql.Int(gpuCount),
	}
	if err := c.gql.Query(ctx, &q, vars); err != nil {
		return nil, fmt.Errorf("failed to list gpu types: %w", classify(err))
	}

	offers := make([]compute.Offer, 0, len(q.GPUTypes))
	for _, t := range q.GPUTypes {
		offers = append(offers, toOffer(t))
	}
	c.log.Debugf("[Catalog] Fetched %d offers for %d GPU(s)", len(offers), gpuCount)

	return offers, nil
}

func toOffer(t gpuType) compute.Offer {
	return compute.Offer{
		ID:            string(t.ID),
		DisplayName:   string(t.DisplayName),
		MemoryGB:      intValue(t.MemoryInGb),
		BidPrice:      priceValue(t.LowestPrice.MinimumBidPrice),
		OnDemandPrice: priceValue(t.LowestPrice.UninterruptablePrice),
		TotalCount:    intValue(t.LowestPrice.TotalCount),
		RentedCount:   intValue(t.LowestPrice.RentedCount),
	}
}

func intValue(v *graphql.Int) int {
	if v == nil {
		return 0
	}
	return int(*v)
}

func priceValue(v *graphql.Float) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := decimal.NewFromFloat(float64(*v))
	return &d
}
