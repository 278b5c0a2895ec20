package marketplace

import (
	"fmt"

	"sneaker-feed/internal/domain"
	"sneaker-feed/internal/sizing"
)

// Item converts a product into a catalog item.
func (p *Product) Item() *domain.Item {
	return &domain.Item{
		StyleID:     p.StyleID,
		Gender:      p.Gender,
		URLKey:      p.URLKey,
		ColorWay:    p.ColorWay,
		Name:        p.Name,
		Title:       p.Title,
		RetailPrice: string(p.RetailPrice),
		UUID:        p.UUID,
		PID:         string(p.PID),
		ReleaseDate: p.ReleaseDate,
	}
}

// ParseProduct maps a detail response to normalized size -> market snapshot.
// Variants whose size cannot be normalized or that carry no market data are
// left out and reported in the returned error slice; they never fail the product.
// When two variants normalize to the same size the later one wins.
func ParseProduct(resp *ProductResponse) (map[string]domain.MarketSnapshot, []error) {
	if resp == nil || resp.Product == nil {
		return nil, []error{ErrEmptyResponse}
	}

	snapshots := make(map[string]domain.MarketSnapshot, len(resp.Product.Variants))
	var errs []error

	for i, v := range resp.Product.Variants {
		size, err := sizing.Normalize(v.Size)
		if err != nil {
			errs = append(errs, fmt.Errorf("variant %d: %w", i, err))
			continue
		}
		if v.Market == nil {
			errs = append(errs, fmt.Errorf("variant %d size %s: %w", i, size, ErrMissingMarket))
			continue
		}

		snapshots[size] = domain.MarketSnapshot{
			BestAsk:      v.Market.LowestAsk,
			BestBid:      v.Market.HighestBid,
			AnnualHigh:   v.Market.AnnualHigh,
			AnnualLow:    v.Market.AnnualLow,
			Volatility:   v.Market.Volatility,
			SalesLast72h: v.Market.SalesLast72Hours,
			NumberOfAsks: v.Market.NumberOfAsks,
			NumberOfBids: v.Market.NumberOfBids,
		}
	}

	return snapshots, errs
}
