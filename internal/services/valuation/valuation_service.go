package valuation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"steam-valuator/internal/cache"
	"steam-valuator/internal/models"
	"steam-valuator/internal/services/inventory"
)

var (
	// ErrInventoryUnavailable means the inventory collaborator produced no
	// parsable response. Distinct from an inventory that is simply empty.
	ErrInventoryUnavailable = errors.New("failed to fetch inventory")
	// ErrEmptyInventory means the inventory was retrieved and holds no items.
	ErrEmptyInventory = errors.New("no items found")
)

// PriceSource is one upstream pricing strategy. Price returns zero with a nil
// error for "looked up, no data"; errors mean the upstream was unreachable.
type PriceSource interface {
	Name() string
	Price(ctx context.Context, marketHashName string) (float64, error)
}

// InventoryProvider retrieves a user's owned items.
type InventoryProvider interface {
	GetInventory(ctx context.Context, steamID string) ([]inventory.Item, error)
}

// Service values inventories by resolving each item to a market price. The
// pricing source is fixed at construction; it is never re-selected
// per request.
type Service struct {
	inventory InventoryProvider
	source    PriceSource
	prices    *cache.Cache
	totals    *cache.Cache
	jitterMin time.Duration
	jitterMax time.Duration
	log       *logrus.Entry
}

func NewService(inv InventoryProvider, source PriceSource, prices, totals *cache.Cache) *Service {
	return &Service{
		inventory: inv,
		source:    source,
		prices:    prices,
		totals:    totals,
		jitterMin: 300 * time.Millisecond,
		jitterMax: 800 * time.Millisecond,
		log:       logrus.WithField("component", "valuation"),
	}
}

// ResolvePrice returns the item's price, consulting the price cache first. On
// a miss it queries the configured source, caches whatever came back (zero
// included) and sleeps a short random interval so a burst of misses does not
// hammer the upstream. A cache hit involves no external call and no sleep.
func (s *Service) ResolvePrice(ctx context.Context, marketHashName string) float64 {
	if price, ok := s.prices.Get(ctx, marketHashName); ok {
		return price
	}

	price, err := s.source.Price(ctx, marketHashName)
	if err != nil {
		s.log.WithError(err).WithField("item", marketHashName).Warn("price lookup failed, recording zero")
		price = 0
	}
	s.prices.Put(ctx, marketHashName, price)
	s.jitter(ctx)
	return price
}

// ValueInventory computes the total market value of the user's inventory.
// Non-detailed requests are served from the total cache when fresh; detailed
// requests always recompute because per-item breakdowns are never cached. The
// computed total is written back either way.
func (s *Service) ValueInventory(ctx context.Context, steamID string, detailed bool) (*models.Valuation, error) {
	if !detailed {
		if total, ok := s.totals.Get(ctx, steamID); ok {
			return &models.Valuation{
				SteamID: steamID,
				Total:   round2(total),
				Cached:  true,
				Source:  s.source.Name(),
			}, nil
		}
	}

	items, err := s.inventory.GetInventory(ctx, steamID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInventoryUnavailable, err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyInventory
	}

	var total float64
	var details []models.ItemValue
	for _, item := range items {
		if item.MarketHashName == "" {
			continue
		}
		price := s.ResolvePrice(ctx, item.MarketHashName)
		total += price
		if detailed {
			details = append(details, models.ItemValue{
				Name:     item.MarketHashName,
				PriceUSD: round2(price),
			})
		}
	}

	s.totals.Put(ctx, steamID, total)

	result := &models.Valuation{
		SteamID: steamID,
		Total:   round2(total),
		Cached:  false,
		Source:  s.source.Name(),
	}
	if detailed {
		sort.SliceStable(details, func(i, j int) bool {
			return details[i].PriceUSD > details[j].PriceUSD
		})
		result.Items = details
	}
	return result, nil
}

// jitter sleeps for a uniform random duration between jitterMin and jitterMax,
// spacing consecutive upstream lookups apart. Only called after a genuine
// fetch, never on a cache hit.
func (s *Service) jitter(ctx context.Context) {
	d := s.jitterMin
	if span := s.jitterMax - s.jitterMin; span > 0 {
		d += time.Duration(rand.Int63n(int64(span)))
	}
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
