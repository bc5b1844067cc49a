package inventory

import (
	"context"
	"errors"
	"fmt"

	"steam-valuator/internal/fetch"
)

// ErrMalformedResponse means the inventory endpoint answered but the payload
// did not carry a descriptions list. This is an upstream failure, distinct
// from a valid inventory that happens to be empty.
var ErrMalformedResponse = errors.New("inventory response missing descriptions")

// Item is one owned item as described by the Steam inventory endpoint. Items
// without a MarketHashName cannot be priced.
type Item struct {
	Name           string `json:"name"`
	MarketHashName string `json:"market_hash_name"`
}

// Service retrieves CS:GO (app 730) inventories from the Steam community
// endpoint.
type Service struct {
	baseURL string
	fetcher *fetch.Client
}

type inventoryResponse struct {
	// Pointer so an absent key can be told apart from an empty list.
	Descriptions *[]Item `json:"descriptions"`
}

func NewService(fetcher *fetch.Client) *Service {
	return &Service{
		baseURL: "https://steamcommunity.com",
		fetcher: fetcher,
	}
}

// GetInventory returns the user's item descriptions. An empty slice with a
// nil error is a valid, empty inventory.
func (s *Service) GetInventory(ctx context.Context, steamID string) ([]Item, error) {
	endpoint := fmt.Sprintf("%s/inventory/%s/730/2?l=english&count=5000", s.baseURL, steamID)

	var resp inventoryResponse
	if err := s.fetcher.GetJSON(ctx, endpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching inventory for %s: %w", steamID, err)
	}
	if resp.Descriptions == nil {
		return nil, ErrMalformedResponse
	}
	return *resp.Descriptions, nil
}
