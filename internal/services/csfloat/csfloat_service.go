package csfloat

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"

	"steam-valuator/internal/fetch"
)

// Service prices items through the CSFloat listings search API. Listing prices
// are integer cents; an empty result set is a valid "no data" answer and
// prices as zero.
type Service struct {
	apiKey  string
	baseURL string
	fetcher *fetch.Client
	log     *logrus.Entry
}

type listing struct {
	Price int64 `json:"price"`
}

func NewService(apiKey string, fetcher *fetch.Client) *Service {
	return &Service{
		apiKey:  apiKey,
		baseURL: "https://api.csfloat.com",
		fetcher: fetcher,
		log:     logrus.WithField("source", "csfloat"),
	}
}

func (s *Service) Name() string {
	return "CSFloat"
}

// Price returns the first listing's price in USD for the given market hash
// name. No listings means zero, not an error; errors are reserved for the
// upstream being unreachable.
func (s *Service) Price(ctx context.Context, marketHashName string) (float64, error) {
	endpoint := fmt.Sprintf("%s/api/v1/listings?search=%s", s.baseURL, url.QueryEscape(marketHashName))

	headers := map[string]string{}
	if s.apiKey != "" {
		headers["Authorization"] = "Bearer " + s.apiKey
	}

	var listings []listing
	if err := s.fetcher.GetJSON(ctx, endpoint, headers, &listings); err != nil {
		return 0, err
	}
	if len(listings) == 0 {
		s.log.WithField("item", marketHashName).Debug("no listings found")
		return 0, nil
	}
	return float64(listings[0].Price) / 100.0, nil
}
