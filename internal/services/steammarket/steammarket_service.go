package steammarket

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"steam-valuator/internal/fetch"
)

// Service prices items through the public Steam Community Market price
// overview endpoint. No credential is required, which makes it the fallback
// source when no CSFloat key is configured.
type Service struct {
	baseURL string
	fetcher *fetch.Client
	log     *logrus.Entry
}

type overviewResponse struct {
	Success     bool   `json:"success"`
	LowestPrice string `json:"lowest_price"`
	MedianPrice string `json:"median_price"`
}

var priceCleaner = strings.NewReplacer("$", "", ",", "")

func NewService(fetcher *fetch.Client) *Service {
	return &Service{
		baseURL: "https://steamcommunity.com",
		fetcher: fetcher,
		log:     logrus.WithField("source", "steammarket"),
	}
}

func (s *Service) Name() string {
	return "Steam Market"
}

// Price returns the lowest listed price for the item, falling back to the
// median price when no lowest is reported. Unsuccessful or unparsable
// responses price as zero rather than erroring.
func (s *Service) Price(ctx context.Context, marketHashName string) (float64, error) {
	endpoint := fmt.Sprintf("%s/market/priceoverview/?appid=730&currency=1&market_hash_name=%s",
		s.baseURL, url.QueryEscape(marketHashName))

	var overview overviewResponse
	if err := s.fetcher.GetJSON(ctx, endpoint, nil, &overview); err != nil {
		return 0, err
	}
	if !overview.Success {
		s.log.WithField("item", marketHashName).Debug("price overview reported failure")
		return 0, nil
	}

	priceStr := overview.LowestPrice
	if priceStr == "" {
		priceStr = overview.MedianPrice
	}
	if priceStr == "" {
		return 0, nil
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(priceCleaner.Replace(priceStr)), 64)
	if err != nil {
		s.log.WithField("raw", priceStr).Warn("unparsable price string")
		return 0, nil
	}
	return price, nil
}
