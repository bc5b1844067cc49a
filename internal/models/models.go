package models

import (
	"time"
)

// CacheEntry is a durable key-value row with an absolute expiry. Both cache
// namespaces (item prices, inventory totals) share this table; rows past
// ExpiresAt are treated as absent on read and purged lazily by a cron job.
type CacheEntry struct {
	Namespace string    `json:"namespace" gorm:"primaryKey;size:64"`
	Key       string    `json:"key" gorm:"primaryKey;size:255"`
	Value     float64   `json:"value"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemValue is one priced inventory item in a detailed valuation response.
type ItemValue struct {
	Name     string  `json:"name"`
	PriceUSD float64 `json:"price_usd"`
}

// Valuation is the response body for a valuation request.
type Valuation struct {
	SteamID string      `json:"steamid"`
	Total   float64     `json:"total"`
	Cached  bool        `json:"cached"`
	Source  string      `json:"source"`
	Items   []ItemValue `json:"items,omitempty"`
}
