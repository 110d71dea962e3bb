package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
)

// coinIDs maps the bank's asset symbols to the quote service's coin ids.
var coinIDs = map[string]string{
	"ETH": "ethereum",
	"SOL": "solana",
}

// Client fetches spot prices over HTTP and caches them in Redis for a short
// window so a burst of trades does not hammer the upstream quote service.
// Quotes may therefore be stale between calls; callers treat a failed or
// non-positive quote as a rejection.
type Client struct {
	http     *http.Client
	redis    *redis.Client
	baseURL  string
	cacheTTL time.Duration
}

func New(redisClient *redis.Client) *Client {
	viper.SetDefault("oracle.base_url", "https://api.coingecko.com/api/v3/simple/price")
	viper.SetDefault("oracle.cache_ttl", 30*time.Second)
	viper.SetDefault("oracle.timeout", 10*time.Second)

	return &Client{
		http:     &http.Client{Timeout: viper.GetDuration("oracle.timeout")},
		redis:    redisClient,
		baseURL:  viper.GetString("oracle.base_url"),
		cacheTTL: viper.GetDuration("oracle.cache_ttl"),
	}
}

// Quote returns the current USD price of one unit of the asset.
func (c *Client) Quote(ctx context.Context, symbol string) (float64, error) {
	coinID, ok := coinIDs[symbol]
	if !ok {
		return 0, fmt.Errorf("unsupported asset symbol %q", symbol)
	}

	key := "quote:" + symbol
	if c.redis != nil {
		if price, err := c.redis.Get(ctx, key).Float64(); err == nil {
			return price, nil
		}
	}

	price, err := c.fetch(ctx, coinID)
	if err != nil {
		return 0, err
	}
	if price <= 0 {
		return 0, fmt.Errorf("non-positive quote %f for %s", price, symbol)
	}

	if c.redis != nil {
		if err := c.redis.Set(ctx, key, price, c.cacheTTL).Err(); err != nil {
			log.Printf("[ORACLE] Failed to cache quote for %s: %v", symbol, err)
		}
	}
	return price, nil
}

func (c *Client) fetch(ctx context.Context, coinID string) (float64, error) {
	q := url.Values{}
	q.Set("ids", coinID)
	q.Set("vs_currencies", "usd")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("quote service returned status %d", resp.StatusCode)
	}

	var body map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decoding quote response: %w", err)
	}
	price, ok := body[coinID]["usd"]
	if !ok {
		return 0, fmt.Errorf("quote response missing price for %s", coinID)
	}
	return price, nil
}
