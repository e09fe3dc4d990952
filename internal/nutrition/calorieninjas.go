package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"alcyxob/tritrack/internal/config"
	"alcyxob/tritrack/internal/domain"
	"alcyxob/tritrack/internal/metrics"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNoItems          = errors.New("no food items recognised")
	ErrMissingAPIKey    = errors.New("calorieninjas API key not configured")
	ErrEmptyDescription = errors.New("meal description is empty")
)

// Item is one food the nutrition API recognised in a description.
type Item struct {
	Name          string  `json:"name"`
	Calories      float64 `json:"calories"`
	ServingSizeG  float64 `json:"serving_size_g"`
	ProteinG      float64 `json:"protein_g"`
	CarbohydrateG float64 `json:"carbohydrates_total_g"`
	FatG          float64 `json:"fat_total_g"`
	FiberG        float64 `json:"fiber_g"`
	SugarG        float64 `json:"sugar_g"`
	SodiumMg      float64 `json:"sodium_mg"`
}

type apiResponse struct {
	Items []Item `json:"items"`
}

// Analysis is the summed nutrition of a meal description plus the items behind it.
type Analysis struct {
	Nutrition domain.Nutrition `json:"nutrition"`
	Items     []Item           `json:"items"`
}

// ItemNames lists the recognised food names in API order.
func (a *Analysis) ItemNames() []string {
	names := make([]string, 0, len(a.Items))
	for _, it := range a.Items {
		names = append(names, it.Name)
	}
	return names
}

// Client queries the CalorieNinjas nutrition endpoint. Results are cached per instance.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *freecache.Cache
	cacheTTL   int // seconds
	instr      *metrics.Manager
}

func NewClient(cfg config.CalorieNinjasConfig, instr *metrics.Manager) *Client {
	megabyte := 1024 * 1024
	cacheSize := cfg.CacheMB * megabyte

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      freecache.NewCache(cacheSize),
		cacheTTL:   int(cfg.CacheTTL / time.Second),
		instr:      instr,
	}
}

func cacheKey(description string) string {
	return "nutrition::" + strings.ToLower(strings.TrimSpace(description))
}

// Analyze returns the summed nutrition of a free text meal description.
func (c *Client) Analyze(ctx context.Context, description string) (*Analysis, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrEmptyDescription
	}

	key := []byte(cacheKey(description))
	if cached, err := c.cache.Get(key); err == nil {
		analysis := &Analysis{}
		if err = json.Unmarshal(cached, analysis); err == nil {
			c.observeCache("hit")
			return analysis, nil
		}
		log.Errorf("failed to unmarshal cached nutrition for %q: %s", description, err)
	}
	c.observeCache("miss")

	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	items, err := c.fetch(ctx, description)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	analysis := &Analysis{Nutrition: Sum(items), Items: items}

	if encoded, err := json.Marshal(analysis); err == nil {
		if err = c.cache.Set(key, encoded, c.cacheTTL); err != nil {
			log.Errorf("failed to write nutrition cache for %q: %s", description, err)
		}
	}
	return analysis, nil
}

func (c *Client) fetch(ctx context.Context, description string) ([]Item, error) {
	endpoint := fmt.Sprintf("%s/v1/nutrition?query=%s", c.baseURL, url.QueryEscape(description))
	log.Debugf("calling nutrition api: %s", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create nutrition request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nutrition request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read nutrition response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nutrition api returned status %d", resp.StatusCode)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode nutrition response: %w", err)
	}
	return parsed.Items, nil
}

func (c *Client) observeCache(result string) {
	if c.instr != nil {
		c.instr.CounterNutritionCache.WithLabelValues(result).Inc()
	}
}

// Sum adds up the items. Calories are rounded to a whole number, everything else to one decimal.
func Sum(items []Item) domain.Nutrition {
	var calories, protein, carbs, fat, fiber, sugar, sodium float64
	for _, it := range items {
		calories += it.Calories
		protein += it.ProteinG
		carbs += it.CarbohydrateG
		fat += it.FatG
		fiber += it.FiberG
		sugar += it.SugarG
		sodium += it.SodiumMg
	}
	return domain.Nutrition{
		Calories: int(math.Round(calories)),
		ProteinG: round1(protein),
		CarbsG:   round1(carbs),
		FatG:     round1(fat),
		FiberG:   round1(fiber),
		SugarG:   round1(sugar),
		SodiumMg: round1(sodium),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
