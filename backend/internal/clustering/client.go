package clustering

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aura-plataforma/chatbot-service/backend/internal/cache"
	"github.com/aura-plataforma/chatbot-service/backend/internal/metrics"
)

// Provider fetches the historical risk profile for a user. Implementations
// must be total: any transport failure degrades to the unknown profile, it
// is never surfaced to the caller.
type Provider interface {
	FetchProfile(ctx context.Context, userID string) Profile
}

// Client talks to the clustering service. The service only publishes a
// high-risk-users listing; a user absent from it is assumed low risk with
// nominal KPI values.
type Client struct {
	baseURL string
	client  *http.Client
	cache   *cache.Store
	logger  *log.Logger
}

// NewClient creates a clustering service client. Profiles are cached for
// cacheTTL since the clustering batch recomputes them on a slow cadence.
func NewClient(baseURL string, timeout, cacheTTL time.Duration, logger *log.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		cache:   cache.New(1000, cacheTTL),
		logger:  logger,
	}
}

// highRiskListing matches the clustering service's response schema.
type highRiskListing struct {
	Users []highRiskUser `json:"users"`
}

type highRiskUser struct {
	UserID        string  `json:"user_id"`
	RiskLevel     string  `json:"risk_level"`
	SeverityIndex float64 `json:"severity_index"`
	// KPI factors arrive on a 0-100 scale.
	Factors struct {
		Inactivity          float64 `json:"inactivity"`
		NightActivity       float64 `json:"night_activity"`
		Negativity          float64 `json:"negativity"`
		CommunityEngagement float64 `json:"community_engagement"`
	} `json:"factors"`
	LastUpdated string `json:"last_updated"`
}

// FetchProfile obtains the risk profile for a user. It is total: timeouts
// and transport errors degrade to the unknown/default profile.
func (c *Client) FetchProfile(ctx context.Context, userID string) Profile {
	key := cache.HashKey(userID)
	if cached, ok := c.cache.Get(key); ok {
		if profile, ok := cached.(Profile); ok {
			return profile
		}
	}

	profile, err := c.fetch(ctx, userID)
	if err != nil {
		c.logError("risk profile fetch for %.8s failed, using default profile: %v", userID, err)
		metrics.RecordProfileFetchFailure()
		return DefaultProfile(userID)
	}

	c.cache.Set(key, profile)
	return profile
}

func (c *Client) fetch(ctx context.Context, userID string) (Profile, error) {
	url := fmt.Sprintf("%s/api/v2/clustering/data/high-risk-users?limit=50", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Profile{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Profile{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("clustering service returned status %d", resp.StatusCode)
	}

	var listing highRiskListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return Profile{}, fmt.Errorf("failed to decode high-risk listing: %w", err)
	}

	for _, user := range listing.Users {
		if user.UserID == userID {
			return c.buildProfile(user), nil
		}
	}

	// Not in the high-risk listing: assume low risk with nominal KPIs.
	return Profile{
		UserID:              userID,
		RiskLevel:           RiskLevelLow,
		SeverityIndex:       20,
		InactivityScore:     0.2,
		NightActivityScore:  0.1,
		NegativityScore:     0.2,
		CommunityEngagement: 0.6,
	}, nil
}

func (c *Client) buildProfile(user highRiskUser) Profile {
	profile := Profile{
		UserID:              user.UserID,
		RiskLevel:           user.RiskLevel,
		SeverityIndex:       user.SeverityIndex,
		InactivityScore:     user.Factors.Inactivity / 100,
		NightActivityScore:  user.Factors.NightActivity / 100,
		NegativityScore:     user.Factors.Negativity / 100,
		CommunityEngagement: user.Factors.CommunityEngagement / 100,
	}
	if profile.RiskLevel == "" {
		profile.RiskLevel = RiskLevelUnknown
	}
	if user.LastUpdated != "" {
		if updated, err := time.Parse(time.RFC3339, user.LastUpdated); err == nil {
			profile.LastUpdated = &updated
		}
	}
	return profile
}

// Health checks if the clustering service is available.
func (c *Client) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *Client) logError(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Printf("[ERROR] "+format, args...)
	}
}
