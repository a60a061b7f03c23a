package clustering

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const listingJSON = `{
	"users": [
		{
			"user_id": "at-risk-user",
			"risk_level": "ALTO_RIESGO",
			"severity_index": 85,
			"factors": {
				"inactivity": 70,
				"night_activity": 60,
				"negativity": 80,
				"community_engagement": 10
			},
			"last_updated": "2025-11-30T10:00:00Z"
		}
	]
}`

func newClusteringServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func listingHandler(calls *atomic.Int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		if r.URL.Path != "/api/v2/clustering/data/high-risk-users" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(listingJSON))
	}
}

func TestFetchProfileHighRiskUser(t *testing.T) {
	srv := newClusteringServer(t, listingHandler(nil))
	c := NewClient(srv.URL, time.Second, time.Minute, nil)

	p := c.FetchProfile(context.Background(), "at-risk-user")

	if p.RiskLevel != RiskLevelHigh {
		t.Errorf("RiskLevel = %q, want %q", p.RiskLevel, RiskLevelHigh)
	}
	if p.SeverityIndex != 85 {
		t.Errorf("SeverityIndex = %v, want 85", p.SeverityIndex)
	}
	// Factors arrive on a 0-100 scale and must be normalized.
	if p.InactivityScore != 0.7 {
		t.Errorf("InactivityScore = %v, want 0.7", p.InactivityScore)
	}
	if p.CommunityEngagement != 0.1 {
		t.Errorf("CommunityEngagement = %v, want 0.1", p.CommunityEngagement)
	}
	if p.LastUpdated == nil {
		t.Error("LastUpdated not parsed")
	}
}

func TestFetchProfileAssumesLowRiskWhenAbsent(t *testing.T) {
	srv := newClusteringServer(t, listingHandler(nil))
	c := NewClient(srv.URL, time.Second, time.Minute, nil)

	p := c.FetchProfile(context.Background(), "calm-user")

	if p.RiskLevel != RiskLevelLow {
		t.Errorf("RiskLevel = %q, want %q", p.RiskLevel, RiskLevelLow)
	}
	if p.SeverityIndex != 20 {
		t.Errorf("SeverityIndex = %v, want 20", p.SeverityIndex)
	}
}

func TestFetchProfileDegradesOnFailure(t *testing.T) {
	tests := []struct {
		name string
		url  func(t *testing.T) string
	}{
		{
			name: "unreachable service",
			url: func(t *testing.T) string {
				return "http://127.0.0.1:1"
			},
		},
		{
			name: "server error",
			url: func(t *testing.T) string {
				srv := newClusteringServer(t, func(w http.ResponseWriter, r *http.Request) {
					http.Error(w, "boom", http.StatusInternalServerError)
				})
				return srv.URL
			},
		},
		{
			name: "garbage body",
			url: func(t *testing.T) string {
				srv := newClusteringServer(t, func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte("not json"))
				})
				return srv.URL
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.url(t), 200*time.Millisecond, time.Minute, nil)
			p := c.FetchProfile(context.Background(), "someone")

			if p.RiskLevel != RiskLevelUnknown {
				t.Errorf("RiskLevel = %q, want %q", p.RiskLevel, RiskLevelUnknown)
			}
			if p.UserID != "someone" {
				t.Errorf("UserID = %q, want the requested user", p.UserID)
			}
		})
	}
}

func TestFetchProfileDegradesOnTimeout(t *testing.T) {
	srv := newClusteringServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(listingJSON))
	})

	c := NewClient(srv.URL, 50*time.Millisecond, time.Minute, nil)
	p := c.FetchProfile(context.Background(), "at-risk-user")

	if p.RiskLevel != RiskLevelUnknown {
		t.Errorf("RiskLevel after timeout = %q, want %q", p.RiskLevel, RiskLevelUnknown)
	}
}

func TestFetchProfileCaches(t *testing.T) {
	var calls atomic.Int32
	srv := newClusteringServer(t, listingHandler(&calls))
	c := NewClient(srv.URL, time.Second, time.Minute, nil)

	first := c.FetchProfile(context.Background(), "at-risk-user")
	second := c.FetchProfile(context.Background(), "at-risk-user")

	if calls.Load() != 1 {
		t.Errorf("clustering service called %d times for the same user, want 1", calls.Load())
	}
	if first.RiskLevel != second.RiskLevel {
		t.Errorf("cached profile differs: %q vs %q", first.RiskLevel, second.RiskLevel)
	}
}

func TestHealth(t *testing.T) {
	srv := newClusteringServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	})

	c := NewClient(srv.URL, time.Second, time.Minute, nil)
	if !c.Health(context.Background()) {
		t.Error("Health() = false for healthy service")
	}

	dead := NewClient("http://127.0.0.1:1", 100*time.Millisecond, time.Minute, nil)
	if dead.Health(context.Background()) {
		t.Error("Health() = true for dead service")
	}
}
