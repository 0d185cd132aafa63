package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/config"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
)

func TestNewDashboardCache_DisabledIsNoop(t *testing.T) {
	c, err := NewDashboardCache(config.CacheConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewDashboardCache: %v", err)
	}
	ctx := context.Background()
	if err := c.SetSummary(ctx, "", &domain.DashboardSummary{POReceived: 3}); err != nil {
		t.Fatalf("SetSummary: %v", err)
	}
	if _, ok, err := c.GetSummary(ctx, ""); ok || err != nil {
		t.Fatalf("noop cache returned a hit: ok=%v err=%v", ok, err)
	}
}

func TestBuildRedisOptions(t *testing.T) {
	opts, err := buildRedisOptions(config.CacheConfig{RedisHost: "cache", RedisPort: "6380", RedisDB: 2})
	if err != nil {
		t.Fatalf("buildRedisOptions: %v", err)
	}
	if opts.Addr != "cache:6380" || opts.DB != 2 {
		t.Fatalf("opts = %+v", opts)
	}

	opts, err = buildRedisOptions(config.CacheConfig{RedisURL: "redis://:secret@redis.local:6379/4"})
	if err != nil {
		t.Fatalf("buildRedisOptions: %v", err)
	}
	if opts.Addr != "redis.local:6379" || opts.DB != 4 || opts.Password != "secret" {
		t.Fatalf("opts = %+v", opts)
	}

	if _, err := buildRedisOptions(config.CacheConfig{RedisURL: "://bad"}); err == nil {
		t.Fatal("expected error for invalid url")
	}
}

func TestBuildKey(t *testing.T) {
	if got := buildKey(dashboardSummaryKeyPrefix, ""); got != "dashboard:summary:default" {
		t.Fatalf("buildKey default = %q", got)
	}
	a := buildKey(dashboardSummaryKeyPrefix, "backend=remote")
	b := buildKey(dashboardSummaryKeyPrefix, "backend=local")
	if a == b || !strings.HasPrefix(a, dashboardSummaryKeyPrefix+":") {
		t.Fatalf("keys not scoped: %q %q", a, b)
	}
}
