package cache

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/peace-adamu/inventory-management-system/internal/economics"
)

const reportKeyPrefix = "inventory:report"

// ReportKey identifies one rendered report. Params are order-insensitive.
type ReportKey struct {
	Kind   string
	Params map[string]string
	Policy economics.Policy
}

// ReportCache stores rendered text reports until the next inventory write.
type ReportCache interface {
	GetReport(ctx context.Context, key ReportKey) (string, bool, error)
	SetReport(ctx context.Context, key ReportKey, body string) error
	InvalidateAll(ctx context.Context) error
}

type redisReportCache struct {
	redis *Redis
}

type noopReportCache struct{}

// NewReportCache caches through r, or does nothing when r is nil.
func NewReportCache(r *Redis) ReportCache {
	if r == nil {
		return &noopReportCache{}
	}
	return &redisReportCache{redis: r}
}

func NewNoopReportCache() ReportCache {
	return &noopReportCache{}
}

func (c *redisReportCache) GetReport(ctx context.Context, key ReportKey) (string, bool, error) {
	body, ok, err := c.redis.get(ctx, buildReportKey(key))
	if !ok || err != nil {
		return "", false, err
	}
	return string(body), true, nil
}

func (c *redisReportCache) SetReport(ctx context.Context, key ReportKey, body string) error {
	return c.redis.set(ctx, buildReportKey(key), []byte(body))
}

func (c *redisReportCache) InvalidateAll(ctx context.Context) error {
	return c.redis.unlinkPrefix(ctx, reportKeyPrefix)
}

func (n *noopReportCache) GetReport(ctx context.Context, key ReportKey) (string, bool, error) {
	return "", false, nil
}

func (n *noopReportCache) SetReport(ctx context.Context, key ReportKey, body string) error {
	return nil
}

func (n *noopReportCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildReportKey(key ReportKey) string {
	parts := []string{"kind=" + strings.ToLower(key.Kind)}

	names := make([]string, 0, len(key.Params))
	for name := range key.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if v := key.Params[name]; v != "" {
			parts = append(parts, name+"="+strings.ToUpper(v))
		}
	}

	policy, _ := json.Marshal(key.Policy)
	parts = append(parts, "policy="+string(policy))

	return hashedKey(reportKeyPrefix, strings.Join(parts, "|"))
}
