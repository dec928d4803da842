package lichess

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/replaylens/replaylens/internal/models"
	"github.com/replaylens/replaylens/internal/stats"
)

// CachingClient wraps a ClientInterface with an LRU cache over cloud
// evaluations. Concurrent requests for the same position are coalesced into
// a single upstream fetch, which matters during the per-game fan-out where
// transpositions repeat positions.
type CachingClient struct {
	inner     ClientInterface
	evals     *lru.Cache[string, models.CloudEval]
	group     singleflight.Group
	collector stats.Collector
}

// NewCaching wraps inner with an eval cache of the given size.
func NewCaching(inner ClientInterface, size int, collector stats.Collector) (*CachingClient, error) {
	if size < 1 {
		size = 1024
	}
	if collector == nil {
		collector = stats.Noop{}
	}
	evals, err := lru.New[string, models.CloudEval](size)
	if err != nil {
		return nil, fmt.Errorf("create eval cache: %w", err)
	}
	return &CachingClient{
		inner:     inner,
		evals:     evals,
		collector: collector,
	}, nil
}

// FetchCloudEval serves from cache when possible. Errors are not cached:
// a 404 position may become available once someone runs the analysis.
func (c *CachingClient) FetchCloudEval(ctx context.Context, fen string, depth int) (models.CloudEval, error) {
	key := fmt.Sprintf("%s|%d", fen, depth)

	if eval, ok := c.evals.Get(key); ok {
		c.collector.IncCounter(stats.MetricCacheHits, 1)
		return eval, nil
	}
	c.collector.IncCounter(stats.MetricCacheMisses, 1)

	v, err, _ := c.group.Do(key, func() (any, error) {
		eval, err := c.inner.FetchCloudEval(ctx, fen, depth)
		if err != nil {
			return nil, err
		}
		c.evals.Add(key, eval)
		c.collector.SetGauge(stats.MetricCacheSize, int64(c.evals.Len()))
		return eval, nil
	})
	if err != nil {
		return models.CloudEval{}, err
	}
	return v.(models.CloudEval), nil
}

// FetchGame passes through; game records are fetched once per analysis.
func (c *CachingClient) FetchGame(ctx context.Context, gameID string) (models.GameRecord, error) {
	return c.inner.FetchGame(ctx, gameID)
}

// FetchAnnotatedPGN passes through.
func (c *CachingClient) FetchAnnotatedPGN(ctx context.Context, gameID string) (string, error) {
	return c.inner.FetchAnnotatedPGN(ctx, gameID)
}
