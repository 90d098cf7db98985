package prerouter

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gatehouse/gatehouse/core"
	"github.com/gatehouse/gatehouse/topk"
)

const (
	blockingDuration = 3 * time.Minute
	defaultBlockCost = 1
)

const (
	bucketDurationSec = 3600 // 1 hour buckets
)

// getTimeBucket returns the bucket number for a given time (periods since Unix epoch)
func getTimeBucket(t time.Time) int64 {
	return t.Unix() / bucketDurationSec
}

// formatBlockKey creates a consistent cache key for blocked IPs
func formatBlockKey(ip string, bucket int64) string {
	return fmt.Sprintf("blockip:%s|%d", ip, bucket)
}

// BlockIp is a circuit breaker against a single address flooding the
// service. It is not a nuanced rate limiter: an IP taking more than its
// share of the recent request window is cut off for a fixed duration.
type BlockIp struct {
	app    *core.App
	sketch *topk.TopKSketch
}

// sketchLevels defines parameter presets balancing memory against
// detection accuracy.
// - "low":    ~10 KB sketch. Low-traffic deployments, less accurate.
// - "medium": ~120 KB sketch. Balanced profile for most deployments.
// - "high":   ~640 KB sketch. High traffic, maximum accuracy.
var sketchLevels = map[string]topk.SketchParams{
	"low": {
		K:               2,
		WindowSize:      5,
		Width:           256,
		Depth:           2,
		TickSize:        100,
		MaxSharePercent: 50,
	},
	"medium": {
		K:               3,
		WindowSize:      10,
		Width:           1024,
		Depth:           3,
		TickSize:        100,
		MaxSharePercent: 40,
	},
	"high": {
		K:               5,
		WindowSize:      10,
		Width:           4096,
		Depth:           4,
		TickSize:        200,
		MaxSharePercent: 25,
	},
}

// NewBlockIp creates the middleware. The level is validated in
// config.Validate when blocking is enabled; when disabled the level may
// be unset, so fall back to medium rather than build a zero sketch.
func NewBlockIp(app *core.App) *BlockIp {
	params, ok := sketchLevels[app.Config().BlockIp.Level]
	if !ok {
		params = sketchLevels["medium"]
	}

	return &BlockIp{
		app:    app,
		sketch: topk.New(params),
	}
}

func (b *BlockIp) Execute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.IsEnabled() {
			ip := b.app.ClientIP(r)

			if b.IsBlocked(ip) {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			if err := b.Process(ip); err != nil {
				b.app.Logger().Error("Error processing IP in blocker", "ip", ip, "error", err)
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (b *BlockIp) IsEnabled() bool {
	return b.app.Config().BlockIp.Enabled
}

// IsBlocked checks if a given IP address is currently blocked by looking in the cache.
func (b *BlockIp) IsBlocked(ip string) bool {
	currentBucket := getTimeBucket(time.Now())
	key := formatBlockKey(ip, currentBucket)
	_, found := b.app.Cache().Get(key)
	return found
}

// Block adds the given IP to the block list. The entry is written to
// the current time bucket and, when the blocking window crosses the
// boundary, to the next bucket with the remaining TTL.
func (b *BlockIp) Block(ip string) error {
	now := time.Now()
	currentBucket := getTimeBucket(now)
	nextBucket := currentBucket + 1

	currentKey := formatBlockKey(ip, currentBucket)
	if !b.app.Cache().SetWithTTL(currentKey, true, defaultBlockCost, blockingDuration) {
		b.app.Logger().Error("failed to block IP in current bucket", "ip", ip, "bucket", currentBucket)
		return fmt.Errorf("failed to block IP %s in current bucket %d", ip, currentBucket)
	}
	b.app.Logger().Info("IP blocked",
		"ip", ip,
		"bucket", currentBucket,
		"duration", blockingDuration)

	timeUntilNextBucket := (nextBucket * bucketDurationSec) - now.Unix()
	ttlNext := blockingDuration - time.Duration(timeUntilNextBucket)*time.Second

	if ttlNext > 0 {
		nextKey := formatBlockKey(ip, nextBucket)
		if !b.app.Cache().SetWithTTL(nextKey, true, defaultBlockCost, ttlNext) {
			b.app.Logger().Error("failed to block IP in next bucket", "ip", ip, "bucket", nextBucket)
			return fmt.Errorf("failed to block IP %s in next bucket %d", ip, nextBucket)
		}
	}

	return nil
}

// Process feeds the IP to the sketch and blocks any addresses the
// sketch reports as over threshold on this tick.
//
// Blocking the same IP twice is harmless: ristretto merges writes for
// the same key, the last write wins.
func (b *BlockIp) Process(ip string) error {
	for _, blocked := range b.sketch.ProcessTick(ip) {
		if err := b.Block(blocked); err != nil {
			return err
		}
	}
	return nil
}
