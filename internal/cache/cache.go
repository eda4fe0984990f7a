// Package cache memoises rendered curves between evaluations that share
// the same distribution and curve settings.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ppiankov/normregion/internal/model"
)

// Cache defines the interface for curve caching.
// Returned curves are shared; callers must not modify them.
type Cache interface {
	Get(key string) ([]model.Point, bool)
	Set(key string, curve []model.Point, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CurveKey generates a cache key from a distribution and curve settings
func CurveKey(mean, stdDev float64, cfg model.CurveConfig) string {
	raw := fmt.Sprintf("%v|%v|%s|%d|%d|%d", mean, stdDev, cfg.Mode, cfg.Draws, cfg.Points, cfg.Seed)
	hash := sha256.Sum256([]byte(raw))
	return "normregion:v1:curve:" + hex.EncodeToString(hash[:])
}
