// Package synthesis runs the full daily pipeline — imposter detection,
// speed analysis, combined signal — and persists the result as one
// idempotent record per (instrument, trade date).
package synthesis

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"

	"tape-analytics/internal/domain"
)

// Fingerprint computes a deterministic SHA-256 over a tick slice.
// Ticks are serialized in a canonical sort, so delivery order does not
// change the fingerprint. Returns hex-encoded hash (64 characters).
func Fingerprint(ticks []domain.TradeTick) string {
	sorted := make([]domain.TradeTick, len(ticks))
	copy(sorted, ticks)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		if a.BuyerCode != b.BuyerCode {
			return a.BuyerCode < b.BuyerCode
		}
		if a.SellerCode != b.SellerCode {
			return a.SellerCode < b.SellerCode
		}
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		return a.Quantity < b.Quantity
	})

	h := sha256.New()
	for _, tick := range sorted {
		fmt.Fprintf(h, "%d|%s|%s|%s|%s\n",
			tick.Time,
			strconv.FormatFloat(tick.Price, 'g', -1, 64),
			strconv.FormatFloat(tick.Quantity, 'g', -1, 64),
			tick.BuyerCode,
			tick.SellerCode,
		)
	}
	return hex.EncodeToString(h.Sum(nil))
}
