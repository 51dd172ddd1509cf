package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/hailcross/internal/hail"
)

// Domain prefixes; the version suffix leaves room for algorithm changes.
const (
	DomainInput = "hailcross/input/v1"
	DomainRun   = "hailcross/run/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// InputDigest identifies an ordered list of hailstones.
func InputDigest(stones []hail.Hailstone) (string, error) {
	list := make([]any, len(stones))
	for i, s := range stones {
		list[i] = []any{s.Pos.X, s.Pos.Y, s.Vel.X, s.Vel.Y}
	}

	canonical, err := MarshalCanonical(map[string]any{"hailstones": list})
	if err != nil {
		return "", fmt.Errorf("InputDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainInput, canonical), nil
}

// RunKey identifies a count over a given input and region. Worker count is
// excluded: it never changes the result.
func RunKey(inputDigest string, b hail.Bounds) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"input_digest": inputDigest,
		"low":          b.Low,
		"high":         b.High,
	})
	if err != nil {
		return "", fmt.Errorf("RunKey: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRun, canonical), nil
}
