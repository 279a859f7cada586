// Package rowkey derives the canonical row identity used for dedup and the
// storage upsert key. Every stage that needs "is this the same lead" calls
// Compute; nothing re-derives identity with its own separators or filters.
// StartSec and EndSec always participate because one meeting video can hold
// several distinct agenda segments that must not collapse into one lead
package rowkey

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Parts carries the fields identity derives from. Tenant is the commercial
// service id; the rest come straight off the candidate row
type Parts struct {
	Tenant      string
	GroupID     string
	ExternalID  string
	Region      string
	Locality    string
	MeetingDate string
	Title       string
	StartSec    int
	EndSec      int
}

// Compute returns the canonical key. Identity precedence: subtitle group id,
// then external id, then a stable hash over the descriptive fields
func Compute(p Parts) string {
	span := strconv.Itoa(p.StartSec) + "|" + strconv.Itoa(p.EndSec)

	if g := clean(p.GroupID); g != "" {
		return "grp:" + clean(p.Tenant) + "|" + g + "|" + span
	}
	if x := clean(p.ExternalID); x != "" {
		return "ext:" + clean(p.Tenant) + "|" + x + "|" + span
	}

	sum := sha256.Sum256([]byte(strings.Join([]string{
		p.Tenant,
		p.Region,
		p.Locality,
		p.MeetingDate,
		p.Title,
		span,
	}, "|")))
	return "sha:" + hex.EncodeToString(sum[:])
}

// clean trims a component and keeps the separator unambiguous
func clean(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "|", "_")
}
