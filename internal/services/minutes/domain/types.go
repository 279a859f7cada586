// Package domain defines core types and interfaces for council minutes
package domain

import (
	"time"

	"leadscout/internal/core/rowkey"
)

// AfterKey supports stable keyset pagination over (created_at, id)
type AfterKey struct {
	CreatedAt time.Time
	ID        string // uuid
}

// ListInput defines the input parameters for listing candidate rows
type ListInput struct {
	Since time.Time // inclusive
	Until time.Time // exclusive
	After AfterKey  // zero value = from start
	Limit int       // hard-capped in service

	// Optional filters (all ANDed)
	Region   string
	Locality string
}

// Row is one transcript excerpt as collected by the external ingester.
// Immutable once fetched; every pipeline stage consumes it as-is and widens
// its own result instead of mutating the row
type Row struct {
	ID          string // uuid
	CreatedAt   time.Time
	Region      string
	Locality    string
	MeetingDate time.Time
	Title       string
	Summary     string
	Questioner  string
	Answerer    string
	SourceURL   string
	GroupID     string // subtitle group id; empty when the portal has no track
	StartSec    int
	EndSec      int
	ExternalID  string
	Category    string
	Stance      string
}

// MatchText is the concatenation keyword triage runs over
func (r Row) MatchText() string {
	if r.Summary == "" {
		return r.Title
	}
	return r.Title + " " + r.Summary
}

// KeyParts returns the identity fields for rowkey.Compute
func (r Row) KeyParts(tenant string) rowkey.Parts {
	return rowkey.Parts{
		Tenant:      tenant,
		GroupID:     r.GroupID,
		ExternalID:  r.ExternalID,
		Region:      r.Region,
		Locality:    r.Locality,
		MeetingDate: r.MeetingDate.Format("2006-01-02"),
		Title:       r.Title,
		StartSec:    r.StartSec,
		EndSec:      r.EndSec,
	}
}
