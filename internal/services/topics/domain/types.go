// Package domain defines types and ports for storage-ready lead topics
package domain

import "time"

// Row is the storage-ready shape of one surviving lead. CompanyRowKey is the
// natural key the upsert conflicts on, derived once by rowkey.Compute and
// never re-derived here
type Row struct {
	ServiceID     string
	CompanyRowKey string

	Region      string
	Locality    string
	MeetingDate time.Time
	Title       string
	Summary     string
	Questioner  string
	Answerer    string
	SourceURL   string
	GroupID     string
	StartSec    int
	EndSec      int
	ExternalID  string
	Category    string
	Stance      string

	// Rendered evidence; full-range transcript text is never stored
	ExcerptText  string
	ExcerptRange string
	HasSubtitle  bool

	ZeroScore   int
	Rank        string // S A B C, empty when ranking was skipped
	Priority    string // A B C
	AiScore     int
	AiReasoning string
}
