package models

import "time"

// QueryRecord is one processed chat query.
type QueryRecord struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	QueryText    string    `json:"query_text"`
	Intent       string    `json:"intent"`
	Narrative    string    `json:"narrative"`
	ArtifactKind string    `json:"artifact_kind"`
	Executed     bool      `json:"executed"`
	LatencyMS    int       `json:"latency_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

// QueryArtifact stores the synthesized artifact as JSON alongside its
// query record.
type QueryArtifact struct {
	ID      int    `json:"id"`
	QueryID string `json:"query_id"`
	Kind    string `json:"kind"`
	Payload string `json:"payload"`
}

type Feedback struct {
	ID            int       `json:"id"`
	QueryID       string    `json:"query_id"`
	Helpful       bool      `json:"helpful"`
	IssueCategory string    `json:"issue_category,omitempty"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
