package domain

// ReviewSubmission is one submitted human review from the review-form
// export. Fields holds the raw answer per export column name; the ingest
// use case decides ordering and formatting.
type ReviewSubmission struct {
	ProposalID    string            `json:"proposal_id"`
	ProposalTitle string            `json:"proposal_title"`
	ReviewerName  string            `json:"reviewer_name"`
	Fields        map[string]string `json:"fields"`
}

// IngestStats summarizes one human-review ingestion run.
type IngestStats struct {
	Students   int `json:"students"`
	Written    int `json:"written"`
	Duplicated int `json:"duplicated"`
	Skipped    int `json:"skipped"`
}
