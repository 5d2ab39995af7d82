package domain

// ProposalDocument is an immutable reference to one submitted proposal file.
// Text is extracted lazily through the TextExtractor port and never stored
// on the document itself.
type ProposalDocument struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
}

// MetadataRecord is one row of the authoritative metadata table.
// ProposalID may be empty when the table only carries titles.
type MetadataRecord struct {
	ProposalID    string `json:"proposal_id"`
	AuthorName    string `json:"author_name"`
	ProposalTitle string `json:"proposal_title"`
}

// ProposalRecord is the resolved identity for one proposal. Records are
// created once by the roster builder and never mutated afterwards.
type ProposalRecord struct {
	StudentID     string `json:"student_id"`
	ProposalID    string `json:"proposal_id"`
	Filename      string `json:"filename"`
	AuthorName    string `json:"author_name"`
	ProposalTitle string `json:"proposal_title"`
}
