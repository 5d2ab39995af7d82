package domain

import "fmt"

// Provenance is the true origin of a review source. It is recorded in the
// master key and never shown to students.
type Provenance string

const (
	ProvenanceHuman Provenance = "Human"
	ProvenanceAI    Provenance = "AI"
)

// ReviewSource is one internal review slot with its fixed provenance.
type ReviewSource struct {
	ID         string     `json:"id"`
	Provenance Provenance `json:"provenance"`
}

// SourceSet is the ordered set of internal review sources and the public
// labels students see in their place. It is passed explicitly into the key
// generator so tests can substitute alternative sets; the declared source
// order is the pairing order for label permutations.
type SourceSet struct {
	Sources      []ReviewSource `json:"sources"`
	PublicLabels []string       `json:"public_labels"`
}

// DefaultSourceSet returns the production configuration: two human review
// slots and two AI review slots behind four generic labels.
func DefaultSourceSet() SourceSet {
	return SourceSet{
		Sources: []ReviewSource{
			{ID: "H1", Provenance: ProvenanceHuman},
			{ID: "H2", Provenance: ProvenanceHuman},
			{ID: "AI1", Provenance: ProvenanceAI},
			{ID: "AI2", Provenance: ProvenanceAI},
		},
		PublicLabels: []string{"Review_1", "Review_2", "Review_3", "Review_4"},
	}
}

// Validate checks that the set is usable for key generation: at least one
// source, label cardinality equal to source cardinality, no duplicate IDs.
func (s SourceSet) Validate() error {
	if len(s.Sources) == 0 {
		return WrapError(ErrInvalidInput, "validate source set", fmt.Errorf("no sources declared"))
	}
	if len(s.PublicLabels) != len(s.Sources) {
		return WrapError(ErrInvalidInput, "validate source set",
			fmt.Errorf("label/source cardinality mismatch: %d/%d", len(s.PublicLabels), len(s.Sources)))
	}
	seen := make(map[string]struct{}, len(s.Sources))
	for _, src := range s.Sources {
		if _, ok := seen[src.ID]; ok {
			return WrapError(ErrInvalidInput, "validate source set", fmt.Errorf("duplicate source id %s", src.ID))
		}
		seen[src.ID] = struct{}{}
	}
	return nil
}

// ArtifactName is the internal review filename for one (student, source)
// pair. The same convention is used by the completeness validator and the
// master key.
func ArtifactName(studentID, sourceID string) string {
	return fmt.Sprintf("%s_%s.pdf", studentID, sourceID)
}

// ReviewStyle selects the prompt register for generated reviews.
type ReviewStyle string

const (
	StyleDetailed ReviewStyle = "detailed"
	StyleConcise  ReviewStyle = "concise"
)

// KeyEntry is one row of the master key. Within a student's entries the
// public labels form a permutation of the set's labels; TrueSource is always
// the registry value for the internal source, independent of randomization.
type KeyEntry struct {
	StudentID    string     `json:"student_id"`
	InternalName string     `json:"internal_name"`
	TrueSource   Provenance `json:"true_source"`
	PublicLabel  string     `json:"public_label"`
}
