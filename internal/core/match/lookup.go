package match

import (
	"strings"

	"peerblind/internal/core/domain"
)

const idKeyPrefix = "id:"

// Lookup indexes metadata records under two kinds of keys: the normalized
// proposal title and "id:"+lowercased canonical ID. Insertion order is
// preserved and first write wins, so registration order is a tested
// contract rather than incidental map behavior.
type Lookup struct {
	order   []string
	records map[string]domain.MetadataRecord
}

func NewLookup() *Lookup {
	return &Lookup{records: make(map[string]domain.MetadataRecord)}
}

// Register indexes one record. Rows with neither a title nor an ID are
// ignored.
func (l *Lookup) Register(rec domain.MetadataRecord) {
	if rec.ProposalTitle == "" && rec.ProposalID == "" {
		return
	}
	if rec.ProposalTitle != "" {
		l.insertIfAbsent(Key(rec.ProposalTitle), rec)
	}
	if rec.ProposalID != "" {
		l.insertIfAbsent(idKeyPrefix+strings.ToLower(rec.ProposalID), rec)
	}
}

func (l *Lookup) insertIfAbsent(key string, rec domain.MetadataRecord) {
	if key == idKeyPrefix || key == "" {
		return
	}
	if _, exists := l.records[key]; exists {
		return
	}
	l.records[key] = rec
	l.order = append(l.order, key)
}

func (l *Lookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.records)
}

func (l *Lookup) ByTitleKey(key string) (domain.MetadataRecord, bool) {
	rec, ok := l.records[key]
	return rec, ok
}

func (l *Lookup) ByID(canonicalID string) (domain.MetadataRecord, bool) {
	rec, ok := l.records[idKeyPrefix+strings.ToLower(canonicalID)]
	return rec, ok
}

// TitleKeys yields the registered title keys in insertion order; ID keys
// are excluded.
func (l *Lookup) TitleKeys() []string {
	out := make([]string, 0, len(l.order))
	for _, key := range l.order {
		if strings.HasPrefix(key, idKeyPrefix) {
			continue
		}
		out = append(out, key)
	}
	return out
}
