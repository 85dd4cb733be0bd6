package mongo

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PredicateBuilder composes optional, independently-toggleable filter
// conditions into one AND-combined query filter. A condition whose value is
// blank contributes nothing (the identity condition) rather than excluding
// all rows: a search with zero provided filters matches every row the
// surrounding scope allows. Fragments are commutative; none depends on
// another's evaluation.
type PredicateBuilder struct {
	fragments []bson.M
}

func NewPredicateBuilder() *PredicateBuilder {
	return &PredicateBuilder{}
}

// Eq adds an exact-match condition. Blank values are skipped.
func (b *PredicateBuilder) Eq(field, value string) *PredicateBuilder {
	if strings.TrimSpace(value) == "" {
		return b
	}
	b.fragments = append(b.fragments, bson.M{field: value})
	return b
}

// In adds a set-membership condition. Empty or all-blank slices are skipped.
func (b *PredicateBuilder) In(field string, values []string) *PredicateBuilder {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return b
	}
	b.fragments = append(b.fragments, bson.M{field: bson.M{"$in": kept}})
	return b
}

// ContainsIgnoreCase adds a case-insensitive substring condition. The text is
// regex-escaped so user input cannot inject pattern syntax. Blank values are
// skipped.
func (b *PredicateBuilder) ContainsIgnoreCase(field, text string) *PredicateBuilder {
	if strings.TrimSpace(text) == "" {
		return b
	}
	b.fragments = append(b.fragments, bson.M{
		field: primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"},
	})
	return b
}

// Build returns the combined filter. No fragments yields the match-all
// filter.
func (b *PredicateBuilder) Build() bson.M {
	switch len(b.fragments) {
	case 0:
		return bson.M{}
	case 1:
		return b.fragments[0]
	default:
		conditions := make(bson.A, 0, len(b.fragments))
		for _, f := range b.fragments {
			conditions = append(conditions, f)
		}
		return bson.M{"$and": conditions}
	}
}
