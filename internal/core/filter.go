package core

import (
	"errors"
	"strings"
)

// ErrInvalidQuery is returned when a subject/predicate/object specification
// is missing or malformed.
var ErrInvalidQuery = errors.New("invalid query specification")

// SpecKind classifies one endpoint of a query: wildcard, literal CURIE, or
// an external-namespace identifier requiring cross-reference translation.
type SpecKind int

const (
	SpecAny SpecKind = iota
	SpecLiteral
	SpecXref
)

// EndpointSpec is a parsed subject or object query parameter.
type EndpointSpec struct {
	Value string
	Kind  SpecKind
}

// Any reports whether the endpoint matches everything.
func (s EndpointSpec) Any() bool { return s.Kind == SpecAny }

// QuerySpec is a full parsed subject/predicate/object query. The predicate
// is applied as a post-filter on derived edges, not during selection.
type QuerySpec struct {
	Subject   EndpointSpec
	Object    EndpointSpec
	Predicate string // raw value; "any" (case-insensitive) is the wildcard
}

// PredicateAny reports whether the predicate post-filter is the wildcard.
func (q QuerySpec) PredicateAny() bool {
	return strings.EqualFold(q.Predicate, "any")
}

// MatchesPredicate applies the predicate post-filter to one edge predicate.
func (q QuerySpec) MatchesPredicate(predicate string) bool {
	return q.PredicateAny() || q.Predicate == predicate
}

// XrefMode reports whether either endpoint was supplied in an external
// namespace, which switches result rendering to cross-referenced ids.
func (q QuerySpec) XrefMode() bool {
	return q.Subject.Kind == SpecXref || q.Object.Kind == SpecXref
}

// ParseQuerySpec validates and classifies the three query parameters.
// xrefPrefixes is the configured list of recognized external-namespace
// CURIE prefixes.
func ParseQuerySpec(subject, predicate, object string, xrefPrefixes []string) (QuerySpec, error) {
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(predicate) == "" || strings.TrimSpace(object) == "" {
		return QuerySpec{}, ErrInvalidQuery
	}
	return QuerySpec{
		Subject:   parseEndpoint(subject, xrefPrefixes),
		Object:    parseEndpoint(object, xrefPrefixes),
		Predicate: predicate,
	}, nil
}

func parseEndpoint(raw string, xrefPrefixes []string) EndpointSpec {
	if strings.EqualFold(raw, "any") {
		return EndpointSpec{Value: raw, Kind: SpecAny}
	}
	for _, prefix := range xrefPrefixes {
		if strings.HasPrefix(raw, prefix) {
			return EndpointSpec{Value: raw, Kind: SpecXref}
		}
	}
	return EndpointSpec{Value: raw, Kind: SpecLiteral}
}
