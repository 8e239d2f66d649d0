package annotation

import (
	"fmt"
	"strings"
)

// LinkKindError reports a link or de-link attempted between kinds the
// protocol does not support. Never retried; the accepted set names every
// kind the source could have linked to.
type LinkKindError struct {
	From     Kind
	To       Kind
	Accepted []Kind
}

func (e *LinkKindError) Error() string {
	accepted := make([]string, len(e.Accepted))
	for i, k := range e.Accepted {
		accepted[i] = string(k)
	}
	return fmt.Sprintf("%s can only link/de-link to [%s]; found %s",
		e.From, strings.Join(accepted, ", "), e.To)
}

// newLinkKindError builds the error for an unsupported (source, target) pair.
func newLinkKindError(from, to Node) error {
	return &LinkKindError{From: from.Kind(), To: to.Kind(), Accepted: LinkTargets(from.Kind())}
}

// NotLinkedError reports a de-link of a relationship that does not exist.
// De-linking must exactly reverse a prior link; an absent link is surfaced,
// never swallowed.
type NotLinkedError struct {
	From Kind
	To   Kind
}

func (e *NotLinkedError) Error() string {
	return fmt.Sprintf("%s is not linked to %s", e.From, e.To)
}

func notLinked(from, to Node) error {
	return &NotLinkedError{From: from.Kind(), To: to.Kind()}
}

// IndecipherableLinkageError reports piece ordering or link resolution
// finding zero expected structure where one was required, or more than one
// where exactly one was required (ambiguous or cyclic linkage).
type IndecipherableLinkageError struct {
	Reason string
}

func (e *IndecipherableLinkageError) Error() string {
	return "indecipherable linkage: " + e.Reason
}

// Indecipherablef builds an IndecipherableLinkageError with a formatted reason.
func Indecipherablef(format string, args ...any) error {
	return &IndecipherableLinkageError{Reason: fmt.Sprintf(format, args...)}
}

// StructuralConsistencyError reports malformed input data: features of one
// piece disagreeing on strand or sequence, or an unhandled type/bearing
// combination reaching the status machine.
type StructuralConsistencyError struct {
	Reason string
}

func (e *StructuralConsistencyError) Error() string {
	return "structural inconsistency: " + e.Reason
}

// Inconsistentf builds a StructuralConsistencyError with a formatted reason.
func Inconsistentf(format string, args ...any) error {
	return &StructuralConsistencyError{Reason: fmt.Sprintf(format, args...)}
}

// AttributeSelectionError reports a copy operation whose explicit include
// list names an identity or relationship field, or an attribute the kind
// does not have. This is a programming error, surfaced immediately.
type AttributeSelectionError struct {
	Kind      Kind
	Attribute string
	Reason    string
}

func (e *AttributeSelectionError) Error() string {
	return fmt.Sprintf("attribute %q of %s cannot be copied: %s", e.Attribute, e.Kind, e.Reason)
}
