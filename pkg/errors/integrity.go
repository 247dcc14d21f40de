package errors

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// IssueKind classifies a data-integrity problem in a flat record set.
type IssueKind string

const (
	IssueEmptyID       IssueKind = "empty_id"
	IssueDuplicateID   IssueKind = "duplicate_id"
	IssueSelfReference IssueKind = "self_reference"
	IssueCycle         IssueKind = "cycle"
	IssueReservedID    IssueKind = "reserved_id"
)

// Issue identifies one offending node and what was wrong with it.
type Issue struct {
	Kind   IssueKind `json:"kind"`
	NodeID string    `json:"node_id"`
	Detail string    `json:"detail,omitempty"`
}

func (i Issue) String() string {
	if i.Detail != "" {
		return fmt.Sprintf("%s %q (%s)", i.Kind, i.NodeID, i.Detail)
	}
	return fmt.Sprintf("%s %q", i.Kind, i.NodeID)
}

// IntegrityError reports every integrity problem found while structuring a
// record set. Functions returning it also return a usable result in which the
// offending nodes have been demoted to roots or dropped.
type IntegrityError struct {
	Issues []Issue
}

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.String()
	}
	return fmt.Sprintf("%s: %d issue(s): %s", ErrCodeDataIntegrity, len(e.Issues), strings.Join(parts, "; "))
}

// NodeIDs returns the distinct offending node ids in report order.
func (e *IntegrityError) NodeIDs() []string {
	var ids []string
	for _, is := range e.Issues {
		if !slices.Contains(ids, is.NodeID) {
			ids = append(ids, is.NodeID)
		}
	}
	return ids
}

// Has reports whether an issue of the given kind was recorded for id.
func (e *IntegrityError) Has(kind IssueKind, id string) bool {
	return slices.ContainsFunc(e.Issues, func(is Issue) bool {
		return is.Kind == kind && is.NodeID == id
	})
}

// Integrity collects issues while a record set is processed.
// The zero value is ready to use.
type Integrity struct {
	issues []Issue
}

// Add records an issue.
func (c *Integrity) Add(kind IssueKind, id, detail string) {
	c.issues = append(c.issues, Issue{Kind: kind, NodeID: id, Detail: detail})
}

// Err returns nil when nothing was recorded, otherwise an *IntegrityError.
func (c *Integrity) Err() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &IntegrityError{Issues: slices.Clone(c.issues)}
}

// MergeIntegrity combines the issues of any *IntegrityError values in errs.
// Non-integrity errors are ignored. Returns nil if no issues are present.
func MergeIntegrity(errs ...error) error {
	var c Integrity
	for _, err := range errs {
		var ie *IntegrityError
		if errors.As(err, &ie) {
			for _, is := range ie.Issues {
				if !slices.Contains(c.issues, is) {
					c.issues = append(c.issues, is)
				}
			}
		}
	}
	return c.Err()
}

// AsIntegrity returns the *IntegrityError in err's chain, if any.
func AsIntegrity(err error) (*IntegrityError, bool) {
	var ie *IntegrityError
	ok := errors.As(err, &ie)
	return ie, ok
}
