// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import "github.com/pdiddy/citegraph/pkg/types"

// Reason says why a record was skipped. ReasonNone means it was accepted.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonMissingID
	ReasonMissingAuthors
	ReasonMissingYear
	ReasonMissingInCitations
	ReasonMissingOutCitations
	ReasonNullID
	ReasonNoAuthors
	ReasonNullYear
)

var reasonNames = map[Reason]string{
	ReasonNone:                "accepted",
	ReasonMissingID:           "missing-id",
	ReasonMissingAuthors:      "missing-authors",
	ReasonMissingYear:         "missing-year",
	ReasonMissingInCitations:  "missing-in-citations",
	ReasonMissingOutCitations: "missing-out-citations",
	ReasonNullID:              "null-id",
	ReasonNoAuthors:           "no-authors",
	ReasonNullYear:            "null-year",
}

// Diagnostic lines printed for skipped records. Reasons absent from this
// map are skipped without a message; pipeline monitors scrape these
// strings, so they must not change.
var diagnostics = map[Reason]string{
	ReasonMissingID:           "id not exist",
	ReasonMissingAuthors:      "author not exist",
	ReasonMissingInCitations:  "inCitations not exist",
	ReasonMissingOutCitations: "outCitations not exist",
	ReasonNullID:              "Paper ID is None, record remove",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return "unknown"
}

// Diagnostic returns the line to print when a record is skipped for r,
// or "" when the skip is silent.
func (r Reason) Diagnostic() string {
	return diagnostics[r]
}

// Registrar records the identifiers of an author under a canonical id.
// *index.Canonical satisfies it.
type Registrar interface {
	Register(canonical string, ids ...string)
}

// Validate runs the acceptance checks in order and returns the normalized
// paper, or the reason for the first failed check.
//
// Authors without identifiers are dropped. Every identifier of a kept
// author is registered with reg under that author's first identifier;
// registration happens before the year-null check, so a record rejected
// there still contributes its author identifiers.
func Validate(rec types.PaperRecord, reg Registrar) (types.Paper, Reason) {
	switch {
	case !rec.HasID:
		return types.Paper{}, ReasonMissingID
	case !rec.HasAuthors:
		return types.Paper{}, ReasonMissingAuthors
	case !rec.HasYear:
		return types.Paper{}, ReasonMissingYear
	case !rec.HasInCitations:
		return types.Paper{}, ReasonMissingInCitations
	case !rec.HasOutCitations:
		return types.Paper{}, ReasonMissingOutCitations
	case rec.ID == nil:
		return types.Paper{}, ReasonNullID
	case len(rec.Authors) == 0:
		return types.Paper{}, ReasonNoAuthors
	}

	kept := make([]types.Author, 0, len(rec.Authors))
	for _, a := range rec.Authors {
		if len(a.IDs) == 0 {
			continue
		}
		kept = append(kept, a)
		reg.Register(a.IDs[0], a.IDs...)
	}

	if rec.Year == "" {
		return types.Paper{}, ReasonNullYear
	}

	return types.Paper{
		ID:           *rec.ID,
		Year:         rec.Year.String(),
		AuthorCount:  len(rec.Authors),
		Authors:      kept,
		InCitations:  rec.InCitations,
		OutCitations: rec.OutCitations,
	}, ReasonNone
}
