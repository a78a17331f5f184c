// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "encoding/json"

// Author is one entry of a record's author list. An author may be known
// under several external identifiers; the first one listed is used as the
// canonical id the first time any of them is seen.
type Author struct {
	// IDs lists the external author identifiers. Nil when the source has
	// "ids": null.
	IDs []string `json:"ids" yaml:"ids"`
}

// PaperRecord is one line of the input corpus as decoded, before any
// filtering. The Has* fields record whether the key was present in the
// JSON object at all; the value fields are zero when the key held null.
type PaperRecord struct {
	HasID           bool
	HasAuthors      bool
	HasYear         bool
	HasInCitations  bool
	HasOutCitations bool

	// ID is the external paper id, nil when the source has "id": null.
	ID *string

	// Authors is the raw author list in source order, nil when null.
	Authors []Author

	// Year keeps the number literal as written so it can be echoed
	// verbatim into the papers table. Empty when null.
	Year json.Number

	// InCitations lists the external ids of papers citing this one.
	InCitations []string

	// OutCitations lists the external ids of papers this one cites.
	OutCitations []string
}

// Paper is a record that passed validation, stripped to the fields the
// table writer needs.
type Paper struct {
	// ID is the external paper id.
	ID string

	// Year is the publication year as written in the source.
	Year string

	// AuthorCount is the length of the author list before authors without
	// identifiers were dropped.
	AuthorCount int

	// Authors holds only the authors with at least one identifier, in
	// source order.
	Authors []Author

	InCitations  []string
	OutCitations []string
}
