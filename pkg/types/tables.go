package types

// PaperRow is one row of paper.csv.
type PaperRow struct {
	Index       int
	Year        string
	AuthorCount int
}

// AuthorshipEdge is one row of write_raw.csv / write.csv: the author wrote
// the paper.
type AuthorshipEdge struct {
	AuthorIndex int
	PaperIndex  int
}

// CitationEdge is one row of cite_raw.csv: Source cites Target. Either
// endpoint may be an external id or a dense paper index rendered as text,
// depending on the CitationMode the run used.
type CitationEdge struct {
	Source string
	Target string
}

// CitationMode selects how citation endpoints are written to cite_raw.csv.
type CitationMode string

const (
	// CitationsMixed writes incoming edges as (citer id, paper id) and
	// outgoing edges as (paper index, cited id). The two directions do not
	// share a representation; this is the layout existing consumers of
	// cite_raw.csv were built against.
	CitationsMixed CitationMode = "mixed"

	// CitationsExternal writes both directions with external paper ids.
	CitationsExternal CitationMode = "external"
)

// Valid reports whether m is a known citation mode.
func (m CitationMode) Valid() bool {
	switch m {
	case CitationsMixed, CitationsExternal:
		return true
	}
	return false
}
