// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package record decodes corpus lines into paper records and decides
// which records are usable.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pdiddy/citegraph/pkg/types"
)

// Field names in the input JSON objects.
const (
	fieldID           = "id"
	fieldAuthors      = "authors"
	fieldYear         = "year"
	fieldInCitations  = "inCitations"
	fieldOutCitations = "outCitations"
)

var jsonNull = []byte("null")

// Parse decodes one corpus line. It fails only when the line is not a JSON
// object or a present field has the wrong JSON type; missing and null
// fields are reported through the returned record.
func Parse(line []byte) (types.PaperRecord, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil {
		return types.PaperRecord{}, fmt.Errorf("decoding record: %w", err)
	}
	if fields == nil {
		return types.PaperRecord{}, fmt.Errorf("decoding record: expected JSON object, got null")
	}

	var rec types.PaperRecord

	if raw, ok := fields[fieldID]; ok {
		rec.HasID = true
		if !isNull(raw) {
			var id string
			if err := json.Unmarshal(raw, &id); err != nil {
				return rec, fmt.Errorf("decoding %s: %w", fieldID, err)
			}
			rec.ID = &id
		}
	}

	if raw, ok := fields[fieldAuthors]; ok {
		rec.HasAuthors = true
		if err := json.Unmarshal(raw, &rec.Authors); err != nil {
			return rec, fmt.Errorf("decoding %s: %w", fieldAuthors, err)
		}
	}

	if raw, ok := fields[fieldYear]; ok {
		rec.HasYear = true
		if !isNull(raw) {
			if err := json.Unmarshal(raw, &rec.Year); err != nil {
				return rec, fmt.Errorf("decoding %s: %w", fieldYear, err)
			}
		}
	}

	if raw, ok := fields[fieldInCitations]; ok {
		rec.HasInCitations = true
		if err := json.Unmarshal(raw, &rec.InCitations); err != nil {
			return rec, fmt.Errorf("decoding %s: %w", fieldInCitations, err)
		}
	}

	if raw, ok := fields[fieldOutCitations]; ok {
		rec.HasOutCitations = true
		if err := json.Unmarshal(raw, &rec.OutCitations); err != nil {
			return rec, fmt.Errorf("decoding %s: %w", fieldOutCitations, err)
		}
	}

	return rec, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}
