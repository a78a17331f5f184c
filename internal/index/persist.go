// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// Map file names written at the end of an extraction run.
const (
	PaperIndexFile  = "paperIndex"
	AuthorIDsFile   = "authorIds2Id"
	AuthorIndexFile = "authorIndex"
)

// MarshalJSON encodes the map as one JSON object in first-seen order,
// using ", " and ": " separators and ASCII-only string escapes.
func (d *Dense) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		writeASCIIString(&b, k)
		b.WriteString(": ")
		b.WriteString(strconv.Itoa(d.idx[k]))
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON replaces the contents of d with the object in data,
// keeping the object's key order.
func (d *Dense) UnmarshalJSON(data []byte) error {
	*d = *NewDense()
	return decodeObject(data, func(dec *json.Decoder, key string) error {
		var i int
		if err := dec.Decode(&i); err != nil {
			return fmt.Errorf("decoding index for %q: %w", key, err)
		}
		d.bind(key, i)
		return nil
	})
}

// MarshalJSON encodes the map as one JSON object in registration order.
func (c *Canonical) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		writeASCIIString(&b, k)
		b.WriteString(": ")
		writeASCIIString(&b, c.m[k])
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON replaces the contents of c with the object in data.
func (c *Canonical) UnmarshalJSON(data []byte) error {
	*c = *NewCanonical()
	return decodeObject(data, func(dec *json.Decoder, key string) error {
		var v string
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("decoding canonical id for %q: %w", key, err)
		}
		c.Register(v, key)
		return nil
	})
}

// WriteFile serializes m to path, truncating any existing file.
func WriteFile(path string, m json.Marshaler) error {
	data, err := m.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// LoadDense reads a map written by WriteFile for a Dense assigner.
func LoadDense(path string) (*Dense, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	d := NewDense()
	if err := d.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return d, nil
}

// LoadCanonical reads a map written by WriteFile for a Canonical map.
func LoadCanonical(path string) (*Canonical, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	c := NewCanonical()
	if err := c.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return c, nil
}

// decodeObject walks a JSON object token by token so key order survives,
// calling fn with the decoder positioned at each value.
func decodeObject(data []byte, fn func(dec *json.Decoder, key string) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		if err := fn(dec, key); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// writeASCIIString writes s as a JSON string literal with every non-ASCII
// code point escaped as \uXXXX (surrogate pairs above the BMP).
func writeASCIIString(b *bytes.Buffer, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\b':
			b.WriteString(`\b`)
		case r == '\f':
			b.WriteString(`\f`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(b, `\u%04x`, r)
		case r < utf8.RuneSelf:
			b.WriteByte(byte(r))
		case r > 0xffff:
			r1, r2 := utf16.EncodeRune(r)
			fmt.Fprintf(b, `\u%04x\u%04x`, r1, r2)
		default:
			fmt.Fprintf(b, `\u%04x`, r)
		}
	}
	b.WriteByte('"')
}
