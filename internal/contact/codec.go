package contact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// FormatVersion is the document version written by Encode.
const FormatVersion = 1

// ErrCorrupt indicates persisted contact data could not be decoded.
var ErrCorrupt = errors.New("contact: corrupt data")

// ErrInvalidUTF8 indicates a field that JSON cannot hold byte for byte.
var ErrInvalidUTF8 = errors.New("contact: field is not valid UTF-8")

// document is the on-disk shape of an address book.
type document struct {
	Version  int          `json:"version"`
	Contacts []wireRecord `json:"contacts"`
}

type wireRecord struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Encode serializes records, in order, as an indented JSON document.
// A field that is not valid UTF-8 returns an error wrapping ErrInvalidUTF8.
func Encode(records []Record) ([]byte, error) {
	doc := document{
		Version:  FormatVersion,
		Contacts: make([]wireRecord, len(records)),
	}
	for i, r := range records {
		if !utf8.ValidString(r.Name) || !utf8.ValidString(r.PhoneNumber) || !utf8.ValidString(r.Email) {
			return nil, fmt.Errorf("%w: record %d", ErrInvalidUTF8, i)
		}
		doc.Contacts[i] = wireRecord{Name: r.Name, Phone: r.PhoneNumber, Email: r.Email}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("contact: marshaling: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses data produced by Encode.
// Empty or whitespace-only input decodes to zero records.
// Any malformed input returns an error wrapping ErrCorrupt.
func Decode(data []byte) ([]Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	// A second value after the document means the file was concatenated or truncated mid-write.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", ErrCorrupt)
	}
	if doc.Version != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, doc.Version)
	}

	if len(doc.Contacts) == 0 {
		return nil, nil
	}
	records := make([]Record, len(doc.Contacts))
	for i, w := range doc.Contacts {
		records[i] = Record{Name: w.Name, PhoneNumber: w.Phone, Email: w.Email}
	}
	return records, nil
}
