package analysis

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/haivivi/beatsmith/pkg/jsontime"
)

// ErrNotFound is returned when a library has no record with the given ID.
var ErrNotFound = errors.New("analysis: not found")

const keyPrefix = "track:"

// Record is an imported document.
type Record struct {
	ID         string         `json:"id" yaml:"id" msgpack:"id"`
	Name       string         `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	ImportedAt jsontime.Milli `json:"imported_at" yaml:"imported_at" msgpack:"imported_at"`
	Document   *Document      `json:"document" yaml:"document" msgpack:"document"`
}

// NewRecord wraps doc in a record with a fresh ID. An empty name falls back
// to the document's own name.
func NewRecord(doc *Document, name string) *Record {
	if name == "" {
		name = doc.Name
	}
	return &Record{
		ID:         uuid.NewString(),
		Name:       name,
		ImportedAt: jsontime.NowEpochMilli(),
		Document:   doc,
	}
}

// Library stores imported documents so tracks can be regenerated without
// running the detector again.
type Library interface {
	// Put stores a record, replacing any record with the same ID.
	Put(ctx context.Context, r *Record) error

	// Get returns the record with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Delete removes a record. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// List iterates over all records ordered by ID.
	List(ctx context.Context) iter.Seq2[*Record, error]

	Close() error
}

func recordKey(id string) ([]byte, error) {
	if id == "" || strings.ContainsAny(id, ":/") {
		return nil, fmt.Errorf("analysis: invalid record id %q", id)
	}
	return []byte(keyPrefix + id), nil
}

func encodeRecord(r *Record) ([]byte, error) {
	if r == nil || r.Document == nil {
		return nil, errors.New("analysis: record has no document")
	}
	return msgpack.Marshal(r)
}

func decodeRecord(data []byte) (*Record, error) {
	var r Record
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("analysis: decode record: %w", err)
	}
	return &r, nil
}
