package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"gopkg.in/yaml.v3"
)

// Load reads and parses a document file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}

// Parse decodes a document. The format is chosen by the file extension:
// .yaml and .yml are YAML, .json is JSON. Anything else is tried as YAML
// first, then JSON. Unknown fields are rejected.
//
// Malformed JSON, as produced by hand edits or truncated detector output,
// is repaired before giving up.
func Parse(data []byte, filename string) (*Document, error) {
	var (
		doc Document
		err error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = decodeYAML(data, &doc)
	case ".json":
		err = decodeJSON(data, &doc)
	default:
		if err = decodeYAML(data, &doc); err != nil {
			doc = Document{}
			if jerr := decodeJSON(data, &doc); jerr == nil {
				err = nil
			}
		}
	}
	if err != nil {
		if filename == "" {
			return nil, fmt.Errorf("analysis: parse: %w", err)
		}
		return nil, fmt.Errorf("analysis: parse %s: %w", filename, err)
	}
	return &doc, nil
}

func decodeYAML(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty document")
		}
		return err
	}
	return nil
}

func decodeJSON(data []byte, v any) error {
	err := strictJSON(data, v)
	if err == nil {
		return nil
	}
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}
	fixed, rerr := jsonrepair.JSONRepair(string(data))
	if rerr != nil {
		return err
	}
	return strictJSON([]byte(fixed), v)
}

func strictJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty document")
		}
		return err
	}
	return nil
}
