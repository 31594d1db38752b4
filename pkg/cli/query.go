package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/itchyny/gojq"
)

// Query is a compiled jq expression.
type Query struct {
	Expr string
	code *gojq.Code
}

// ParseQuery parses and compiles a jq expression.
func ParseQuery(expr string) (*Query, error) {
	q, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression %q: %w", expr, err)
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression %q: %w", expr, err)
	}
	return &Query{Expr: expr, code: code}, nil
}

// Run evaluates the query against v and collects every result. Structs and
// typed slices are normalized through JSON first.
func (q *Query) Run(ctx context.Context, v any) ([]any, error) {
	input, err := normalize(v)
	if err != nil {
		return nil, err
	}
	var out []any
	iter := q.code.RunWithContext(ctx, input)
	for {
		r, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := r.(error); ok {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				break
			}
			return out, fmt.Errorf("jq %s: %w", q.Expr, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func normalize(v any) (any, error) {
	switch v.(type) {
	case nil, bool, string, float64, int, map[string]any, []any:
		return v, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
