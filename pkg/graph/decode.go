package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/graphweave/pkg/errors"
)

// ID is a node or edge identifier as it appears on the wire. Upstream
// sources emit ids as JSON strings or numbers; both decode to the same
// string form. A JSON null decodes to the empty id.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number, got %s", data)
	}
	*id = ID(n.String())
	return nil
}

type nodeWire struct {
	ID          ID       `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// UnmarshalJSON implements json.Unmarshaler, accepting numeric ids.
func (n *NodeRecord) UnmarshalJSON(data []byte) error {
	var w nodeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*n = NodeRecord{ID: string(w.ID), Label: w.Label, Description: w.Description, Tags: w.Tags}
	return nil
}

type edgeWire struct {
	ID     ID `json:"id"`
	Source ID `json:"source"`
	Target ID `json:"target"`
}

// UnmarshalJSON implements json.Unmarshaler, accepting numeric ids.
func (e *EdgeRecord) UnmarshalJSON(data []byte) error {
	var w edgeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = EdgeRecord{ID: string(w.ID), Source: string(w.Source), Target: string(w.Target)}
	return nil
}

// =============================================================================
// Payload Decoding
// =============================================================================

// DecodeWholeGraph decodes a {"nodes": [...], "edges": [...]} payload.
// Both arrays must be present; otherwise the error carries
// errors.ErrCodeMalformedInput.
func DecodeWholeGraph(data []byte) (WholeGraph, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return WholeGraph{}, errors.Wrap(errors.ErrCodeMalformedInput, err, "decode graph payload")
	}
	return decodeWholeGraph(raw)
}

func decodeWholeGraph(raw map[string]json.RawMessage) (WholeGraph, error) {
	var w WholeGraph
	for _, field := range []struct {
		key string
		dst any
	}{
		{"nodes", &w.Nodes},
		{"edges", &w.Edges},
	} {
		msg, ok := raw[field.key]
		if !ok || !isArray(msg) {
			return WholeGraph{}, errors.New(errors.ErrCodeMalformedInput, "graph payload has no %q array", field.key)
		}
		if err := json.Unmarshal(msg, field.dst); err != nil {
			return WholeGraph{}, errors.Wrap(errors.ErrCodeMalformedInput, err, "decode %q", field.key)
		}
	}
	return w, nil
}

// DecodeFragment decodes a single {"this", "neighbors", "edges"} payload.
func DecodeFragment(data []byte) (Fragment, error) {
	var f Fragment
	if err := json.Unmarshal(data, &f); err != nil {
		return Fragment{}, errors.Wrap(errors.ErrCodeMalformedInput, err, "decode fragment")
	}
	return f, nil
}

// DecodeFragments decodes a JSON array of fragments. Null elements decode to
// empty fragments.
func DecodeFragments(data []byte) ([]Fragment, error) {
	var fs []Fragment
	if err := json.Unmarshal(data, &fs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "decode fragments")
	}
	return fs, nil
}

// DecodeInput decodes any supported payload into fragments:
//
//   - an object with "nodes" or "edges" is a whole graph (one fragment)
//   - an array is a list of fragments
//   - an object with "this" or "neighbors" is a single fragment
//
// Anything else is reported as errors.ErrCodeMalformedInput.
func DecodeInput(data []byte) ([]Fragment, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeMalformedInput, "empty payload")
	}
	switch data[0] {
	case '[':
		return DecodeFragments(data)
	case '{':
	default:
		return nil, errors.New(errors.ErrCodeMalformedInput, "payload must be a JSON object or array")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "decode payload")
	}
	if hasAny(raw, "nodes", "edges") && !hasAny(raw, "this", "neighbors") {
		w, err := decodeWholeGraph(raw)
		if err != nil {
			return nil, err
		}
		return []Fragment{w.Fragment()}, nil
	}
	if hasAny(raw, "this", "neighbors") {
		f, err := DecodeFragment(data)
		if err != nil {
			return nil, err
		}
		return []Fragment{f}, nil
	}
	return nil, errors.New(errors.ErrCodeMalformedInput, "payload is neither a graph nor a fragment")
}

// ReadInput reads and decodes a payload from r. See [DecodeInput].
func ReadInput(r io.Reader) ([]Fragment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read payload")
	}
	return DecodeInput(data)
}

// ReadInputFile reads and decodes a payload from a file. See [DecodeInput].
func ReadInputFile(path string) ([]Fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return DecodeInput(data)
}

func isArray(msg json.RawMessage) bool {
	msg = bytes.TrimSpace(msg)
	return len(msg) > 0 && msg[0] == '['
}

func hasAny(raw map[string]json.RawMessage, keys ...string) bool {
	for _, k := range keys {
		if _, ok := raw[k]; ok {
			return true
		}
	}
	return false
}

// WriteGraph writes g to w as an indented whole-graph payload.
func WriteGraph(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(g.Whole())
}
