package source

import (
	"encoding/json"
	"os"

	"github.com/matzehuels/graphweave/pkg/errors"
	"github.com/matzehuels/graphweave/pkg/graph"
)

// ReadFile reads a whole-graph, fragment or fragment-list payload from disk.
func ReadFile(path string) ([]graph.Fragment, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	return graph.ReadInputFile(path)
}

// WriteFile writes fragments as an indented JSON array that [ReadFile]
// reads back unchanged.
func WriteFile(path string, fragments []graph.Fragment) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if fragments == nil {
		fragments = []graph.Fragment{}
	}
	data, err := json.MarshalIndent(fragments, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode fragments")
	}
	return os.WriteFile(path, data, 0644)
}
