package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/graphweave/pkg/render"
)

// stdoutPath selects standard output instead of a file.
const stdoutPath = "-"

// layoutSuffix is appended to the input base name for layout files.
const layoutSuffix = ".layout"

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path. "-" is standard output.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == stdoutPath {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension (and a ".layout" infix) from
// input. A known format extension on output is stripped as well.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		return strings.TrimSuffix(base, layoutSuffix)
	}
	ext := filepath.Ext(output)
	if _, err := render.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPath returns where the artifact for format is written. A single
// requested format honors output verbatim. The JSON layout keeps the
// ".layout" infix so it never overwrites a JSON input.
func artifactPath(format string, formats []string, input, output string) string {
	if len(formats) == 1 && output != "" {
		return output
	}
	base := basePath(output, input)
	if render.Format(format) == render.FormatJSON {
		base += layoutSuffix
	}
	return base + render.Format(format).Ext()
}

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	cacheHit  bool
	nodes     int
	edges     int
}

// writeArtifacts writes every requested artifact and reports the files.
func writeArtifacts(p artifactWriteParams) error {
	if p.output == stdoutPath && len(p.formats) > 1 {
		return fmt.Errorf("cannot write %d formats to stdout", len(p.formats))
	}
	var paths []string
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			return fmt.Errorf("missing %s artifact", format)
		}
		path := artifactPath(format, p.formats, p.input, p.output)
		if err := writeFile(path, data); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	if p.output == stdoutPath {
		return nil
	}
	printSuccess("Rendered %d %s", len(paths), plural(len(paths), "file", "files"))
	for _, path := range paths {
		printFile(path)
	}
	printStats(p.nodes, p.edges, p.cacheHit)
	return nil
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
