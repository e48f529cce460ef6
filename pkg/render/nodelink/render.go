package nodelink

import (
	"context"

	"github.com/matzehuels/graphweave/pkg/errors"
	"github.com/matzehuels/graphweave/pkg/graph"
	"github.com/matzehuels/graphweave/pkg/render"
)

// Render produces the artifact for one format. PNG output uses scale 2.
func Render(ctx context.Context, l graph.Layout, format render.Format, opts Options) ([]byte, error) {
	switch format {
	case render.FormatJSON:
		return graph.MarshalLayout(l)
	case render.FormatDOT:
		return []byte(ToDOT(l, opts)), nil
	case render.FormatSVG:
		return RenderSVG(ctx, ToDOT(l, opts))
	case render.FormatPNG:
		return RenderPNG(ctx, ToDOT(l, opts), 2.0)
	case render.FormatPDF:
		return RenderPDF(ctx, ToDOT(l, opts))
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
}
