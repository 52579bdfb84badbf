package codec

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/forcegraph/internal/icons"
	"github.com/san-kum/forcegraph/internal/viewport"
)

// DefaultSVGName is the file name offered for an export.
const DefaultSVGName = "itemgraph.svg"

const (
	linkStroke  = "#999"
	nodeStroke  = "#fff"
	labelFill   = "#333"
	labelFont   = "Arial, sans-serif"
	labelSize   = "14px"
	labelOffset = 15
	labelDrop   = 4
)

// SVGExporter renders the current layout as a standalone image. The output
// holds no physics or pin data and cannot be loaded back.
type SVGExporter struct {
	Width  float64
	Height float64
	Styles *icons.Table
}

func NewSVGExporter(width, height float64, styles *icons.Table) *SVGExporter {
	if styles == nil {
		styles = icons.NewTable(icons.Style{})
	}
	return &SVGExporter{Width: width, Height: height, Styles: styles}
}

func (e *SVGExporter) Format() string {
	return "svg"
}

// Export draws links, then nodes, then labels, under the document's camera.
// Nodes without a position are skipped along with their links.
func (e *SVGExporter) Export(doc *Document, w io.Writer) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", ErrMalformed)
	}
	cam := viewport.Identity()
	if doc.Camera != nil {
		cam = *doc.Camera
	}

	pos := make(map[string][2]float64, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if n.X != nil && n.Y != nil {
			pos[n.ID] = [2]float64{*n.X, *n.Y}
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s">
<g transform="%s">
`, ftoa(e.Width), ftoa(e.Height), cam.Transform())

	fmt.Fprintf(bw, "<g stroke=%q stroke-opacity=\"0.6\" stroke-width=\"1\">\n", linkStroke)
	for _, l := range doc.Links {
		s, okS := pos[string(l.Source)]
		t, okT := pos[string(l.Target)]
		if !okS || !okT {
			continue
		}
		fmt.Fprintf(bw, "<line x1=%q y1=%q x2=%q y2=%q/>\n", ftoa(s[0]), ftoa(s[1]), ftoa(t[0]), ftoa(t[1]))
	}
	bw.WriteString("</g>\n")

	fmt.Fprintf(bw, "<g stroke=%q stroke-width=\"1.5\">\n", nodeStroke)
	for _, n := range doc.Nodes {
		p, ok := pos[n.ID]
		if !ok {
			continue
		}
		style := e.Styles.Lookup(n.Type)
		fill := style.Fill
		if n.FX != nil {
			fill = icons.PinnedFill
		}
		fmt.Fprintf(bw, "<circle cx=%q cy=%q r=%q fill=%q/>\n", ftoa(p[0]), ftoa(p[1]), ftoa(style.Radius), fill)
	}
	bw.WriteString("</g>\n")

	fmt.Fprintf(bw, "<g font-family=%q font-size=%q fill=%q>\n", labelFont, labelSize, labelFill)
	for _, n := range doc.Nodes {
		p, ok := pos[n.ID]
		if !ok {
			continue
		}
		label := n.Name
		if label == "" {
			label = n.ID
		}
		fmt.Fprintf(bw, "<text x=%q y=%q dx=\"%d\" dy=\"%d\">", ftoa(p[0]), ftoa(p[1]), labelOffset, labelDrop)
		if err := xml.EscapeText(bw, []byte(label)); err != nil {
			return err
		}
		bw.WriteString("</text>\n")
	}
	bw.WriteString("</g>\n</g>\n</svg>\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write SVG: %w", err)
	}
	return nil
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
