package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ppiankov/normregion/internal/dist"
	"github.com/ppiankov/normregion/internal/model"
)

// Chart geometry in SVG user units
const (
	chartWidth  = 800.0
	chartHeight = 420.0
	chartMargin = 40.0
)

// regionFills are the shading colours for region 1 and region 2
var regionFills = []string{"rgba(200,0,0,0.25)", "rgba(0,0,200,0.25)"}

// RenderChart writes a standalone HTML page with the curve and shaded regions
func (r *Renderer) RenderChart(eval *model.Evaluation, path string) error {
	var buf bytes.Buffer
	if err := r.WriteChart(&buf, eval); err != nil {
		return err
	}
	return writeFile(path, buf.Bytes())
}

// WriteChart renders the chart page to w
func (r *Renderer) WriteChart(w io.Writer, eval *model.Evaluation) error {
	return html.Render(w, r.chartDocument(eval))
}

// plotArea maps data coordinates onto the SVG canvas
type plotArea struct {
	xmin, xmax, ymax float64
}

func (p plotArea) px(x float64) float64 {
	return chartMargin + (x-p.xmin)/(p.xmax-p.xmin)*(chartWidth-2*chartMargin)
}

func (p plotArea) py(y float64) float64 {
	return chartHeight - chartMargin - y/p.ymax*(chartHeight-2*chartMargin)
}

func (p plotArea) inside(x float64) bool {
	return x >= p.xmin && x <= p.xmax
}

// newPlotArea covers mean ± 3σ padded by 5% on each side
func newPlotArea(eval *model.Evaluation) plotArea {
	lo, hi := dist.NewNormal(eval.Distribution.Mean, eval.Distribution.StdDev).Bounds()
	pad := 0.05 * (hi - lo)

	ymax := 0.0
	for _, p := range eval.Curve {
		ymax = math.Max(ymax, p.Y)
	}
	if ymax == 0 {
		ymax = 1
	}

	return plotArea{xmin: lo - pad, xmax: hi + pad, ymax: ymax * 1.05}
}

func (r *Renderer) chartDocument(eval *model.Evaluation) *html.Node {
	title := r.Title(eval)
	area := newPlotArea(eval)

	svg := element("svg",
		"xmlns", "http://www.w3.org/2000/svg",
		"viewBox", fmt.Sprintf("0 0 %s %s", coord(chartWidth), coord(chartHeight)),
		"width", coord(chartWidth),
		"height", coord(chartHeight),
	)

	// Shaded regions go first so the curve stays on top
	for i, rr := range eval.Regions {
		if rr.Shade == nil || len(rr.Shade.Xs) == 0 {
			continue
		}
		svg.AppendChild(element("polygon",
			"class", fmt.Sprintf("region region-%d", rr.Index),
			"points", shadePoints(area, rr.Shade),
			"fill", regionFills[i%len(regionFills)],
			"stroke", "none",
		))
	}

	svg.AppendChild(element("polyline",
		"class", "curve",
		"points", curvePoints(area, eval.Curve),
		"fill", "none",
		"stroke", "black",
		"stroke-width", "2",
	))

	baseline := coord(area.py(0))
	svg.AppendChild(element("line",
		"class", "axis",
		"x1", coord(chartMargin), "y1", baseline,
		"x2", coord(chartWidth-chartMargin), "y2", baseline,
		"stroke", "#444",
	))

	// x ticks at each whole σ; the y axis carries no tick labels
	for k := -3; k <= 3; k++ {
		x := eval.Distribution.Mean + float64(k)*eval.Distribution.StdDev
		label := element("text",
			"class", "tick",
			"x", coord(area.px(x)),
			"y", coord(chartHeight-chartMargin+18),
			"text-anchor", "middle",
			"font-size", "14",
		)
		label.AppendChild(text(r.Number(x)))
		svg.AppendChild(label)
	}

	head := elementAtom(atom.Head)
	head.AppendChild(element("meta", "charset", "utf-8"))
	titleNode := elementAtom(atom.Title)
	titleNode.AppendChild(text(title))
	head.AppendChild(titleNode)

	body := elementAtom(atom.Body)
	h := elementAtom(atom.H2)
	h.AppendChild(text(title))
	body.AppendChild(h)
	body.AppendChild(svg)

	summary := elementAtom(atom.Ul)
	for _, rr := range eval.Regions {
		li := elementAtom(atom.Li)
		li.AppendChild(text(r.RegionLine(rr)))
		summary.AppendChild(li)
	}
	if eval.Outcome != nil {
		li := elementAtom(atom.Li)
		li.AppendChild(text(r.OutcomeLine(*eval.Outcome)))
		summary.AppendChild(li)
	}
	body.AppendChild(summary)

	root := elementAtom(atom.Html)
	root.AppendChild(head)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)
	return doc
}

func curvePoints(area plotArea, pts []model.Point) string {
	parts := make([]string, 0, len(pts))
	for _, p := range pts {
		if !area.inside(p.X) {
			continue
		}
		parts = append(parts, coord(area.px(p.X))+","+coord(area.py(p.Y)))
	}
	return strings.Join(parts, " ")
}

// shadePoints closes the shaded slice down to the baseline
func shadePoints(area plotArea, sh *model.Shade) string {
	var xs, ys []float64
	for i, x := range sh.Xs {
		if area.inside(x) {
			xs = append(xs, x)
			ys = append(ys, sh.Ys[i])
		}
	}
	if len(xs) == 0 {
		return ""
	}

	base := coord(area.py(0))
	parts := make([]string, 0, len(xs)+2)
	parts = append(parts, coord(area.px(xs[0]))+","+base)
	for i := range xs {
		parts = append(parts, coord(area.px(xs[i]))+","+coord(area.py(ys[i])))
	}
	parts = append(parts, coord(area.px(xs[len(xs)-1]))+","+base)
	return strings.Join(parts, " ")
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func element(tag string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func elementAtom(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
