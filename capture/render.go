package capture

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"net/url"
	"strings"

	"github.com/meikuraledutech/flowchart"
)

// Node card geometry in canvas units.
const (
	cardWidth  = 256
	cardHeight = 112
	padding    = 48
)

// FilterStylesheets keeps the stylesheet links that are safe to embed in a
// capture: same-origin or relative links only, and no font sheets when
// skipFonts is set. Cross-origin sheets make the rasteriser fail when it
// tries to read their rules.
func FilterStylesheets(links []string, origin string, skipFonts bool) []string {
	base, _ := url.Parse(origin)
	out := make([]string, 0, len(links))
	for _, raw := range links {
		u, err := url.Parse(raw)
		if err != nil || raw == "" {
			continue
		}
		if u.IsAbs() || strings.HasPrefix(raw, "//") {
			if base == nil || !sameOrigin(u, base) {
				continue
			}
		}
		if skipFonts && isFontSheet(u) {
			continue
		}
		out = append(out, raw)
	}
	return out
}

func sameOrigin(a, b *url.URL) bool {
	scheme := a.Scheme
	if scheme == "" {
		scheme = b.Scheme
	}
	return strings.EqualFold(scheme, b.Scheme) && strings.EqualFold(a.Host, b.Host)
}

func isFontSheet(u *url.URL) bool {
	p := strings.ToLower(u.Host + u.Path)
	return strings.Contains(p, "font")
}

// RenderOptions controls the capture document.
type RenderOptions struct {
	Stylesheets []string
}

type cardView struct {
	X, Y        float64
	Label       string
	Description string
	Icon        string
	Accent      string
	Status      string
	StatusColor string
	ShowBadge   bool
}

type lineView struct {
	X1, Y1, X2, Y2 float64
	Stroke         string
	Dashed         bool
}

type docView struct {
	Title       string
	Width       float64
	Height      float64
	Stylesheets []string
	Cards       []cardView
	Lines       []lineView
}

var docTemplate = template.Must(template.New("capture").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{range .Stylesheets}}<link rel="stylesheet" href="{{.}}">
{{end}}<style>
body { margin: 0; background: #050505; font-family: system-ui, sans-serif; }
#canvas { position: relative; background: linear-gradient(#0a0a0a, #050505); }
.card { position: absolute; box-sizing: border-box; width: 256px; height: 112px; padding: 16px;
  border-radius: 16px; background: rgba(0,0,0,0.4); border: 1px solid rgba(255,255,255,0.08); color: rgba(255,255,255,0.9); }
.card h4 { margin: 0 0 4px; font-size: 14px; }
.card p { margin: 0; font-size: 11px; color: rgba(255,255,255,0.4); }
.icon { float: left; width: 32px; height: 32px; margin-right: 12px; border-radius: 10px; border: 1px solid; }
.badge { position: absolute; right: 16px; bottom: 10px; font: 10px monospace; text-transform: uppercase; }
</style>
</head>
<body>
<div id="canvas" style="width: {{.Width}}px; height: {{.Height}}px">
<svg width="{{.Width}}" height="{{.Height}}" style="position:absolute;left:0;top:0">
{{range .Lines}}<line x1="{{.X1}}" y1="{{.Y1}}" x2="{{.X2}}" y2="{{.Y2}}" stroke="{{.Stroke}}" stroke-width="2"{{if .Dashed}} stroke-dasharray="6 4"{{end}}/>
{{end}}</svg>
{{range .Cards}}<div class="card" style="left: {{.X}}px; top: {{.Y}}px">
<div class="icon" title="{{.Icon}}" style="border-color: {{.Accent}}"></div>
<h4>{{.Label}}</h4>
<p>{{.Description}}</p>
{{if .ShowBadge}}<span class="badge" style="color: {{.StatusColor}}">{{.Status}}</span>{{end}}
</div>
{{end}}</div>
</body>
</html>
`))

// RenderDocument lays the flowchart out as a standalone HTML page whose
// #canvas element is the capture target.
func RenderDocument(f *flowchart.Flowchart, opts RenderOptions) (string, error) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range f.Nodes {
		minX = math.Min(minX, n.Position.X)
		minY = math.Min(minY, n.Position.Y)
		maxX = math.Max(maxX, n.Position.X+cardWidth)
		maxY = math.Max(maxY, n.Position.Y+cardHeight)
	}
	if len(f.Nodes) == 0 {
		minX, minY, maxX, maxY = 0, 0, cardWidth, cardHeight
	}
	offX, offY := padding-minX, padding-minY

	view := docView{
		Title:       f.Name,
		Width:       maxX - minX + 2*padding,
		Height:      maxY - minY + 2*padding,
		Stylesheets: opts.Stylesheets,
	}
	if view.Title == "" {
		view.Title = f.ID
	}

	at := make(map[string]flowchart.Position, len(f.Nodes))
	for _, n := range f.Nodes {
		if !n.Type.Valid() {
			return "", fmt.Errorf("capture: node %q: %w", n.ID, flowchart.ErrUnknownNodeType)
		}
		d := flowchart.Descriptor(n.Type)
		x, y := n.Position.X+offX, n.Position.Y+offY
		at[n.ID] = flowchart.Position{X: x, Y: y}
		view.Cards = append(view.Cards, cardView{
			X:           x,
			Y:           y,
			Label:       n.Data.Label,
			Description: n.Data.Description,
			Icon:        d.Icon,
			Accent:      d.Accent.Hex,
			Status:      string(n.Data.Status),
			StatusColor: badgeHex(n.Data.Status),
			ShowBadge:   flowchart.BadgeVisible(n.Data.Status),
		})
	}

	for _, e := range f.Edges {
		src, ok1 := at[e.Source]
		dst, ok2 := at[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		stroke := "rgba(255,255,255,0.4)"
		if strings.HasPrefix(e.Style, "rgba(") || strings.HasPrefix(e.Style, "#") {
			stroke = e.Style
		}
		view.Lines = append(view.Lines, lineView{
			X1: src.X + cardWidth/2, Y1: src.Y + cardHeight,
			X2: dst.X + cardWidth/2, Y2: dst.Y,
			Stroke: stroke,
			Dashed: e.Animated,
		})
	}

	var buf bytes.Buffer
	if err := docTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("capture: render document: %w", err)
	}
	return buf.String(), nil
}

func badgeHex(s flowchart.Status) string {
	text, _ := flowchart.StatusColors(s)
	return text.Hex()
}
