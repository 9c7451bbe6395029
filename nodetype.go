package flowchart

import (
	"fmt"
	"strings"
)

// NodeType is the discriminant tag of a node. The set is closed; the palette
// only ever emits these values.
type NodeType string

const (
	TypeStart      NodeType = "startNode"
	TypeProcess    NodeType = "processNode"
	TypeDecision   NodeType = "decisionNode"
	TypeEnd        NodeType = "endNode"
	TypeNote       NodeType = "noteNode"
	TypeDatabase   NodeType = "databaseNode"
	TypeAPI        NodeType = "apiNode"
	TypeCloud      NodeType = "cloudNode"
	TypeUserInput  NodeType = "userInputNode"
	TypeSubprocess NodeType = "subprocessNode"
	TypeBlank      NodeType = "blankNode"
)

// NodeTypes lists every tag in palette order.
var NodeTypes = []NodeType{
	TypeStart,
	TypeProcess,
	TypeDecision,
	TypeEnd,
	TypeNote,
	TypeDatabase,
	TypeAPI,
	TypeCloud,
	TypeUserInput,
	TypeSubprocess,
	TypeBlank,
}

// Accent is the colour family a node type is drawn with.
type Accent struct {
	Name string        `json:"name"`
	Text SemanticColor `json:"text"`
	Glow SemanticColor `json:"glow"`
	Hex  string        `json:"hex"`
}

// NodeDescriptor is how a node type is presented.
type NodeDescriptor struct {
	Title  string `json:"title"`
	Icon   string `json:"icon"`
	Accent Accent `json:"accent"`
}

// PaletteItem is one draggable template in the tool palette.
type PaletteItem struct {
	Type NodeType `json:"type"`
	NodeDescriptor
}

func accent(name, hex string) Accent {
	return Accent{
		Name: name,
		Text: SemanticColor("text-" + name + "-400"),
		Glow: SemanticColor("bg-" + name + "-500"),
		Hex:  hex,
	}
}

// Descriptor returns the presentation of t. It panics on an unknown tag:
// callers at a trust boundary go through ParseNodeType first.
func Descriptor(t NodeType) NodeDescriptor {
	switch t {
	case TypeStart:
		return NodeDescriptor{Title: "Start Node", Icon: "play", Accent: accent("emerald", "#34d399")}
	case TypeProcess:
		return NodeDescriptor{Title: "Process", Icon: "settings", Accent: accent("blue", "#60a5fa")}
	case TypeDecision:
		return NodeDescriptor{Title: "Decision", Icon: "help-circle", Accent: accent("amber", "#fbbf24")}
	case TypeEnd:
		return NodeDescriptor{Title: "End Node", Icon: "check-circle", Accent: accent("purple", "#c084fc")}
	case TypeNote:
		return NodeDescriptor{Title: "Note", Icon: "sticky-note", Accent: accent("yellow", "#facc15")}
	case TypeDatabase:
		return NodeDescriptor{Title: "Database", Icon: "database", Accent: accent("cyan", "#22d3ee")}
	case TypeAPI:
		return NodeDescriptor{Title: "API", Icon: "zap", Accent: accent("pink", "#f472b6")}
	case TypeCloud:
		return NodeDescriptor{Title: "Cloud", Icon: "cloud", Accent: accent("sky", "#38bdf8")}
	case TypeUserInput:
		return NodeDescriptor{Title: "User Input", Icon: "smartphone", Accent: accent("orange", "#fb923c")}
	case TypeSubprocess:
		return NodeDescriptor{Title: "Subprocess", Icon: "layers", Accent: accent("indigo", "#818cf8")}
	case TypeBlank:
		return NodeDescriptor{
			Title: "Blank",
			Icon:  "square",
			Accent: Accent{
				Name: "neutral",
				Text: ColorNeutralText,
				Glow: ColorNeutralBg,
				Hex:  "#a3a3a3",
			},
		}
	}
	panic(fmt.Sprintf("flowchart: unknown node type %q", string(t)))
}

// DefaultData is the payload a freshly dropped node of type t starts with.
func DefaultData(t NodeType) NodeData {
	if !t.Valid() {
		panic(fmt.Sprintf("flowchart: unknown node type %q", string(t)))
	}
	color, bg := StatusColors(StatusDraft)
	return NodeData{
		Label:         "New " + strings.TrimSuffix(string(t), "Node"),
		Description:   "Custom description here.",
		Status:        StatusDraft,
		StatusColor:   color,
		StatusBgColor: bg,
	}
}

// Valid reports whether t is one of the registered tags.
func (t NodeType) Valid() bool {
	for _, k := range NodeTypes {
		if t == k {
			return true
		}
	}
	return false
}

// ParseNodeType validates a raw tag coming from outside the process.
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownNodeType, s)
	}
	return t, nil
}

// Palette returns the draggable templates in display order.
func Palette() []PaletteItem {
	items := make([]PaletteItem, 0, len(NodeTypes))
	for _, t := range NodeTypes {
		items = append(items, PaletteItem{Type: t, NodeDescriptor: Descriptor(t)})
	}
	return items
}
