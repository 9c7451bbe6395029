package flowchart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusColors(t *testing.T) {
	cases := []struct {
		status   Status
		text, bg SemanticColor
	}{
		{StatusCompleted, ColorEmeraldText, ColorEmeraldBg},
		{StatusInProgress, ColorBlueText, ColorBlueBg},
		{StatusPending, ColorAmberText, ColorAmberBg},
		{StatusWaiting, ColorAmberText, ColorAmberBg},
		{StatusNone, ColorTransparentText, ColorTransparentBg},
		{StatusDraft, ColorNeutralText, ColorNeutralBg},
		{StatusNotStarted, ColorNeutralText, ColorNeutralBg},
		{Status("Blocked by legal"), ColorNeutralText, ColorNeutralBg},
		{Status(""), ColorNeutralText, ColorNeutralBg},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			text, bg := StatusColors(tc.status)
			assert.Equal(t, tc.text, text)
			assert.Equal(t, tc.bg, bg)
		})
	}

	for _, s := range Statuses {
		assert.True(t, s.Known(), "%q should be part of the enumeration", s)
	}
	assert.False(t, Status("Blocked").Known())
	assert.False(t, BadgeVisible(StatusNone))
	assert.True(t, BadgeVisible(StatusDraft))
}

func TestRegistry(t *testing.T) {
	t.Run("every type has a descriptor and defaults", func(t *testing.T) {
		for _, nt := range NodeTypes {
			d := Descriptor(nt)
			assert.NotEmpty(t, d.Icon, nt)
			assert.NotEmpty(t, d.Accent.Hex, nt)

			data := DefaultData(nt)
			assert.Equal(t, StatusDraft, data.Status)
			assert.Equal(t, ColorNeutralText, data.StatusColor)
			assert.Equal(t, ColorNeutralBg, data.StatusBgColor)
			assert.Equal(t, "Custom description here.", data.Description)
		}
	})

	t.Run("default label strips the Node suffix", func(t *testing.T) {
		assert.Equal(t, "New process", DefaultData(TypeProcess).Label)
		assert.Equal(t, "New userInput", DefaultData(TypeUserInput).Label)
	})

	t.Run("accents follow the original node renderers", func(t *testing.T) {
		assert.Equal(t, "emerald", Descriptor(TypeStart).Accent.Name)
		assert.Equal(t, "blue", Descriptor(TypeProcess).Accent.Name)
		assert.Equal(t, "amber", Descriptor(TypeDecision).Accent.Name)
		assert.Equal(t, "purple", Descriptor(TypeEnd).Accent.Name)
		assert.Equal(t, SemanticColor("text-emerald-400"), Descriptor(TypeStart).Accent.Text)
	})

	t.Run("unknown tags fail fast", func(t *testing.T) {
		assert.Panics(t, func() { Descriptor("spaceship") })
		assert.Panics(t, func() { DefaultData("spaceship") })
	})

	t.Run("parse guards the boundary", func(t *testing.T) {
		nt, err := ParseNodeType("decisionNode")
		require.NoError(t, err)
		assert.Equal(t, TypeDecision, nt)

		_, err = ParseNodeType("decision")
		assert.True(t, errors.Is(err, ErrUnknownNodeType))
	})

	t.Run("palette is ordered and complete", func(t *testing.T) {
		p := Palette()
		require.Len(t, p, len(NodeTypes))
		assert.Equal(t, TypeStart, p[0].Type)
		assert.Equal(t, "Start Node", p[0].Title)
	})
}

func TestDataPatchApply(t *testing.T) {
	base := NodeData{
		Label:         "Design",
		Description:   "Wireframes",
		Status:        StatusInProgress,
		StatusColor:   ColorBlueText,
		StatusBgColor: ColorBlueBg,
	}

	t.Run("label only is non-destructive", func(t *testing.T) {
		label := "X"
		got := DataPatch{Label: &label}.Apply(base)
		assert.Equal(t, "X", got.Label)
		assert.Equal(t, base.Description, got.Description)
		assert.Equal(t, base.Status, got.Status)
		assert.Equal(t, base.StatusColor, got.StatusColor)
	})

	t.Run("status derives colours", func(t *testing.T) {
		s := StatusCompleted
		got := DataPatch{Status: &s}.Apply(base)
		assert.Equal(t, ColorEmeraldText, got.StatusColor)
		assert.Equal(t, ColorEmeraldBg, got.StatusBgColor)
	})

	t.Run("explicit colours win", func(t *testing.T) {
		s := StatusCompleted
		c := SemanticColor("text-rose-400")
		got := DataPatch{Status: &s, StatusColor: &c}.Apply(base)
		assert.Equal(t, c, got.StatusColor)
		assert.Equal(t, base.StatusBgColor, got.StatusBgColor)
	})

	assert.True(t, DataPatch{}.IsEmpty())
}

func TestValidate(t *testing.T) {
	good := func() *Flowchart {
		return &Flowchart{
			ID: "f",
			Nodes: []Node{
				{ID: "a", Type: TypeStart},
				{ID: "b", Type: TypeEnd},
			},
			Edges: []Edge{{ID: "e1", Source: "a", Target: "b"}},
		}
	}

	require.NoError(t, Validate(good()))

	f := good()
	f.Nodes = append(f.Nodes, Node{ID: "a", Type: TypeNote})
	assert.ErrorIs(t, Validate(f), ErrDuplicateID)

	f = good()
	f.Edges = append(f.Edges, Edge{ID: "e1", Source: "a", Target: "a"})
	assert.ErrorIs(t, Validate(f), ErrDuplicateID)

	f = good()
	f.Edges[0].Target = "gone"
	assert.ErrorIs(t, Validate(f), ErrDanglingEdge)

	f = good()
	f.Nodes[0].Type = "rocketNode"
	assert.ErrorIs(t, Validate(f), ErrUnknownNodeType)
}

func TestClone(t *testing.T) {
	f := &Flowchart{ID: "f", Nodes: []Node{{ID: "a", Type: TypeStart}}}
	c := f.Clone()
	c.Nodes[0].ID = "changed"
	assert.Equal(t, "a", f.Nodes[0].ID)
	assert.Nil(t, (*Flowchart)(nil).Clone())
}

func TestSemanticColorHex(t *testing.T) {
	for _, s := range Statuses {
		text, bg := StatusColors(s)
		assert.Equal(t, text.Hex(), bg.Hex(), "status %q paints text and background alike", s)
	}
	assert.Equal(t, "#34d399", ColorEmeraldText.Hex())
	assert.Equal(t, "transparent", ColorTransparentBg.Hex())
	assert.Equal(t, "#a3a3a3", SemanticColor("text-rose-400").Hex())
}
