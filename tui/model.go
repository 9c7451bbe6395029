// Package tui is a terminal render layer for a flowchart canvas. It drives
// the same Controller, Inspector and capture Workflow the HTTP API uses.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/meikuraledutech/flowchart"
	"github.com/meikuraledutech/flowchart/canvas"
	"github.com/meikuraledutech/flowchart/capture"
)

// rowSpacing is the vertical gap between nodes added from the keyboard.
const rowSpacing = 150

type captureDoneMsg struct{ err error }

type sendDoneMsg struct{ err error }

// Model is the bubbletea model of the editor.
type Model struct {
	ctx    context.Context
	canvas *canvas.Canvas
	ctl    *canvas.Controller
	insp   *canvas.Inspector
	wf     *capture.Workflow
	log    *zap.Logger
	styles Styles

	cursor      int
	palette     int
	connectFrom string
	editing     bool
	input       textinput.Model

	message string
	err     error
	width   int
}

// New returns a model over c. wf may be nil, which disables capture.
func New(ctx context.Context, c *canvas.Canvas, wf *capture.Workflow, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	in := textinput.New()
	in.Placeholder = "Node label"
	in.CharLimit = 80
	in.Width = 40

	m := Model{
		ctx:    ctx,
		canvas: c,
		ctl:    canvas.NewController(c, nil, logger),
		insp:   canvas.NewInspector(c),
		wf:     wf,
		log:    logger.Named("tui"),
		styles: DefaultStyles(),
		input:  in,
	}
	if nodes := c.Nodes(); len(nodes) > 0 {
		m.ctl.ClickNode(nodes[0].ID)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case captureDoneMsg:
		m.setResult("Capture ready: y to send, n to discard, d to switch destination", msg.err)
		return m, nil

	case sendDoneMsg:
		m.setResult("Capture sent", msg.err)
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		if m.previewing() {
			return m.updatePreview(msg)
		}
		return m.updateCanvas(msg)
	}
	return m, nil
}

func (m *Model) setResult(ok string, err error) {
	m.err = err
	if err != nil {
		m.log.Debug("Action failed", zap.Error(err))
		m.message = ""
		return
	}
	m.message = ok
}

func (m Model) previewing() bool {
	return m.wf != nil && m.wf.Status().State == capture.StatePreviewing
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.insp.SetLabel(strings.TrimSpace(m.input.Value()))
		fallthrough
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.message = "Sending..."
		wf, ctx := m.wf, m.ctx
		return m, func() tea.Msg { return sendDoneMsg{err: wf.Send(ctx)} }
	case "n", "esc":
		m.wf.Cancel()
		m.message = "Capture discarded"
	case "d":
		dest := capture.DestinationPrivate
		if st := m.wf.Status(); st.Draft != nil && st.Draft.Destination == capture.DestinationPrivate {
			dest = capture.DestinationChannel
		}
		m.err = m.wf.UpdateDraft(capture.DraftPatch{Destination: &dest})
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateCanvas(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	nodes := m.canvas.Nodes()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.selectCursor(nodes)

	case "down", "j":
		if m.cursor < len(nodes)-1 {
			m.cursor++
		}
		m.selectCursor(nodes)

	case "esc":
		m.ctl.ClickPane()
		m.connectFrom = ""
		m.message = ""

	case "tab":
		m.palette = (m.palette + 1) % len(flowchart.NodeTypes)
	case "shift+tab":
		m.palette = (m.palette + len(flowchart.NodeTypes) - 1) % len(flowchart.NodeTypes)

	case "a":
		// Same palette drag-and-drop path as a pointer; the editor's
		// viewport is the identity, so the drop point is the position.
		dt := canvas.MapTransfer{}
		m.ctl.DragStart(flowchart.Palette()[m.palette], dt)
		id, ok := m.ctl.Drop(dt, canvas.Point{X: 0, Y: float64(len(nodes)) * rowSpacing})
		if !ok {
			break
		}
		m.ctl.ClickNode(id)
		m.cursor = len(nodes)
		m.message = "Added " + id

	case "x", "delete":
		if m.insp.Delete() {
			m.message = "Node deleted"
		}

	case "s":
		n, ok := m.insp.Current()
		if !ok {
			break
		}
		if _, err := m.insp.SetStatus(nextStatus(n.Data.Status)); err != nil {
			m.err = err
		}

	case "e":
		n, ok := m.insp.Current()
		if !ok {
			break
		}
		m.editing = true
		m.input.SetValue(n.Data.Label)
		return m, m.input.Focus()

	case "c":
		sel, ok := m.canvas.Selection()
		if !ok {
			break
		}
		if m.connectFrom == "" {
			m.connectFrom = sel
			m.message = "Connecting from " + sel + ": select a target and press c"
			break
		}
		if id, ok := m.ctl.Connect(canvas.Connection{Source: m.connectFrom, Target: sel}); ok {
			m.message = "Connected " + id
		}
		m.connectFrom = ""

	case "p":
		if m.wf == nil {
			m.message = "Capture is not available"
			break
		}
		m.message = "Capturing..."
		wf, ctx := m.wf, m.ctx
		return m, func() tea.Msg { return captureDoneMsg{err: wf.Capture(ctx)} }
	}

	m.clampCursor()
	return m, nil
}

func (m *Model) selectCursor(nodes []flowchart.Node) {
	if m.cursor < len(nodes) {
		m.ctl.ClickNode(nodes[m.cursor].ID)
	}
}

func (m *Model) clampCursor() {
	n, _ := m.canvas.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func nextStatus(s flowchart.Status) flowchart.Status {
	for i, st := range flowchart.Statuses {
		if st == s {
			return flowchart.Statuses[(i+1)%len(flowchart.Statuses)]
		}
	}
	return flowchart.Statuses[0]
}

func (m Model) View() string {
	var b strings.Builder

	f := m.canvas.Flowchart()
	title := f.Name
	if title == "" {
		title = f.ID
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  %d nodes, %d edges", len(f.Nodes), len(f.Edges))))
	b.WriteString("\n\n")

	sel, _ := m.canvas.Selection()
	for i, n := range f.Nodes {
		line := fmt.Sprintf("%s %s %s",
			accentStyle(n.Type).Render(flowchart.Descriptor(n.Type).Title),
			n.Data.Label,
			badge(n.Data.Status))
		switch {
		case n.ID == sel:
			line = m.styles.Selected.Render(line)
		default:
			line = m.styles.Row.Render(line)
		}
		if i == m.cursor {
			line = m.styles.Cursor.Render(">") + line
		} else {
			line = " " + line
		}
		b.WriteString(line + "\n")
	}

	if len(f.Edges) > 0 {
		b.WriteString("\n")
		for _, e := range f.Edges {
			b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  %s → %s", e.Source, e.Target)) + "\n")
		}
	}

	b.WriteString("\n" + m.inspectorView() + "\n")

	t := flowchart.NodeTypes[m.palette]
	b.WriteString("Add: " + accentStyle(t).Render(flowchart.Descriptor(t).Title) + "\n")

	if m.wf != nil {
		if st := m.wf.Status(); st.State != capture.StateIdle {
			b.WriteString(m.captureView(st) + "\n")
		}
	}
	if m.message != "" {
		b.WriteString(m.message + "\n")
	}
	if m.err != nil {
		b.WriteString(m.styles.Error.Render(m.err.Error()) + "\n")
	}
	b.WriteString(m.styles.Help.Render("j/k move  a add  tab type  e label  s status  c connect  x delete  p capture  q quit"))
	return b.String()
}

func (m Model) inspectorView() string {
	n, ok := m.insp.Current()
	if !ok {
		return m.styles.Panel.Render(m.styles.Muted.Render("Select a node to edit its properties."))
	}
	label := n.Data.Label
	if m.editing {
		label = m.input.View()
	}
	rows := []string{
		accentStyle(n.Type).Render(flowchart.Descriptor(n.Type).Title) + m.styles.Muted.Render("  "+n.ID),
		"Label:       " + label,
		"Description: " + n.Data.Description,
		"Status:      " + string(n.Data.Status),
	}
	panel := lipgloss.JoinVertical(lipgloss.Left, rows...)
	if m.width > 0 {
		return m.styles.Panel.Width(m.width - 4).Render(panel)
	}
	return m.styles.Panel.Render(panel)
}

func (m Model) captureView(st capture.Status) string {
	rows := []string{m.styles.Title.Render("Capture: " + string(st.State))}
	if st.Draft != nil {
		rows = append(rows,
			"Title:       "+st.Draft.Title,
			"Category:    "+st.Draft.Category,
			"Destination: "+string(st.Draft.Destination),
			m.styles.Muted.Render(fmt.Sprintf("%s, %d bytes", st.ImageMIME, st.ImageBytes)))
	}
	if st.LastError != "" {
		rows = append(rows, m.styles.Error.Render("Last attempt failed: "+st.LastError))
	}
	return m.styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
