package canvas

import "github.com/meikuraledutech/flowchart"

func seeded(id string, t flowchart.NodeType, x, y float64, label, desc string, s flowchart.Status, color, bg flowchart.SemanticColor) flowchart.Node {
	return flowchart.Node{
		ID:       id,
		Type:     t,
		Position: flowchart.Position{X: x, Y: y},
		Data: flowchart.NodeData{
			Label:         label,
			Description:   desc,
			Status:        s,
			StatusColor:   color,
			StatusBgColor: bg,
		},
	}
}

// Bootstrap returns the demo project-lifecycle graph: five nodes, five edges,
// including one back edge from the revisions step to design.
func Bootstrap() *flowchart.Flowchart {
	return &flowchart.Flowchart{
		Name: "Project Lifecycle Draft",
		Nodes: []flowchart.Node{
			seeded("start", flowchart.TypeStart, 250, 0,
				"Project Initialization", "Kickoff meeting and requirements gathering phase.",
				flowchart.StatusCompleted, flowchart.ColorEmeraldText, flowchart.ColorEmeraldBg),
			seeded("process-1", flowchart.TypeProcess, 250, 200,
				"Design & Prototyping", "Creating high-fidelity wireframes and UX flows.",
				flowchart.StatusInProgress, flowchart.ColorBlueText, flowchart.ColorBlueBg),
			seeded("decision-1", flowchart.TypeDecision, 250, 400,
				"Client Approval?", "Review cycle with stakeholders for design sign-off.",
				flowchart.StatusPending, flowchart.ColorAmberText, flowchart.ColorAmberBg),
			seeded("process-2", flowchart.TypeProcess, 50, 600,
				"Revisions", "Iterating on feedback and adjusting prototypes.",
				flowchart.StatusWaiting, flowchart.ColorAmberText, flowchart.ColorAmberBg),
			seeded("end-1", flowchart.TypeEnd, 450, 600,
				"Development Handover", "Assets prepared and tasks assigned to engineering.",
				flowchart.StatusNotStarted, flowchart.ColorNeutralText, flowchart.ColorNeutralBg),
		},
		Edges: []flowchart.Edge{
			{ID: "e-start-proc1", Source: "start", Target: "process-1", Animated: true, Style: "rgba(52,211,153,0.5)"},
			{ID: "e-proc1-dec1", Source: "process-1", Target: "decision-1", Animated: true, Style: "rgba(59,130,246,0.5)"},
			{ID: "e-dec1-proc2", Source: "decision-1", Target: "process-2", Style: "rgba(251,191,36,0.5)"},
			{ID: "e-dec1-end1", Source: "decision-1", Target: "end-1", Animated: true, Style: "rgba(168,85,247,0.5)"},
			{ID: "e-proc2-proc1", Source: "process-2", Target: "process-1", Style: "rgba(255,255,255,0.2)"},
		},
	}
}
