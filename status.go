package flowchart

// Status is the progress tag shown on a node's badge. Values outside the
// fixed enumeration are tolerated and render with the neutral colours.
type Status string

const (
	StatusNone       Status = "None"
	StatusDraft      Status = "Draft"
	StatusNotStarted Status = "Not Started"
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusWaiting    Status = "Waiting"
	StatusCompleted  Status = "Completed"
)

// Statuses lists the enumeration in selector order.
var Statuses = []Status{
	StatusNone,
	StatusDraft,
	StatusNotStarted,
	StatusPending,
	StatusInProgress,
	StatusWaiting,
	StatusCompleted,
}

// Known reports whether s is part of the fixed enumeration.
func (s Status) Known() bool {
	for _, k := range Statuses {
		if s == k {
			return true
		}
	}
	return false
}

// SemanticColor is a design token understood by the render layer,
// e.g. "text-emerald-400".
type SemanticColor string

const (
	ColorEmeraldText     SemanticColor = "text-emerald-400"
	ColorEmeraldBg       SemanticColor = "bg-emerald-400"
	ColorBlueText        SemanticColor = "text-blue-400"
	ColorBlueBg          SemanticColor = "bg-blue-400"
	ColorAmberText       SemanticColor = "text-amber-400"
	ColorAmberBg         SemanticColor = "bg-amber-400"
	ColorNeutralText     SemanticColor = "text-white/40"
	ColorNeutralBg       SemanticColor = "bg-white/40"
	ColorTransparentText SemanticColor = "text-transparent"
	ColorTransparentBg   SemanticColor = "bg-transparent"
)

// StatusColors maps a status to its (text, background) colour pair.
func StatusColors(s Status) (SemanticColor, SemanticColor) {
	switch s {
	case StatusCompleted:
		return ColorEmeraldText, ColorEmeraldBg
	case StatusInProgress:
		return ColorBlueText, ColorBlueBg
	case StatusPending, StatusWaiting:
		return ColorAmberText, ColorAmberBg
	case StatusNone:
		return ColorTransparentText, ColorTransparentBg
	default:
		return ColorNeutralText, ColorNeutralBg
	}
}

// Hex returns the CSS colour a render layer paints for the token. The
// background tokens share their text token's hue.
func (c SemanticColor) Hex() string {
	switch c {
	case ColorEmeraldText, ColorEmeraldBg:
		return "#34d399"
	case ColorBlueText, ColorBlueBg:
		return "#60a5fa"
	case ColorAmberText, ColorAmberBg:
		return "#fbbf24"
	case ColorTransparentText, ColorTransparentBg:
		return "transparent"
	}
	return "#a3a3a3"
}

// BadgeVisible reports whether the status badge should be drawn at all.
func BadgeVisible(s Status) bool {
	return s != "" && s != StatusNone
}
