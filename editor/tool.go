package editor

// Tool decides what the primary button does.
type Tool int

const (
	ToolPaint Tool = iota
	ToolErase
	// ToolFill repaints the connected run of matching cells under a press,
	// bounded by the visible cells.
	ToolFill
)

func (t Tool) String() string {
	switch t {
	case ToolPaint:
		return "Paint"
	case ToolErase:
		return "Erase"
	case ToolFill:
		return "Fill"
	default:
		return "Unknown"
	}
}

// Drag is what a held button is doing as the pointer moves.
type Drag int

const (
	DragNone Drag = iota
	DragPainting
	DragErasing
)

func (d Drag) String() string {
	switch d {
	case DragNone:
		return "None"
	case DragPainting:
		return "Painting"
	case DragErasing:
		return "Erasing"
	default:
		return "Unknown"
	}
}
