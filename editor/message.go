package editor

import "fmt"

// Message is an input the session consumes. The event loop translates
// device events into messages; pointer coordinates are view-space pixels.
type Message interface {
	message()
}

// Command is a key-bound message without arguments.
type Command int

const (
	PanUp Command = iota
	PanDown
	PanLeft
	PanRight
	NextLayer
	PrevLayer
	NextTile
	PrevTile
	NextColor
	PrevColor
	NextTool
	Save
	// PreExit saves when an output destination is configured and then asks
	// the event loop to exit.
	PreExit
	// Exit is for the event loop only; handing it to a Session panics.
	Exit
)

func (Command) message() {}

func (c Command) String() string {
	switch c {
	case PanUp:
		return "PanUp"
	case PanDown:
		return "PanDown"
	case PanLeft:
		return "PanLeft"
	case PanRight:
		return "PanRight"
	case NextLayer:
		return "NextLayer"
	case PrevLayer:
		return "PrevLayer"
	case NextTile:
		return "NextTile"
	case PrevTile:
		return "PrevTile"
	case NextColor:
		return "NextColor"
	case PrevColor:
		return "PrevColor"
	case NextTool:
		return "NextTool"
	case Save:
		return "Save"
	case PreExit:
		return "PreExit"
	case Exit:
		return "Exit"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

// Button is a pointer button.
type Button int

const (
	Primary Button = iota
	Secondary
)

func (b Button) String() string {
	switch b {
	case Primary:
		return "Primary"
	case Secondary:
		return "Secondary"
	default:
		return fmt.Sprintf("Button(%d)", int(b))
	}
}

// PointerDown is a button press at (X, Y).
type PointerDown struct {
	X, Y   int
	Button Button
}

// PointerUp is a button release at (X, Y).
type PointerUp struct {
	X, Y   int
	Button Button
}

// PointerMoved is pointer motion to (X, Y).
type PointerMoved struct {
	X, Y int
}

// SelectTile makes the named tile kind current, e.g. from a palette click.
type SelectTile struct {
	Name string
}

// SelectLayer makes the layer at Index current.
type SelectLayer struct {
	Index int
}

func (PointerDown) message()  {}
func (PointerUp) message()    {}
func (PointerMoved) message() {}
func (SelectTile) message()   {}
func (SelectLayer) message()  {}
