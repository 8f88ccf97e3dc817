package input

import "strconv"

// ControlKind enumerates every command the core consumes. The set is
// closed; the frame loop switches over it exhaustively.
type ControlKind int

const (
	Nop ControlKind = iota
	Quit
	ScrollTo
	ScrollLeft
	ScrollRight
	ScrollToNextFound
	ScrollToPrevFound
	Find
	Filter
	BufferContent
	BufferReset
)

// PositionKind describes a scroll target for ScrollTo controls.
type PositionKind int

const (
	PosUp PositionKind = iota
	PosDown
	PosPageUp
	PosPageDown
	PosTop
	PosBottom
	PosRow
)

// Position is a scroll destination. Row is meaningful only for PosRow.
type Position struct {
	Kind PositionKind
	Row  int
}

// Control is one discrete command produced by the input state machine.
type Control struct {
	Kind ControlKind
	Pos  Position
	Text string // pattern for Find/Filter, buffer text for BufferContent
}

// Mode is the input state machine mode. Outside ModeDefault the UI owns a
// text buffer and keystrokes surface as BufferContent controls.
type Mode int

const (
	ModeDefault Mode = iota
	ModeFind
	ModeFilter
	ModeGoto
)

// Handler translates key presses into Controls.
type Handler struct {
	mode Mode
}

// NewHandler returns a handler in default mode.
func NewHandler() *Handler {
	return &Handler{}
}

// Mode returns the current input mode.
func (h *Handler) Mode() Mode {
	return h.mode
}

// Key translates a key press in default mode. Keys that open a buffer mode
// ("/", "&", ":") switch the handler's mode and return a BufferContent
// control with the empty buffer.
func (h *Handler) Key(key string) Control {
	switch key {
	case "q", "ctrl+c":
		return Control{Kind: Quit}
	case "j", "down":
		return scroll(PosDown)
	case "k", "up":
		return scroll(PosUp)
	case "ctrl+f", "pgdown", " ":
		return scroll(PosPageDown)
	case "ctrl+b", "pgup":
		return scroll(PosPageUp)
	case "g", "home":
		return scroll(PosTop)
	case "G", "end":
		return scroll(PosBottom)
	case "h", "left":
		return Control{Kind: ScrollLeft}
	case "l", "right":
		return Control{Kind: ScrollRight}
	case "n":
		return Control{Kind: ScrollToNextFound}
	case "N":
		return Control{Kind: ScrollToPrevFound}
	case "/":
		h.mode = ModeFind
		return Control{Kind: BufferContent}
	case "&":
		h.mode = ModeFilter
		return Control{Kind: BufferContent}
	case ":":
		h.mode = ModeGoto
		return Control{Kind: BufferContent}
	}
	return Control{Kind: Nop}
}

// Buffer reports the current buffer text while typing in a buffer mode.
func (h *Handler) Buffer(text string) Control {
	return Control{Kind: BufferContent, Text: text}
}

// Commit ends the current buffer mode with its final text and returns the
// resulting command. An unparseable goto target resets the buffer instead
// of erroring.
func (h *Handler) Commit(text string) Control {
	mode := h.mode
	h.mode = ModeDefault
	switch mode {
	case ModeFind:
		return Control{Kind: Find, Text: text}
	case ModeFilter:
		return Control{Kind: Filter, Text: text}
	case ModeGoto:
		n, err := strconv.Atoi(text)
		if err != nil || n < 1 {
			return Control{Kind: BufferReset}
		}
		return Control{Kind: ScrollTo, Pos: Position{Kind: PosRow, Row: n - 1}}
	}
	return Control{Kind: Nop}
}

// Cancel aborts the current buffer mode.
func (h *Handler) Cancel() Control {
	h.mode = ModeDefault
	return Control{Kind: BufferReset}
}

func scroll(kind PositionKind) Control {
	return Control{Kind: ScrollTo, Pos: Position{Kind: kind}}
}
