package editor

import (
	"strings"

	"github.com/nota-app/nota/pkg/models"
)

// Command identifies the operation the interpreter chose for a keystroke.
type Command string

const (
	CommandNone        Command = ""
	CommandSplit       Command = "split"
	CommandIndent      Command = "indent"
	CommandOutdent     Command = "outdent"
	CommandDeleteEmpty Command = "delete-empty"
	CommandFocusPrev   Command = "focus-prev"
	CommandFocusNext   Command = "focus-next"
	CommandDuplicate   Command = "duplicate"
	CommandOpenMenu    Command = "open-menu"
)

// KeyEvent is one keystroke as the view layer reports it. Key carries
// either a named key ("Enter", "Tab", "Backspace", "ArrowUp", "ArrowDown")
// or the typed character itself. Ctrl and Meta are interchangeable.
type KeyEvent struct {
	Key   string
	Shift bool
	Ctrl  bool
	Meta  bool
}

// Precondition gates a binding on the state of the focused block.
type Precondition func(b models.Block) bool

func whenEmpty(b models.Block) bool { return b.Text == "" }

// Binding pairs a key chord with a command. Chords are lowercase key names
// with "ctrl+" and "shift+" prefixes in that order.
type Binding struct {
	Chord   string
	When    Precondition
	Command Command
}

// Keymap resolves keystrokes against an ordered binding table; the first
// match wins.
type Keymap []Binding

// DefaultKeymap returns the built-in editing bindings.
//
// The slash binding fires only on an empty block: the menu opens at the
// moment the content becomes exactly "/". Backspace turns into a delete
// only when the block is already empty; otherwise it is ordinary text
// editing and never reaches the interpreter as a command.
func DefaultKeymap() Keymap {
	return Keymap{
		{Chord: "enter", Command: CommandSplit},
		{Chord: "tab", Command: CommandIndent},
		{Chord: "shift+tab", Command: CommandOutdent},
		{Chord: "backspace", When: whenEmpty, Command: CommandDeleteEmpty},
		{Chord: "arrowup", Command: CommandFocusPrev},
		{Chord: "arrowdown", Command: CommandFocusNext},
		{Chord: "ctrl+d", Command: CommandDuplicate},
		{Chord: "/", When: whenEmpty, Command: CommandOpenMenu},
	}
}

// Resolve returns the command bound to the event given the focused block's
// state. The exact chord is tried first; for keys where shift carries no
// binding of its own, the shiftless chord is tried as a fallback so that
// e.g. Shift+Enter still splits.
func (k Keymap) Resolve(ev KeyEvent, b models.Block) Command {
	if cmd, ok := k.lookup(chord(ev, true), b); ok {
		return cmd
	}
	if ev.Shift {
		if cmd, ok := k.lookup(chord(ev, false), b); ok {
			return cmd
		}
	}
	return CommandNone
}

func (k Keymap) lookup(c string, b models.Block) (Command, bool) {
	for _, binding := range k {
		if binding.Chord != c {
			continue
		}
		if binding.When != nil && !binding.When(b) {
			continue
		}
		return binding.Command, true
	}
	return CommandNone, false
}

func chord(ev KeyEvent, withShift bool) string {
	var sb strings.Builder
	if ev.Ctrl || ev.Meta {
		sb.WriteString("ctrl+")
	}
	if withShift && ev.Shift {
		sb.WriteString("shift+")
	}
	sb.WriteString(strings.ToLower(ev.Key))
	return sb.String()
}
