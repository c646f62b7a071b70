package input

import (
	"maps"
	"slices"

	"github.com/taigrr/vantage/pkg/controls"
)

// Bindings maps a key code read by the controllers to the terminal key
// strings that press it, in ultraviolet's MatchString syntax.
type Bindings map[string][]string

// DefaultBindings returns the bindings used when no config overrides them.
func DefaultBindings() Bindings {
	return Bindings{
		controls.KeyW: {"w"},
		controls.KeyA: {"a"},
		controls.KeyS: {"s"},
		controls.KeyD: {"d"},
		controls.KeyQ: {"q"},
		controls.KeyE: {"e"},
		controls.KeyB: {"b"},
		controls.KeyR: {"r"},
		controls.KeyI: {"i"},
		controls.KeyJ: {"j"},
		controls.KeyK: {"k"},
		controls.KeyL: {"l"},
		controls.KeyU: {"u"},
		controls.KeyO: {"o"},

		controls.KeyArrowUp:    {"up"},
		controls.KeyArrowDown:  {"down"},
		controls.KeyArrowLeft:  {"left"},
		controls.KeyArrowRight: {"right"},
		controls.KeyPageUp:     {"pgup"},
		controls.KeyPageDown:   {"pgdown"},

		controls.KeySpace:         {"space"},
		controls.KeyEnter:         {"enter"},
		controls.KeyEscape:        {"esc", "escape"},
		controls.KeyControlLeft:   {"ctrl+space"},
		controls.KeyIntlBackslash: {"\\", "/"},

		controls.KeyNumpad1: {"kp1", "1"},
		controls.KeyNumpad2: {"kp2", "2"},
		controls.KeyNumpad4: {"kp4", "4"},
		controls.KeyNumpad5: {"kp5", "5"},
		controls.KeyNumpad6: {"kp6", "6"},
		controls.KeyNumpad8: {"kp8", "8"},
	}
}

// Merge returns a copy of b with the codes in override replaced. An empty
// key list unbinds the code.
func (b Bindings) Merge(override map[string][]string) Bindings {
	out := maps.Clone(b)
	if out == nil {
		out = Bindings{}
	}
	for code, keys := range override {
		if len(keys) == 0 {
			delete(out, code)
			continue
		}
		out[code] = slices.Clone(keys)
	}
	return out
}

// Codes returns the bound key codes in sorted order.
func (b Bindings) Codes() []string {
	return slices.Sorted(maps.Keys(b))
}

// match returns the codes bound to the key and whether shift was held.
// matcher is satisfied by uv.KeyPressEvent and uv.KeyReleaseEvent.
func (b Bindings) match(k matcher) (codes []string, shift bool) {
	for _, code := range b.Codes() {
	keys:
		for _, key := range b[code] {
			switch {
			case k.MatchString(key):
				codes = append(codes, code)
				break keys
			case k.MatchString("shift+" + key):
				codes = append(codes, code)
				shift = true
				break keys
			}
		}
	}
	return codes, shift
}

type matcher interface {
	MatchString(s ...string) bool
}
