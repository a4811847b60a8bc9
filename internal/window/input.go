package window

import "fmt"

// Key represents a keyboard key. Escape is the only key this program reacts
// to.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "Escape"
	default:
		return fmt.Sprintf("Key(%d)", int(k))
	}
}

type KeyState int

const (
	// The key is currently up
	KeyStateUp KeyState = iota
	// The key is currently down
	KeyStateDown
	// The key is being held down (repeated)
	KeyStateRepeated
)

func (ks KeyState) IsDown() bool {
	return ks == KeyStateDown || ks == KeyStateRepeated
}
