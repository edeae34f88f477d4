package window

import "fmt"

// ID is an X11 window identifier. Windows are owned by the window manager;
// winctl only ever references them.
type ID uint32

func (id ID) String() string {
	return fmt.Sprintf("0x%08x", uint32(id))
}

// Point is a position in screen coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect is an axis-aligned rectangle in absolute screen coordinates.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Width returns Right - Left.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r Rect) Height() int { return r.Bottom - r.Top }

// TopLeft returns the rectangle origin.
func (r Rect) TopLeft() Point { return Point{X: r.Left, Y: r.Top} }

// Size returns the rectangle dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width(), Height: r.Height()} }

// Center returns the rectangle midpoint, rounded down.
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width()/2, Y: r.Top + r.Height()/2}
}

// Contains reports whether (x, y) lies inside the half-open rectangle
// [Left, Right) x [Top, Bottom).
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// Geometry is a window's position relative to its parent plus its size, as
// reported by the X server.
type Geometry struct {
	X      int
	Y      int
	Width  int
	Height int
}

// MapState mirrors the X11 map_state window attribute.
type MapState int

const (
	MapStateUnmapped MapState = iota
	MapStateUnviewable
	MapStateViewable
)

// HintState is the ICCCM WM_HINTS initial_state value.
type HintState uint

const (
	HintStateWithdrawn HintState = 0
	HintStateNormal    HintState = 1
	HintStateIconic    HintState = 3
)

// StateAction is the action field of a _NET_WM_STATE client message.
type StateAction int

const (
	StateUnset  StateAction = 0
	StateSet    StateAction = 1
	StateToggle StateAction = 2
)
