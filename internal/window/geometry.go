package window

import "fmt"

// MaxAncestorDepth bounds the ancestor walk in ResolveAbsoluteRect. Real
// reparenting window managers nest clients two or three levels deep.
const MaxAncestorDepth = 64

// ResolveAbsoluteRect computes the on-screen rectangle of id by walking its
// ancestors and summing their offsets until the root window is reached.
func ResolveAbsoluteRect(p Protocol, id ID) (Rect, error) {
	geom, err := p.Geometry(id)
	if err != nil {
		return Rect{}, lookupErr(id, "get geometry", err)
	}

	root := p.Root()
	x, y := geom.X, geom.Y
	if id != root {
		cur := id
		for depth := 0; ; depth++ {
			if depth >= MaxAncestorDepth {
				return Rect{}, &LookupError{
					ID:  id,
					Op:  "resolve ancestors",
					Err: fmt.Errorf("%w (%d)", ErrTreeTooDeep, MaxAncestorDepth),
				}
			}

			parent, err := p.Parent(cur)
			if err != nil {
				return Rect{}, lookupErr(cur, "query tree", err)
			}
			pgeom, err := p.Geometry(parent)
			if err != nil {
				return Rect{}, lookupErr(parent, "get geometry", err)
			}
			x += pgeom.X
			y += pgeom.Y
			if parent == root {
				break
			}
			cur = parent
		}
	}

	return Rect{
		Left:   x,
		Top:    y,
		Right:  x + geom.Width,
		Bottom: y + geom.Height,
	}, nil
}

// Rect returns the window's absolute screen rectangle.
func (w *Window) Rect() (Rect, error) {
	return ResolveAbsoluteRect(w.session.proto, w.id)
}

// Left returns the x coordinate of the window's left edge.
func (w *Window) Left() (int, error) {
	r, err := w.Rect()
	return r.Left, err
}

// Top returns the y coordinate of the window's top edge.
func (w *Window) Top() (int, error) {
	r, err := w.Rect()
	return r.Top, err
}

// Right returns the x coordinate just past the window's right edge.
func (w *Window) Right() (int, error) {
	r, err := w.Rect()
	return r.Right, err
}

// Bottom returns the y coordinate just past the window's bottom edge.
func (w *Window) Bottom() (int, error) {
	r, err := w.Rect()
	return r.Bottom, err
}

// Width returns the window width in pixels.
func (w *Window) Width() (int, error) {
	r, err := w.Rect()
	return r.Width(), err
}

// Height returns the window height in pixels.
func (w *Window) Height() (int, error) {
	r, err := w.Rect()
	return r.Height(), err
}
