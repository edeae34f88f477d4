package window

// Protocol is the window-system surface winctl drives. The x11 package
// implements it over a single X connection; it performs no locking, so
// callers sharing one Protocol must serialize access.
//
// Methods prefixed with Request ask the window manager to do something;
// the change is applied asynchronously and must be confirmed by re-reading
// state.
type Protocol interface {
	Root() ID
	Geometry(id ID) (Geometry, error)
	Parent(id ID) (ID, error)
	MapState(id ID) (MapState, error)
	Map(id ID) error
	MapSubwindows(id ID) error
	Unmap(id ID) error
	UnmapSubwindows(id ID) error
	Pointer() (Point, error)
	// Sync blocks until the server has processed every request sent so far.
	Sync() error

	ClientList() ([]ID, error)
	ActiveWindow() (ID, error)
	DesktopGeometry() (Size, error)
	Name(id ID) (string, error)
	WmState(id ID) ([]State, error)
	InitialState(id ID) (HintState, error)
	SetInitialState(id ID, state HintState) error

	RequestActivate(id ID) error
	RequestWmState(id ID, action StateAction, first, second State) error
	RequestMoveResize(id ID, x, y, width, height int) error
	RequestClose(id ID) error
}

// KeySender synthesizes a key combination such as "super+h".
type KeySender interface {
	SendCombo(combo string) error
}

// Controller is the per-window capability set. *Window is the only
// implementation for X11.
type Controller interface {
	ID() ID
	Rect() (Rect, error)
	Title() (string, error)
	IsMinimized() (bool, error)
	IsMaximized() (bool, error)
	IsActive() (bool, error)
	IsMapped() (bool, error)
	Visible() (bool, error)
	States() (StateFlags, error)
	Snapshot() (Snapshot, error)

	Minimize(wait bool) (bool, error)
	Maximize(wait bool) (bool, error)
	Restore(wait bool) (bool, error)
	Hide(wait bool) (bool, error)
	Show(wait bool) (bool, error)
	Activate(wait bool) (bool, error)
	MoveTo(x, y int, wait bool) (bool, error)
	Move(dx, dy int, wait bool) (bool, error)
	ResizeTo(width, height int, wait bool) (bool, error)
	Resize(dw, dh int, wait bool) (bool, error)
	MoveResizeTo(x, y, width, height int) error
	Close() error
	Do(action Action, wait bool) (bool, error)
}

var _ Controller = (*Window)(nil)
