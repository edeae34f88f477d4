package window

import "strings"

// State is a _NET_WM_STATE atom name.
type State string

// StateNone fills the unused second slot of a _NET_WM_STATE request.
const StateNone State = ""

const (
	StateModal            State = "_NET_WM_STATE_MODAL"
	StateSticky           State = "_NET_WM_STATE_STICKY"
	StateMaximizedVert    State = "_NET_WM_STATE_MAXIMIZED_VERT"
	StateMaximizedHorz    State = "_NET_WM_STATE_MAXIMIZED_HORZ"
	StateShaded           State = "_NET_WM_STATE_SHADED"
	StateSkipTaskbar      State = "_NET_WM_STATE_SKIP_TASKBAR"
	StateSkipPager        State = "_NET_WM_STATE_SKIP_PAGER"
	StateHidden           State = "_NET_WM_STATE_HIDDEN"
	StateFullscreen       State = "_NET_WM_STATE_FULLSCREEN"
	StateAbove            State = "_NET_WM_STATE_ABOVE"
	StateBelow            State = "_NET_WM_STATE_BELOW"
	StateDemandsAttention State = "_NET_WM_STATE_DEMANDS_ATTENTION"
	StateFocused          State = "_NET_WM_STATE_FOCUSED"
)

// StateFlags is a decoded _NET_WM_STATE property.
type StateFlags struct {
	Modal            bool `json:"modal"`
	Sticky           bool `json:"sticky"`
	MaximizedVert    bool `json:"maximized_vert"`
	MaximizedHorz    bool `json:"maximized_horz"`
	Shaded           bool `json:"shaded"`
	SkipTaskbar      bool `json:"skip_taskbar"`
	SkipPager        bool `json:"skip_pager"`
	Hidden           bool `json:"hidden"`
	Fullscreen       bool `json:"fullscreen"`
	Above            bool `json:"above"`
	Below            bool `json:"below"`
	DemandsAttention bool `json:"demands_attention"`
	Focused          bool `json:"focused"`

	// Unknown holds atoms not listed above, without the _NET_WM_STATE_ prefix.
	Unknown []string `json:"unknown,omitempty"`
}

// ParseStates decodes a list of state atoms. Unknown atoms are kept.
func ParseStates(states []State) StateFlags {
	var f StateFlags
	for _, s := range states {
		switch s {
		case StateModal:
			f.Modal = true
		case StateSticky:
			f.Sticky = true
		case StateMaximizedVert:
			f.MaximizedVert = true
		case StateMaximizedHorz:
			f.MaximizedHorz = true
		case StateShaded:
			f.Shaded = true
		case StateSkipTaskbar:
			f.SkipTaskbar = true
		case StateSkipPager:
			f.SkipPager = true
		case StateHidden:
			f.Hidden = true
		case StateFullscreen:
			f.Fullscreen = true
		case StateAbove:
			f.Above = true
		case StateBelow:
			f.Below = true
		case StateDemandsAttention:
			f.DemandsAttention = true
		case StateFocused:
			f.Focused = true
		default:
			f.Unknown = append(f.Unknown, strings.TrimPrefix(string(s), "_NET_WM_STATE_"))
		}
	}
	return f
}

// Maximized reports whether both maximized bits are set.
func (f StateFlags) Maximized() bool {
	return f.MaximizedVert && f.MaximizedHorz
}

func hasState(states []State, want State) bool {
	for _, s := range states {
		if s == want {
			return true
		}
	}
	return false
}
