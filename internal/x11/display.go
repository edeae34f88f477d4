package x11

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Seams for tests.
var (
	runCommandOutputFn = runCommandOutput
	readFileFn         = os.ReadFile
	readDirFn          = os.ReadDir
	getenvFn           = os.Getenv
	userHomeDirFn      = os.UserHomeDir
)

// DisplayEnv is the pair of variables xgb needs to reach the X server.
type DisplayEnv struct {
	Display    string
	XAuthority string
}

// ResolveDisplayEnv works out DISPLAY and XAUTHORITY for processes started
// outside the graphical session, e.g. an MCP server spawned by an agent.
// The process environment wins, then configured, then the user's
// graphical login session, then the highest X socket in /tmp/.X11-unix.
func ResolveDisplayEnv(configured DisplayEnv) (DisplayEnv, error) {
	env := DisplayEnv{
		Display:    strings.TrimSpace(getenvFn("DISPLAY")),
		XAuthority: strings.TrimSpace(getenvFn("XAUTHORITY")),
	}
	if env.Display == "" {
		env.Display = strings.TrimSpace(configured.Display)
	}
	if env.XAuthority == "" {
		env.XAuthority = strings.TrimSpace(configured.XAuthority)
	}

	if env.Display == "" || env.XAuthority == "" {
		session := detectSessionDisplayEnv()
		if env.Display == "" {
			env.Display = session.Display
		}
		if env.XAuthority == "" {
			env.XAuthority = session.XAuthority
		}
	}
	if env.Display == "" {
		env.Display = detectDisplayFromSockets("/tmp/.X11-unix")
	}
	if env.Display == "" {
		return DisplayEnv{}, fmt.Errorf("no X display found; export DISPLAY or set display in the config (e.g. display: \":0\")")
	}

	if env.XAuthority == "" {
		if home, err := userHomeDirFn(); err == nil && home != "" {
			candidate := filepath.Join(home, ".Xauthority")
			if _, err := os.Stat(candidate); err == nil {
				env.XAuthority = candidate
			}
		}
	}
	return env, nil
}

// Apply exports env into the current process so NewConnection picks it up.
func (e DisplayEnv) Apply() error {
	if err := os.Setenv("DISPLAY", e.Display); err != nil {
		return err
	}
	if e.XAuthority != "" {
		return os.Setenv("XAUTHORITY", e.XAuthority)
	}
	return nil
}

func runCommandOutput(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// detectSessionDisplayEnv asks logind for the caller's graphical session
// and reads DISPLAY/XAUTHORITY from its leader process.
func detectSessionDisplayEnv() DisplayEnv {
	uid := strconv.Itoa(os.Getuid())
	out, err := runCommandOutputFn("loginctl", "list-sessions", "--no-legend")
	if err != nil {
		return DisplayEnv{}
	}
	for _, id := range parseLoginctlSessions(out, uid) {
		display := loginctlSessionProp(id, "Display")
		if display == "" || strings.EqualFold(display, "n/a") {
			continue
		}
		env := DisplayEnv{Display: display}
		leader := loginctlSessionProp(id, "Leader")
		if leader != "" && leader != "0" {
			if vars, err := readProcEnviron(leader); err == nil {
				if d := strings.TrimSpace(vars["DISPLAY"]); d != "" {
					env.Display = d
				}
				env.XAuthority = strings.TrimSpace(vars["XAUTHORITY"])
			}
		}
		return env
	}
	return DisplayEnv{}
}

func parseLoginctlSessions(output string, uid string) []string {
	var sessions []string
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == uid {
			sessions = append(sessions, fields[0])
		}
	}
	return sessions
}

func loginctlSessionProp(sessionID string, prop string) string {
	out, err := runCommandOutputFn("loginctl", "show-session", sessionID, "-p", prop, "--value")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

func readProcEnviron(pid string) (map[string]string, error) {
	data, err := readFileFn(filepath.Join("/proc", pid, "environ"))
	if err != nil {
		return nil, err
	}
	vars := make(map[string]string)
	for _, part := range strings.Split(string(data), "\x00") {
		if k, v, ok := strings.Cut(part, "="); ok {
			vars[k] = v
		}
	}
	return vars, nil
}

// detectDisplayFromSockets returns the highest-numbered display with a
// socket in dir.
func detectDisplayFromSockets(dir string) string {
	entries, err := readDirFn(dir)
	if err != nil {
		return ""
	}
	var displays []int
	for _, entry := range entries {
		name := entry.Name()
		if len(name) < 2 || name[0] != 'X' {
			continue
		}
		if n, err := strconv.Atoi(name[1:]); err == nil {
			displays = append(displays, n)
		}
	}
	if len(displays) == 0 {
		return ""
	}
	sort.Ints(displays)
	return fmt.Sprintf(":%d", displays[len(displays)-1])
}
