package x11

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

type displayStubs struct {
	env      map[string]string
	home     string
	loginctl map[string]string // joined args -> output
	environ  map[string]string // path -> contents
	sockets  []string
}

func (s displayStubs) install(t *testing.T) {
	t.Helper()
	origRun, origRead, origReadDir, origGetenv, origHome := runCommandOutputFn, readFileFn, readDirFn, getenvFn, userHomeDirFn
	t.Cleanup(func() {
		runCommandOutputFn, readFileFn, readDirFn, getenvFn, userHomeDirFn = origRun, origRead, origReadDir, origGetenv, origHome
	})

	getenvFn = func(key string) string { return s.env[key] }
	userHomeDirFn = func() (string, error) { return s.home, nil }
	runCommandOutputFn = func(name string, args ...string) (string, error) {
		if out, ok := s.loginctl[strings.Join(args, " ")]; ok {
			return out, nil
		}
		return "", errors.New("no such session")
	}
	readFileFn = func(path string) ([]byte, error) {
		if data, ok := s.environ[path]; ok {
			return []byte(data), nil
		}
		return nil, os.ErrNotExist
	}

	dir := t.TempDir()
	for _, name := range s.sockets {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0600); err != nil {
			t.Fatalf("write socket %s: %v", name, err)
		}
	}
	readDirFn = func(string) ([]os.DirEntry, error) { return os.ReadDir(dir) }
}

func TestResolveDisplayEnv_ProcessEnvWins(t *testing.T) {
	displayStubs{
		env:     map[string]string{"DISPLAY": ":7", "XAUTHORITY": "/tmp/xauth-existing"},
		sockets: []string{"X9"},
	}.install(t)

	got, err := ResolveDisplayEnv(DisplayEnv{Display: ":1", XAuthority: "/tmp/cfg"})
	if err != nil {
		t.Fatalf("ResolveDisplayEnv: %v", err)
	}
	if got != (DisplayEnv{Display: ":7", XAuthority: "/tmp/xauth-existing"}) {
		t.Fatalf("got %+v", got)
	}
}

func TestResolveDisplayEnv_ConfigThenHomeXAuthority(t *testing.T) {
	home := t.TempDir()
	xauth := filepath.Join(home, ".Xauthority")
	if err := os.WriteFile(xauth, []byte("cookie"), 0600); err != nil {
		t.Fatalf("write xauthority: %v", err)
	}
	displayStubs{home: home}.install(t)

	got, err := ResolveDisplayEnv(DisplayEnv{Display: ":1"})
	if err != nil {
		t.Fatalf("ResolveDisplayEnv: %v", err)
	}
	if got.Display != ":1" || got.XAuthority != xauth {
		t.Fatalf("got %+v, want :1 with %s", got, xauth)
	}
}

func TestResolveDisplayEnv_LoginSession(t *testing.T) {
	uid := strconv.Itoa(os.Getuid())
	displayStubs{
		home:     t.TempDir(),
		loginctl: map[string]string{
			"list-sessions --no-legend":         "4 " + uid + " me seat0\n",
			"show-session 4 -p Display --value": ":0\n",
			"show-session 4 -p Leader --value":  "1234\n",
		},
		environ: map[string]string{
			"/proc/1234/environ": "HOME=/home/me\x00DISPLAY=:0\x00XAUTHORITY=/run/user/1000/gdm/Xauthority\x00",
		},
	}.install(t)

	got, err := ResolveDisplayEnv(DisplayEnv{})
	if err != nil {
		t.Fatalf("ResolveDisplayEnv: %v", err)
	}
	if got != (DisplayEnv{Display: ":0", XAuthority: "/run/user/1000/gdm/Xauthority"}) {
		t.Fatalf("got %+v", got)
	}
}

func TestResolveDisplayEnv_SocketFallbackAndError(t *testing.T) {
	displayStubs{home: t.TempDir(), sockets: []string{"X0", "X2", "not-a-display"}}.install(t)
	got, err := ResolveDisplayEnv(DisplayEnv{})
	if err != nil {
		t.Fatalf("ResolveDisplayEnv: %v", err)
	}
	if got.Display != ":2" {
		t.Fatalf("Display = %q, want :2", got.Display)
	}

	displayStubs{home: t.TempDir()}.install(t)
	if _, err := ResolveDisplayEnv(DisplayEnv{}); err == nil || !strings.Contains(err.Error(), "no X display found") {
		t.Fatalf("expected missing display error, got %v", err)
	}
}

func TestParseLoginctlSessions(t *testing.T) {
	out := strings.Join([]string{
		"1 1000 george seat0",
		"2 1001 alice seat0",
		"3 1000 george seat1",
		"",
	}, "\n")
	got := parseLoginctlSessions(out, "1000")
	if len(got) != 2 || got[0] != "1" || got[1] != "3" {
		t.Fatalf("parseLoginctlSessions = %v, want [1 3]", got)
	}
}
