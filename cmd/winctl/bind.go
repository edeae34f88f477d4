package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/winctl/internal/hotkeys"
	"github.com/1broseidon/winctl/internal/service"
	"github.com/1broseidon/winctl/internal/window"
)

func runBind(args []string) int {
	fs, g := newFlagSet("bind", "bind",
		"Grab the key chords under `bindings` in the config and run their action\non the focused window when pressed. Runs until interrupted.")
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}

	return withApp(g, func(a *app) int {
		bindings, err := hotkeys.ParseBindings(a.cfg.Bindings)
		if err != nil {
			return exitCodeFor(err)
		}
		if len(bindings) == 0 {
			fmt.Fprintf(os.Stderr, "no bindings configured in %s\n", a.cfgPath)
			return exitError
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc := service.New(a.session, a.logger)
		h := hotkeys.NewHandler(a.conn.XUtil, func(action window.Action) error {
			res, err := svc.DoActive(action, true)
			if err != nil {
				return err
			}
			if !res.Confirmed {
				a.logger.Info("hotkey change not observed", "action", action, "window_id", res.Window.ID)
			}
			return nil
		}, a.logger)
		if err := h.Bind(bindings); err != nil {
			return exitCodeFor(err)
		}
		h.Run(ctx)
		return exitOK
	})
}
