package commands

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/toast/internal/core/logging"
	"github.com/colonyops/toast/internal/core/toast"
	"github.com/colonyops/toast/internal/replay"
	"github.com/colonyops/toast/internal/tui"
	"github.com/colonyops/toast/pkg/iojson"
	"github.com/colonyops/toast/pkg/profiler"
)

type DemoCmd struct {
	flags *Flags
}

// NewDemoCmd creates a new demo command
func NewDemoCmd(flags *Flags) *DemoCmd {
	return &DemoCmd{flags: flags}
}

// Flags returns the demo flags for registration on the root command
func (cmd *DemoCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "serve pprof and /debug/toasts on the given localhost port (e.g., 6060)",
			Sources:     cli.EnvVars("TOAST_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	}
}

// Register adds the demo command to the application
func (cmd *DemoCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "demo",
		Usage:       "Open the interactive toast demo",
		UsageText:   "toast demo",
		Description: "Shows, replaces and dismisses toasts from the keyboard. This is also the default when no command is given.",
		Action:      cmd.run,
	})

	return app
}

// Run executes the demo. Exported for use as default command.
func (cmd *DemoCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *DemoCmd) run(ctx context.Context, _ *cli.Command) error {
	cfg, err := cmd.flags.ValidConfig()
	if err != nil {
		return err
	}

	opts := append(cfg.Toast.ManagerOptions(), toast.WithLogger(logging.Component("toast")))
	mgr := toast.NewManager(opts...)
	defer mgr.Close()

	if cmd.flags.ProfilerPort > 0 {
		profLogger := logging.Component("profiler")
		server := profiler.New(cmd.flags.ProfilerPort, profLogger)
		server.Handle("/debug/toasts", snapshotHandler(mgr, profLogger))
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", server.Addr())).
			Msg("profiler endpoint available")
	}

	mgr.Info("Welcome", "press s, e, w, i or n to show a toast")

	m := tui.New(tui.Opts{
		Manager:    mgr,
		ToastWidth: cfg.TUI.Width,
	})

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run demo: %w", err)
	}

	log.Debug().Int("active", mgr.Len()).Msg("demo exited")
	return nil
}

// toastsResponse is the body served at /debug/toasts.
type toastsResponse struct {
	Version uint64                `json:"version"`
	Anchor  toast.Anchor          `json:"anchor"`
	Active  []replay.ActiveRecord `json:"active"`
}

func snapshotHandler(mgr *toast.Manager, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		snap := mgr.Snapshot()

		var body, encErr bytes.Buffer
		err := iojson.WriteWith(&body, &encErr, toastsResponse{
			Version: snap.Version,
			Anchor:  snap.Anchor,
			Active:  replay.ActiveRecords(snap),
		})
		if err != nil || encErr.Len() > 0 {
			logger.Error().Err(err).Str("detail", encErr.String()).Msg("failed to encode toast snapshot")
			http.Error(w, "failed to encode snapshot", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if _, err := body.WriteTo(w); err != nil {
			logger.Warn().Err(err).Msg("failed to write toast snapshot")
		}
	})
}
