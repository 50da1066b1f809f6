package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/toast/internal/core/logging"
	"github.com/colonyops/toast/internal/core/toast"
	"github.com/colonyops/toast/internal/replay"
	"github.com/colonyops/toast/pkg/iojson"
)

type ReplayCmd struct {
	flags    *Flags
	input    iojson.FileReader[replay.Script]
	timeline bool

	// sleep paces the script; tests replace it with replay.NoSleep.
	sleep replay.SleepFunc
}

// NewReplayCmd creates a new replay command
func NewReplayCmd(flags *Flags) *ReplayCmd {
	return &ReplayCmd{
		flags: flags,
		sleep: replay.Sleep,
	}
}

// Register adds the replay command to the application
func (cmd *ReplayCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "replay",
		Usage:     "Run a timed toast script without a terminal UI",
		UsageText: "toast replay [-f script.json] [--timeline]",
		Description: `Reads a JSON script of show, dismiss, dismiss_all and anchor steps,
applies each step at its offset and prints the manager state after every
step and every timer expiry as one JSON object per line. Steps and toast
timers share one clock, so a toast due at a step's offset has already
expired when that step runs.

Example:
  echo '{"steps":[{"at":"0s","op":"show","id":"a","title":"hi","duration":"1s"}],"until":"2s"}' | toast replay`,
		Flags: []cli.Flag{
			cmd.input.Flag(),
			&cli.BoolFlag{
				Name:        "timeline",
				Usage:       "print one line of active ids per step instead of JSON",
				Destination: &cmd.timeline,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReplayCmd) run(ctx context.Context, c *cli.Command) error {
	cfg, err := cmd.flags.ValidConfig()
	if err != nil {
		return err
	}

	script, err := cmd.input.Read()
	if err != nil {
		return fmt.Errorf("read script from %s: %w", cmd.input.Source(), err)
	}

	clock := toast.NewVirtualScheduler()

	opts := append(cfg.Toast.ManagerOptions(),
		toast.WithLogger(logging.Component("toast")),
		toast.WithScheduler(clock),
	)
	mgr := toast.NewManager(opts...)
	defer mgr.Close()

	waiter := replay.NewPacedWaiter(clock, cmd.sleep)
	runner := replay.NewRunner(mgr, waiter, log.Logger, cfg.Toast.DefaultDuration)

	w := c.Root().Writer
	emit := func(f replay.Frame) error { return iojson.WriteLine(w, f) }
	if cmd.timeline {
		emit = func(f replay.Frame) error { return writeTimeline(w, f) }
	}

	return runner.Run(ctx, script, emit)
}

func writeTimeline(w io.Writer, f replay.Frame) error {
	op := string(f.Op)
	if op == "" {
		op = "-"
	}
	step := "-"
	if f.Step >= 0 {
		step = strconv.Itoa(f.Step)
	}
	_, err := fmt.Fprintf(w, "%-8s %3s  %-12s [%s]\n", f.At, step, op, strings.Join(f.IDs(), " "))
	return err
}
