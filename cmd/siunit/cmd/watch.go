package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	fsw "github.com/corey/siunit/internal/adapters/fsnotify"
	"github.com/corey/siunit/internal/domain/unit"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the unit table whenever it changes",
	Long: "Watches the configured unit table (units.table_file or .siunit/units.txt) and rebuilds the registry\n" +
		"on every change or SIGHUP. A table that fails to parse is reported and the previous one stays active.\n" +
		"Runs until interrupted. Reloads are also logged to .siunit/log/watch.log.",
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	if rt.cfg.Units.TableFile == "" {
		return fmt.Errorf("no unit table to watch: set units.table_file or create %s", rt.paths.Units)
	}
	if err := rt.paths.EnsureDirs(); err != nil {
		return err
	}
	logFile, err := os.OpenFile(rt.paths.WatchLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger := rt.logger.Output(zerolog.MultiLevelWriter(cmd.ErrOrStderr(), logFile)).
		With().Str("component", "watch").Logger()

	w, err := fsw.NewWatcher(fsw.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer rt.holder.Stop()

	out := cmd.OutOrStdout()
	rt.holder.OnChange(func(prev, next *unit.Registry) {
		logger.Info().Int("units", next.Len()).
			Str("fingerprint", fmt.Sprintf("%016x", next.Fingerprint())).
			Msg("unit table reloaded")
		if prev.Fingerprint() != next.Fingerprint() {
			fmt.Fprintf(out, "%s %d units (%016x)\n", paint(out, colorBold, "reloaded"), next.Len(), next.Fingerprint())
		}
	})

	if err := rt.holder.WatchFile(ctx, w); err != nil {
		return err
	}
	rt.holder.WatchSignals(ctx)

	reg := rt.holder.Get()
	fmt.Fprintf(out, "watching %s: %d units (%016x)\n", rt.cfg.Units.TableFile, reg.Len(), reg.Fingerprint())
	<-ctx.Done()
	return nil
}
