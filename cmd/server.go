package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var serveAddr string

var serverCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve an HTTP API for the actuators",
	Long: `Serve an HTTP API for the actuators:

  GET  /api/status
  POST /api/dc       {"speed": 0-100, "direction": "forward|reverse", "stop": bool}
  POST /api/servo    {"angle": 0-100}
  POST /api/led      {"brightness": 0-100}
  POST /api/stepper  {"steps": n} or {"degrees": d}
  POST /api/stop

Commands are executed one at a time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c, cfg := mustController(log)
		defer c.Close()
		if cfg.Server.EStopPin != "" {
			if err := c.WatchEStop(ctx, cfg.Server.EStopPin); err != nil {
				log.Warnw("emergency stop button unavailable", "error", err)
			}
		}

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		if err := c.StartServer(ctx, addr); err != nil {
			log.Errorw("server failed", "error", err)
			return err
		}
		log.Info("motorhat server finished")
		return nil
	},
}

func init() {
	serverCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, overrides server.addr")
	rootCmd.AddCommand(serverCmd)
}
