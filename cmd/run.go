package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Seann-Moser/motorhat/pkg/controller"
)

var (
	demos        []string
	stepperSteps int
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run demo sequences on the attached actuators",
	Long: `Run one or more demo sequences, in order:

  led      blink the LED 20 times, then fade it up and down
  dc       ramp the DC motor forward then reverse in 10% steps
  servo    move the servo to 0, 100, then 50
  stepper  rotate the stepper --steps steps

Every actuator is stopped when the run ends or is interrupted.`,
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

		list := make([]controller.Demo, 0, len(demos))
		for _, d := range demos {
			list = append(list, controller.Demo(d))
		}
		err := c.RunDemo(ctx, list, stepperSteps)
		if err != nil && ctx.Err() == nil {
			log.Errorw("demo failed", "error", err)
			return err
		}
		log.Info("motorhat run finished")
		return nil
	},
}

func init() {
	runCmd.Flags().StringSliceVar(&demos, "demo", []string{"stepper"}, "demos to run: led, dc, servo, stepper")
	runCmd.Flags().IntVar(&stepperSteps, "steps", 600, "stepper demo step count, negative for reverse")
	rootCmd.AddCommand(runCmd)
}
