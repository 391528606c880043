package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Seann-Moser/motorhat/pkg/config"
	"github.com/Seann-Moser/motorhat/pkg/controller"
	"github.com/Seann-Moser/motorhat/pkg/io"
	"github.com/Seann-Moser/motorhat/pkg/platform"
	"github.com/Seann-Moser/motorhat/pkg/pwm"
)

var (
	channelID int
	pwmOn     int
	pwmOff    int
	interval  time.Duration
)

// channelCmd toggles one raw channel, bypassing actuator bindings.
var channelCmd = &cobra.Command{
	Use:   "channel",
	Short: "Alternate one channel between two off-tick values",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ch, err := pwm.NewChannel(channelID)
		if err != nil {
			return err
		}
		cfg := config.Default()
		if configPath != "" {
			if cfg, err = config.Load(configPath); err != nil {
				log.Fatalw("failed to load config", "path", configPath, "error", err)
			}
		}
		factory, err := pwm.NewFactory(cfg.Factory(), controller.TransportFor(cfg.Device.Driver),
			pwm.WithPlatform(platform.Detect().Supported),
			pwm.WithPinMap(io.Pin),
			pwm.WithLogger(log.Named("factory")),
		)
		if err != nil {
			log.Fatalw("failed to create device factory", "error", err)
		}

		return pwm.Use(factory, forceStub || cfg.Device.ForceStub, func(dev pwm.Device) error {
			defer func() { _ = dev.SetPwm(ch, 0, 0) }()
			values := [2]int{pwmOn, pwmOff}
			for i := 0; ; i++ {
				v := values[i%2]
				log.Infow("set channel", "channel", channelID, "off", v)
				if err := dev.SetPwm(ch, 0, v); err != nil {
					return err
				}
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(interval):
				}
			}
		})
	},
}

func init() {
	channelCmd.Flags().IntVar(&channelID, "channel", 0, "channel 0-15")
	channelCmd.Flags().IntVar(&pwmOn, "on", 600, "first off-tick value")
	channelCmd.Flags().IntVar(&pwmOff, "off", 150, "second off-tick value")
	channelCmd.Flags().DurationVar(&interval, "interval", time.Second, "time between changes")
	rootCmd.AddCommand(channelCmd)
}
