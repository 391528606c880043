package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Seann-Moser/motorhat/pkg/config"
	"github.com/Seann-Moser/motorhat/pkg/controller"
)

var (
	configPath string
	forceStub  bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "motorhat",
	Short: "Drive DC motors, steppers, servos and LEDs on a PCA9685 motor hat",
	Long: `motorhat drives the 16 PWM channels of a PCA9685 expander as DC motors,
a stepper, a servo and an LED. Off a Raspberry Pi, or with --stub, every
command runs against a stub device that only logs.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&forceStub, "stub", false, "use the stub device even on supported hardware")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "development logging at debug level")
}

func newLogger() *zap.SugaredLogger {
	var (
		l   *zap.Logger
		err error
	)
	if verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// mustController builds the controller or terminates: running with a
// partially configured device is never an option.
func mustController(log *zap.SugaredLogger) (*controller.Controller, config.Config) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			log.Fatalw("failed to load config", "path", configPath, "error", err)
		}
	}
	c, err := controller.New(cfg, log, controller.Options{ForceStub: forceStub})
	if err != nil {
		log.Fatalw("failed to set up motor controller", "error", err)
	}
	return c, cfg
}
