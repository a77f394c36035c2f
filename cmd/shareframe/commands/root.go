package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "shareframe",
		Short: "ShareFrame - Frame a screen region for capture-safe sharing",
		Long: `ShareFrame frames a rectangular screen region with a movable,
resizable window and toggles it between two states with a global hotkey:

  • Alignment: the frame is visible and repositionable, but excluded
    from screen-capture output, so viewers never see it.
  • Sharing: the frame becomes invisible and click-through, so
    third-party screen-share tools pick up exactly the framed content.

The default hotkey is Ctrl+Shift+[.`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/shareframe/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int("api-port", 0, "enable the local control API on this port")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("api_port", rootCmd.PersistentFlags().Lookup("api-port"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// GetConfigFile returns the config file path from the --config flag.
func GetConfigFile() string {
	return cfgFile
}
