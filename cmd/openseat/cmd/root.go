// Package cmd implements the openseat CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "openseat",
	Short: "Check a university course for open seats",
	Long: "openseat queries the Banner registration system for seat availability\n" +
		"in a watched course, filters out unwanted sections, and sends a Pushover\n" +
		"notification when qualifying open seats appear. Each invocation performs\n" +
		"one check and exits; run it from cron or a CI schedule.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file path (optional; env/defaults used when omitted)")
	rootCmd.PersistentFlags().
		String("term", "", "Banner term code override, e.g. 202610")
	rootCmd.PersistentFlags().
		String("course", "", "subject+course combo override, e.g. BUS106")

	cobra.CheckErr(viper.BindPFlag("term", rootCmd.PersistentFlags().Lookup("term")))
	cobra.CheckErr(viper.BindPFlag("course", rootCmd.PersistentFlags().Lookup("course")))

	viper.SetEnvPrefix("OPENSEAT")
	viper.AutomaticEnv()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
