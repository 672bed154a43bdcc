package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "hireflow"
)

var rootCmd = &cobra.Command{
	Use:   app,
	Short: "hireflow ingests resumes, parses them in the background and scores them against jobs",
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}
