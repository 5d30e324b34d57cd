// Package commands implements the CLI commands for leadsweep.
package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "leadsweep",
	Short: "Business directory scraper for sales lead lists",
	Long: `Leadsweep collects business leads from online directories.

Point it at one or more directory URLs and it walks the result pages,
pulls out business names and contact details, deduplicates them, and
writes a call-list file ready for import.

Examples:
  # Scrape a chamber-of-commerce member directory
  leadsweep scrape -u "https://chamber.example.com/list/searchalpha/a"

  # Multiple directories into a named list
  leadsweep scrape -u "https://a.example.com/list" -u "https://b.example.com/list" \
      --list-name "Spring Push" -o spring-leads.json

  # Walk up to 10 pages with a static (no-browser) fetch
  leadsweep scrape -u "https://directory.example.com" \
      --max-pages 10 --fetch-mode static`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.leadsweep.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".leadsweep")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LEADSWEEP")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
