// Package cmd implements the edplatctl CLI commands
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/khaledhosny129/Educational-platform/internal/edplatctl/client"
	"github.com/khaledhosny129/Educational-platform/internal/edplatctl/config"
	"github.com/khaledhosny129/Educational-platform/internal/edplatctl/util"
)

var (
	cfgFile string
	cfg     *config.Config
	server  string
	token   string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "edplatctl",
	Short: "Educational platform control tool",
	Long: `edplatctl is a command line tool for the educational platform video
service. Administrators use it to manage the video catalog and issue access
codes; users can redeem codes and list their activations.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.edplatctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&server, "server", "", "API server address")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Print additional detail")

	rootCmd.AddCommand(
		newConfigCmd(),
		newCodeCmd(),
		newVideoCmd(),
		newActivationCmd(),
		newTokenCmd(),
		newVersionCmd(),
	)
}

// getClient returns an API client for the selected server and token
func getClient() (*client.Client, error) {
	return util.GetClient(cfg, server, token)
}
