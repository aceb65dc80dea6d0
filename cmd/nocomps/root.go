package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/varoOP/nocomps/internal/app"
	"github.com/varoOP/nocomps/internal/config"
	"github.com/varoOP/nocomps/internal/logger"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
	cfgFile string
)

// rootCmd generates the report when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nocomps",
	Short: "Dump SeaDex entries with missing comparisons",
	Long: `nocomps lists SeaDex entries that have no slow.pics comparison.

The entries are enriched with AniList metadata, sorted by popularity
and written to a markdown table (default: nocomps.md).`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		log, err := logger.NewLoggerWithLevel(cfg.LogLevel)
		if err != nil {
			return err
		}

		application := app.NewApp(cfg, log)
		defer func() {
			if err := application.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close clients")
			}
		}()

		if err := application.Run(cmd.Context()); err != nil {
			return fmt.Errorf("run failed: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	config.SetDefaults(viper.GetViper())

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yaml or .nocomps.yaml in $HOME or the current directory)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.Flags().StringP("output", "o", "nocomps.md", "Output file name")

	// Bind flags to viper
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Environment variables
	viper.SetEnvPrefix("NOCOMPS")
	viper.AutomaticEnv()

	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}
	dirs = append(dirs, ".")

	// If a config file is found, read it in.
	if err := readConfig(viper.GetViper(), cfgFile, dirs...); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// readConfig loads cfgFile when set, otherwise the first of config.yaml or
// .nocomps.yaml found in dirs.
func readConfig(v *viper.Viper, cfgFile string, dirs ...string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		return v.ReadInConfig()
	}

	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	v.SetConfigType("yaml")

	var err error
	for _, name := range []string{"config", ".nocomps"} {
		v.SetConfigName(name)
		if err = v.ReadInConfig(); err == nil {
			return nil
		}
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return err
}
