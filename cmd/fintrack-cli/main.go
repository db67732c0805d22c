package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fintrack/internal/config"
)

var version = "dev"

// app carries the configuration shared by every command.
type app struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	var cfgFile string

	root := &cobra.Command{
		Use:           "fintrack",
		Short:         "Personal finance tracker",
		Long:          `fintrack records incomes and expenses against a finance server and reports totals per category.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initConfig(cfgFile)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/fintrack/config.yaml)")
	root.PersistentFlags().String("server", "http://localhost:8000", "finance server base URL")
	root.PersistentFlags().String("session-file", "", "where the access token is kept (default: $HOME/.config/fintrack/session.json)")
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	_ = a.v.BindPFlag("server", root.PersistentFlags().Lookup("server"))
	_ = a.v.BindPFlag("session_file", root.PersistentFlags().Lookup("session-file"))
	_ = a.v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(a.loginCmd())
	root.AddCommand(a.logoutCmd())
	root.AddCommand(a.registerCmd())
	root.AddCommand(a.categoriesCmd())
	root.AddCommand(a.txCmd())
	root.AddCommand(a.statsCmd())
	root.AddCommand(a.investmentsCmd())
	root.AddCommand(versionCmd())
	return root
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) initConfig(cfgFile string) error {
	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "fintrack"))
		}
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("FINTRACK")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// no config file is fine; flags and FINTRACK_* cover everything
	}

	level, err := config.ParseLogLevel(a.v.GetString("log_level"))
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "fintrack", version)
		},
	}
}
