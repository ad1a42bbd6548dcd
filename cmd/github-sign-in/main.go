package main

import (
	"context"
	"fmt"
	"os"

	"github.com/brizzai/github-sign-in/internal/auth"
	"github.com/brizzai/github-sign-in/internal/config"
	"github.com/brizzai/github-sign-in/internal/logger"
	"github.com/brizzai/github-sign-in/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	Execute()
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "github-sign-in",
	Short: "An embeddable GitHub OAuth sign-in service",
	Long: `github-sign-in runs the server-side half of a GitHub OAuth
Authorization Code flow: it issues authorization redirects, guards the
post-login destination against open redirects, validates the CSRF state on
the way back, and hands the normalized identity to the host application.`,
	RunE: run,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			fmt.Println(config.GetVersionInfo())
			os.Exit(0)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("server.host", "", "Host to listen on")
	rootCmd.PersistentFlags().Int("server.port", 0, "Port to listen on")
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")
}

func run(cmd *cobra.Command, args []string) error {
	app := fx.New(
		fx.Provide(func() (*config.Config, error) {
			return config.Load(flagsFor(cmd))
		}),
		fx.Invoke(func(cfg *config.Config) error {
			return logger.InitLogger(&cfg.Logging)
		}),
		auth.Module,
		server.Module,
		fx.Invoke(registerServer),
	)

	app.Run()
	return nil
}

// flagsFor returns only the flags config.Load should see; cobra's own
// bookkeeping flags stay out of viper.
func flagsFor(cmd *cobra.Command) *pflag.FlagSet {
	flags := pflag.NewFlagSet("config", pflag.ContinueOnError)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if f.Name != "version" {
			flags.AddFlag(f)
		}
	})
	return flags
}

func registerServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, srv *server.Server) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if err := srv.Start(ctx); err != nil {
					logger.Error("Server exited with error", zap.Error(err))
				}
				if err := shutdowner.Shutdown(); err != nil {
					logger.Error("Failed to shut down application", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
