package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cgt-buildtools/internal/app"
	"cgt-buildtools/internal/core"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "CGT_BUILDTOOLS"

type RootConfig struct {
	ConfigFile string
	LogLevel   string
	Root       string
	BuildDir   string
	Jobs       int
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	root := newRootCommand()
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:          "cgt-buildtools",
		Short:        "Build helper for the TI ARM code generation tools",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			cmd.SetContext(log.Logger.WithContext(cmd.Context()))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	cmd.PersistentFlags().StringVar(&cfg.Root, "root", ".", "Project root directory")
	cmd.PersistentFlags().StringVar(&cfg.BuildDir, "out", app.DefaultBuildDir, "Build directory")
	cmd.PersistentFlags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "Parallel tasks (default: number of CPUs)")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("root", cmd.PersistentFlags().Lookup("root"))
	_ = viper.BindPFlag("out", cmd.PersistentFlags().Lookup("out"))
	_ = viper.BindPFlag("jobs", cmd.PersistentFlags().Lookup("jobs"))

	cmd.AddCommand(newConfigureCommand())
	cmd.AddCommand(newBuildCommand())
	cmd.AddCommand(newFormatCommand())
	cmd.AddCommand(newCheckEnvCommand())
	cmd.AddCommand(newVersionInfoCommand())
	cmd.AddCommand(newVerifyPullsCommand())
	cmd.AddCommand(newSWICommand())
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("cgt-buildtools")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/cgt-buildtools")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func newAppService() app.Service {
	service := app.NewService()
	if jobs := viper.GetInt("jobs"); jobs > 0 {
		service.Workers = jobs
	}
	return service
}

func projectRoot() string {
	return viper.GetString("root")
}

func buildDir() string {
	return viper.GetString("out")
}

func exitCodeForError(err error) int {
	code := errbuilder.CodeOf(err)
	message := errorMessage(err)
	switch code {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 2
	case errbuilder.CodeFailedPrecondition:
		if strings.HasPrefix(message, core.LinkVerificationPrefix) {
			return 3
		}
		return 4
	case errbuilder.CodeNotFound, errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
