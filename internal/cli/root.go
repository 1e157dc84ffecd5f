package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"devroster/internal/api"
	"devroster/internal/config"
	"devroster/internal/controller"
	"devroster/internal/format"
	"devroster/internal/logging"
	"devroster/internal/model"
	"devroster/internal/pager"
	"devroster/internal/tui"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type App struct {
	Config     config.Config
	ConfigPath string
	PrettyJSON bool
	Format     string

	// changed names the flags set on the command line.
	changed map[string]bool
	log     zerolog.Logger
}

// stdinIsTerminal decides whether missing input may be prompted for.
var stdinIsTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func NewRootCmd() *cobra.Command {
	app := &App{Config: config.Default()}

	cmd := &cobra.Command{
		Use:          "devroster",
		Short:        "Developer roster: TUI + CLI for the developer records API",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  devroster

  # Scriptable commands
  devroster list --page-size 3 --page 2
  devroster create --name Ana --age 30 --skills "Go, SQL"
  devroster delete 4 --yes

  # Direct lookup (shortcut for: devroster show <id>)
  devroster 4

  # Run the reference backend locally
  devroster serve --db ./devroster.db
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		app.changed = map[string]bool{}
		cmd.Flags().Visit(func(f *pflag.Flag) {
			app.changed[f.Name] = true
		})
		if err := config.Load(&app.Config, app.ConfigPath, app.changed); err != nil {
			return writeErr(cmd, err)
		}
		if !format.Valid(app.Format) {
			return writeErr(cmd, fmt.Errorf("unknown format: %s (want json|edn|table)", app.Format))
		}
		app.log = logging.Console(cmd.ErrOrStderr(), app.Config.Level())
		return nil
	}

	def := app.Config
	pf := cmd.PersistentFlags()
	pf.StringVar(&app.ConfigPath, "config", envOr("DEVROSTER_CONFIG", ""), "Path to config file (default: ~/.devroster/config.toml)")
	pf.StringVar(&app.Config.BaseURL, config.FlagBaseURL, def.BaseURL, "Base URL of the developer records API")
	pf.DurationVar(&app.Config.Timeout, config.FlagTimeout, def.Timeout, "HTTP request timeout (0 = none)")
	pf.DurationVar(&app.Config.BannerDelay, config.FlagBannerDelay, def.BannerDelay, "How long the success banner stays up")
	pf.Var(pageSizeValue{&app.Config.PageSize}, config.FlagPageSize, "Rows per page (3|6|12|all or any positive number)")
	pf.StringVar(&app.Config.Refetch, config.FlagRefetch, def.Refetch, "When to reload after a save (banner|immediate)")
	pf.StringVar(&app.Config.LogFile, config.FlagLogFile, def.LogFile, "TUI log file (default: ~/.devroster/devroster.log)")
	pf.StringVar(&app.Config.LogLevel, config.FlagLogLevel, def.LogLevel, "Log level (debug|info|warn|error)")
	pf.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	pf.StringVar(&app.Format, "format", envOr("DEVROSTER_FORMAT", format.JSON), "Output format (json|edn|table)")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newCreateCmd(app))
	cmd.AddCommand(newUpdateCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	path, err := app.Config.ResolvedLogFile()
	if err != nil {
		return writeErr(cmd, err)
	}
	log, closer, err := logging.File(path, app.Config.Level())
	if err != nil {
		return writeErr(cmd, err)
	}
	defer closer.Close()

	client, err := newClient(app, log)
	if err != nil {
		return writeErr(cmd, err)
	}
	stateDir, err := config.Dir()
	if err != nil {
		// Without a config dir the page size simply isn't remembered.
		stateDir = ""
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("base", client.BaseURL()).Msg("tui start")
	return tui.Run(tui.Options{
		Context:          ctx,
		Service:          client,
		Settings:         settings(app),
		PageSizeExplicit: app.changed[config.FlagPageSize],
		BannerDelay:      app.Config.BannerDelay,
		StateDir:         stateDir,
		Log:              log,
	})
}

func newClient(app *App, log zerolog.Logger) (*api.Client, error) {
	return api.New(api.Options{
		BaseURL: app.Config.BaseURL,
		Timeout: app.Config.Timeout,
		Logger:  log,
	})
}

func settings(app *App) controller.Settings {
	return controller.Settings{PageSize: app.Config.PageSize, Policy: app.Config.RefetchPolicy()}
}

func newSession(app *App) (*controller.Session, error) {
	client, err := newClient(app, app.log)
	if err != nil {
		return nil, err
	}
	return controller.NewSession(controller.Runner{
		Service:     client,
		BannerDelay: app.Config.BannerDelay,
		Log:         app.log,
	}, controller.NewState(settings(app))), nil
}

// loadSession is newSession with the record list already fetched.
func loadSession(cmd *cobra.Command, app *App) (*controller.Session, error) {
	s, err := newSession(app)
	if err != nil {
		return nil, err
	}
	st := s.Dispatch(cmd.Context(), controller.Load{})
	if st.Error.Open {
		return nil, errors.New(st.Error.Message)
	}
	return s, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	if strings.EqualFold(strings.TrimSpace(app.Format), format.Table) {
		if env, ok := v.(map[string]any); ok {
			if t, ok := env["data"].(format.Tabular); ok {
				v = t
			}
		}
	}
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(cmd.ErrOrStderr(), "validation failed:")
		for _, fe := range verr.Fields {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", fe.Field, fe.Message)
		}
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

// pageSizeValue is a pflag.Value accepting "all" as well as positive numbers.
type pageSizeValue struct{ dst *int }

func (v pageSizeValue) String() string {
	if v.dst == nil {
		return ""
	}
	return strings.ToLower(pager.SizeLabel(*v.dst))
}

func (v pageSizeValue) Set(s string) error {
	n, err := pager.ParseSize(s)
	if err != nil {
		return err
	}
	*v.dst = n
	return nil
}

func (pageSizeValue) Type() string { return "size" }
