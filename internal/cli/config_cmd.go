package cli

import (
	"devroster/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	var asTOML bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Long:  "Prints the configuration after applying defaults, the config file, DEVROSTER_* environment variables and flags.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asTOML {
				b, err := config.Encode(app.Config)
				if err != nil {
					return writeErr(cmd, err)
				}
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			path := app.ConfigPath
			if path == "" {
				path = config.DefaultPath()
			}
			return writeOut(cmd, app, map[string]any{
				"data": app.Config,
				"meta": map[string]any{"path": path},
			})
		},
	}

	cmd.Flags().BoolVar(&asTOML, "toml", false, "Print as a config.toml file")
	return cmd
}
