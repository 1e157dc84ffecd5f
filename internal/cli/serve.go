package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"devroster/internal/config"
	"devroster/internal/server"
	"devroster/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference developer records API",
		Long: strings.TrimSpace(`
Serves the developer records API under /api/desarrolladores/ (crear/, actualizar/:id,
listado, eliminar/:id). With --db the records live in a sqlite file; without it they are
kept in memory and lost on exit.
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var st store.Store
			if path := strings.TrimSpace(app.Config.ServerDB); path != "" {
				db, err := store.OpenSQLite(ctx, path)
				if err != nil {
					return writeErr(cmd, err)
				}
				app.log.Info().Str("path", db.Path()).Msg("using sqlite store")
				st = db
			} else {
				app.log.Warn().Msg("no --db given; records are kept in memory")
				st = store.NewMemoryStore()
			}
			defer st.Close()

			if app.Config.Level() > zerolog.DebugLevel {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := &server.Server{
				Addr:    app.Config.ServerAddr,
				Handler: server.NewRouter(server.Options{Store: st, Log: app.log}),
				Log:     app.log,
			}
			return srv.Run(ctx, func(addr string) {
				fmt.Fprintf(cmd.OutOrStdout(), "listening on http://%s%s/\n", addr, server.BasePath)
			})
		},
	}

	cmd.Flags().StringVar(&app.Config.ServerAddr, config.FlagServerAddr, app.Config.ServerAddr, "Listen address")
	cmd.Flags().StringVar(&app.Config.ServerDB, config.FlagServerDB, app.Config.ServerDB, "sqlite database path (default: in memory)")
	return cmd
}
