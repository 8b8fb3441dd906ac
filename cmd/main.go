package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"catalogsync/config"
	"catalogsync/database"
	"catalogsync/logging"
	"catalogsync/syncer"
	"catalogsync/xmlparser"
)

// allTables значение --update без имени таблицы
const allTables = "*"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "catalogsync",
		Short: "Sync a YML catalog feed into PostgreSQL",
		Long: `catalogsync reads a catalog feed (currencies, categories, offers) and keeps
PostgreSQL tables in sync with it. Tables are created from the feed structure;
an existing table whose columns differ from the feed is reported, never altered.

Without flags an interactive menu is started.`,
		Example: `  catalogsync --tables
  catalogsync --ddl offers
  catalogsync --update
  catalogsync --update offers`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			logger := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)

			dsn, err := cfg.Database.GetConnectionString()
			if err != nil {
				return err
			}
			db, err := database.Open(ctx, dsn)
			if err != nil {
				return &syncer.Error{Kind: syncer.KindStore, Err: err}
			}
			defer db.Close()

			a := &app{
				svc: syncer.New(
					xmlparser.NewSource(cfg.Feed.URI, cfg.Feed.Timeout),
					database.NewPostgres(db, cfg.Sync.BatchSize, logger),
					logger,
				),
				out:  cmd.OutOrStdout(),
				errw: cmd.ErrOrStderr(),
			}
			return a.run(ctx, cmd, args)
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", config.GetDefaultConfigPath(), "config file")
	cmd.Flags().BoolP("tables", "t", false, "list tables present in the feed")
	cmd.Flags().StringP("ddl", "d", "", "print CREATE TABLE for a table")
	cmd.Flags().StringP("update", "u", "", "update one table, or all tables when no name is given")
	cmd.Flags().Lookup("update").NoOptDefVal = allTables
	cmd.MarkFlagsMutuallyExclusive("tables", "ddl", "update")

	return cmd
}

// run выбирает действие по флагам; без флагов запускается меню
func (a *app) run(ctx context.Context, cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	wantTables, _ := flags.GetBool("tables")
	switch {
	case wantTables:
		return a.listTables(ctx)
	case flags.Changed("ddl"):
		ddl, _ := flags.GetString("ddl")
		return a.printDDL(ctx, ddl)
	case flags.Changed("update"):
		table, _ := flags.GetString("update")
		if table == allTables {
			table = ""
			if len(args) > 0 {
				table = args[0]
			}
		}
		return a.update(ctx, table)
	default:
		return a.menu(ctx, cmd.InOrStdin())
	}
}
