package main

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"github.com/storefront/backend/migrations"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "migrate",
		Usage: "manage the storefront database schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: "migrations directory; the compiled-in migrations are used when empty",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "debug, info, warn or error",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "apply all pending migrations",
				Action: withMigrator(func(c *cli.Context, m *migration.Migrator) error { return m.Up() }),
			},
			{
				Name:   "down",
				Usage:  "roll back all migrations",
				Action: withMigrator(func(c *cli.Context, m *migration.Migrator) error { return m.Down() }),
			},
			{
				Name:      "step",
				Usage:     "apply n migrations; negative n rolls back",
				ArgsUsage: "<n>",
				Action: withMigrator(func(c *cli.Context, m *migration.Migrator) error {
					n, err := strconv.Atoi(c.Args().First())
					if err != nil {
						return cli.Exit("step count must be an integer", 2)
					}
					return m.Steps(n)
				}),
			},
			{
				Name:      "goto",
				Usage:     "migrate up or down to a version",
				ArgsUsage: "<version>",
				Action: withMigrator(func(c *cli.Context, m *migration.Migrator) error {
					v, err := strconv.ParseUint(c.Args().First(), 10, 32)
					if err != nil {
						return cli.Exit("version must be a positive integer", 2)
					}
					return m.GoTo(uint(v))
				}),
			},
			{
				Name:  "version",
				Usage: "print the applied version",
				Action: withMigrator(func(c *cli.Context, m *migration.Migrator) error {
					v, dirty, err := m.Version()
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "version %d (dirty: %t)\n", v, dirty)
					return nil
				}),
			},
			{
				Name:      "force",
				Usage:     "mark a version as applied to recover from a dirty state",
				ArgsUsage: "<version>",
				Action: withMigrator(func(c *cli.Context, m *migration.Migrator) error {
					v, err := strconv.Atoi(c.Args().First())
					if err != nil {
						return cli.Exit("version must be an integer", 2)
					}
					return m.Force(v)
				}),
			},
			{
				Name:      "create",
				Usage:     "write the next numbered up/down pair",
				ArgsUsage: "<name> [description]",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return cli.Exit("migration name is required", 2)
					}
					dir := c.String("path")
					if dir == "" {
						dir = "migrations"
					}
					mf, err := migration.CreateMigration(dir, c.Args().Get(0), c.Args().Get(1))
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "created %s\n        %s\n", mf.UpPath, mf.DownPath)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "list available migrations",
				Action: func(c *cli.Context) error {
					var fsys fs.FS = migrations.FS
					if dir := c.String("path"); dir != "" {
						fsys = os.DirFS(dir)
					}
					names, err := migration.ListMigrations(fsys)
					if err != nil {
						return err
					}
					return printNames(c, names)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printNames(c *cli.Context, names []string) error {
	if len(names) == 0 {
		fmt.Fprintln(c.App.Writer, "no migrations found")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(c.App.Writer, "  -", name)
	}
	return nil
}

// withMigrator opens the configured postgres database and hands a Migrator to fn
func withMigrator(fn func(*cli.Context, *migration.Migrator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		log, err := logger.New(&logger.Config{
			Level:      c.String("log-level"),
			Format:     "console",
			Output:     "stdout",
			TimeFormat: "2006-01-02 15:04:05",
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer func() {
			_ = log.Sync()
		}()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cfg.Database.Driver != "postgres" {
			return cli.Exit("migrations target postgres; sqlite databases are created by the server", 2)
		}

		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}

		m, err := migration.New(db, migration.Source{Dir: c.String("path")}, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := m.Close(); err != nil {
				log.Warn("Error closing migrator", zap.Error(err))
			}
		}()

		log.Info("Running migration command", zap.String("command", c.Command.Name))
		return fn(c, m)
	}
}
