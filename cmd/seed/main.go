package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	bulkuploadapp "github.com/storefront/backend/internal/application/bulkupload"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	warehouseapp "github.com/storefront/backend/internal/application/warehouse"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/infrastructure/config"
	fileimport "github.com/storefront/backend/internal/infrastructure/import"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// seedMaxRows bounds catalog and warehouse files
const seedMaxRows = 10000

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "seed",
		Usage: "load catalog, warehouse and price data from csv, xlsx or JSON files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "debug, info, warn or error",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "prices",
				Usage: "reconcile a warehouse price list, like an admin upload",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true},
					&cli.StringFlag{Name: "warehouse", Aliases: []string{"w"}, Required: true, Usage: "warehouse id"},
					&cli.StringFlag{Name: "locale", Usage: "locale of names in the file; the default locale when empty"},
				},
				Action: withEnv(seedPrices),
			},
			{
				Name:   "catalog",
				Usage:  "create missing categories, subcategories and brands",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true}},
				Action: withEnv(seedCatalog),
			},
			{
				Name:   "warehouses",
				Usage:  "create missing countries and warehouses",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true}},
				Action: withEnv(seedWarehouses),
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env holds the services a seed command works with
type env struct {
	cfg        *config.Config
	log        *zap.Logger
	uploads    *bulkuploadapp.Service
	categories *catalogapp.CategoryService
	brands     *catalogapp.BrandService
	warehouses *warehouseapp.WarehouseService
}

// withEnv connects to the configured database and builds the services
func withEnv(fn func(*cli.Context, *env) error) cli.ActionFunc {
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

		db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
			logger.NewGormLogger(log, logger.MapGormLogLevel("warn")))
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		if cfg.Database.Driver == "sqlite" {
			if err := db.AutoMigrate(); err != nil {
				return fmt.Errorf("failed to migrate sqlite schema: %w", err)
			}
		}

		scope := persistence.NewGormTransactionScope(db.DB)
		itemRepo := persistence.NewGormItemRepository(db.DB)
		categoryRepo := persistence.NewGormCategoryRepository(db.DB)
		subcategoryRepo := persistence.NewGormSubcategoryRepository(db.DB)
		brandRepo := persistence.NewGormBrandRepository(db.DB)
		warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
		countryRepo := persistence.NewGormCountryRepository(db.DB)
		priceRepo := persistence.NewGormItemPriceRepository(db.DB)
		uploadRepo := persistence.NewGormUploadRepository(db.DB)
		locales := catalog.NewLocaleMatcher(cfg.App.SupportedLocales)

		e := &env{
			cfg: cfg,
			log: log,
			uploads: bulkuploadapp.NewService(scope, warehouseRepo, uploadRepo, locales, nil,
				bulkuploadapp.Config{BaseCurrency: cfg.Currency.Base}, log),
			categories: catalogapp.NewCategoryService(categoryRepo, subcategoryRepo, itemRepo, locales),
			brands:     catalogapp.NewBrandService(brandRepo, itemRepo),
			warehouses: warehouseapp.NewWarehouseService(warehouseRepo, countryRepo, priceRepo),
		}
		log.Info("Running seed command", zap.String("command", c.Command.Name), zap.String("file", c.String("file")))
		return fn(c, e)
	}
}

func seedPrices(c *cli.Context, e *env) error {
	warehouseID, err := uuid.Parse(c.String("warehouse"))
	if err != nil {
		return cli.Exit("--warehouse must be a warehouse id", 2)
	}
	f, err := os.Open(c.String("file"))
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}

	resp, err := e.uploads.Upload(c.Context, bulkuploadapp.UploadRequest{
		WarehouseID: warehouseID,
		Locale:      c.String("locale"),
		FileName:    filepath.Base(f.Name()),
		Size:        info.Size(),
		Body:        f,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "upload %s: %d rows, %d created, %d updated, %d failed\n",
		resp.UploadID, resp.TotalRows, resp.CreatedRows, resp.UpdatedRows, resp.FailedRows)
	printRowErrors(c.App.Writer, resp.Errors)
	return nil
}

func seedCatalog(c *cli.Context, e *env) error {
	rows, err := readSeedFile(c.String("file"))
	if err != nil {
		return err
	}
	stats, err := newCatalogSeeder(e.categories, e.brands, e.cfg.App.DefaultLocale, e.log).Seed(c.Context, rows)
	return report(c, stats, err)
}

func seedWarehouses(c *cli.Context, e *env) error {
	rows, err := readSeedFile(c.String("file"))
	if err != nil {
		return err
	}
	stats, err := newWarehouseSeeder(e.warehouses, e.log).Seed(c.Context, rows)
	return report(c, stats, err)
}

// readSeedFile reads a csv, xlsx or JSON file by extension
func readSeedFile(path string) ([]*fileimport.Row, error) {
	format, err := fileimport.DetectFormat(path, "")
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fileimport.ReadRows(format, f, seedMaxRows)
}

func report(c *cli.Context, stats *seedStats, err error) error {
	if stats != nil {
		fmt.Fprintf(c.App.Writer, "%d created, %d skipped, %d failed\n", stats.Created, stats.Skipped, len(stats.Failed))
		printRowErrors(c.App.Writer, stats.Failed)
	}
	if err != nil {
		return err
	}
	if stats != nil && len(stats.Failed) > 0 {
		return cli.Exit("some rows failed", 1)
	}
	return nil
}

func printRowErrors(w io.Writer, errs []fileimport.RowError) {
	for _, e := range errs {
		if e.Column != "" {
			fmt.Fprintf(w, "  line %d, %s: %s\n", e.Line, e.Column, e.Message)
			continue
		}
		fmt.Fprintf(w, "  line %d: %s\n", e.Line, e.Message)
	}
}
