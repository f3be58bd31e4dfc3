// cmd/seeder/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"camo-tracker/config"
	"camo-tracker/logger"
	"camo-tracker/models"
	"camo-tracker/services"
	"camo-tracker/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	seedFile    string
	seedR2Key   string
	databaseURL string
	dryRun      bool
)

var rootCmd = &cobra.Command{
	Use:   "seeder",
	Short: "Load the weapon, camo, prestige and reticle catalog",
	Long: `Reads a catalog JSON document from a local file or an R2 object and upserts it
by slug. Existing rows are updated in place; progress rows are never touched.`,
	SilenceUsage: true,
	RunE:         runSeed,
}

func init() {
	rootCmd.Flags().StringVarP(&seedFile, "file", "f", "", "path to a catalog JSON document")
	rootCmd.Flags().StringVar(&seedR2Key, "r2-key", "", "object key of a catalog document in the R2 bucket")
	rootCmd.Flags().StringVar(&databaseURL, "database-url", "", "postgres DSN (defaults to DATABASE_URL)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and validate the document without writing")
	rootCmd.MarkFlagsMutuallyExclusive("file", "r2-key")
	rootCmd.MarkFlagsOneRequired("file", "r2-key")
}

func main() {
	loadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error().Err(err).Msg("❌ Seeding failed")
		os.Exit(1)
	}
}

// loadEnv reads .env (optional) before anything consults the environment.
func loadEnv() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"))
}

func databaseDSN() string {
	if databaseURL != "" {
		return databaseURL
	}
	return os.Getenv("DATABASE_URL")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	data, err := readDocument(ctx)
	if err != nil {
		return err
	}
	doc, err := services.ParseCatalogDocument(data)
	if err != nil {
		return err
	}
	if dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "document ok: %d classes, %d weapons, %d camo templates, %d prestige templates, %d optics, %d reticle templates\n",
			len(doc.Classes), len(doc.Weapons), len(doc.CamoTemplates), len(doc.PrestigeTemplates), len(doc.Optics), len(doc.ReticleTemplates))
		return nil
	}

	dsn := databaseDSN()
	if dsn == "" {
		return errors.New("no database: pass --database-url or set DATABASE_URL")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	stats, err := services.NewCatalogSeeder(db).Seed(ctx, doc)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded: %+v\n", *stats)
	return nil
}

func readDocument(ctx context.Context) ([]byte, error) {
	if seedFile != "" {
		data, err := os.ReadFile(seedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", seedFile, err)
		}
		return data, nil
	}

	r2cfg, err := config.LoadR2()
	if err != nil {
		return nil, fmt.Errorf("failed to read R2 settings: %w", err)
	}
	client, err := utils.NewR2Client(ctx, r2cfg)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("key", seedR2Key).Str("bucket", r2cfg.Bucket).Msg("📡 Fetching catalog from R2")
	return client.GetObject(ctx, seedR2Key)
}
