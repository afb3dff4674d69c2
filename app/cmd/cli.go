package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/bbmart/marketplace/app/configs"
	"github.com/bbmart/marketplace/app/db/seeders"
	"github.com/bbmart/marketplace/app/models"
	"github.com/bbmart/marketplace/app/models/migrations"
	"github.com/bbmart/marketplace/app/utils/sessions"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func withDatabase(fn func(env configs.ENV, db *gorm.DB, logger *zap.Logger) error) error {
	env := configs.LoadEnv()
	logger, err := configs.NewLogger(env)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := configs.OpenConnection(env, logger)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()
	return fn(env, db, logger)
}

func RunCli() {
	cmd := &cli.Command{
		Name:  "marketplace",
		Usage: "Multi-vendor marketplace API",
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the HTTP API",
				Action: func(ctx context.Context, c *cli.Command) error {
					return serve(ctx)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withDatabase(func(_ configs.ENV, db *gorm.DB, logger *zap.Logger) error {
						if err := migrations.AutoMigrate(db); err != nil {
							return err
						}
						logger.Info("migration complete")
						return nil
					})
				},
			},
			{
				Name:  "seed",
				Usage: "Fill a development database with approved vendors and published products",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "vendors", Value: 3, Usage: "number of vendors to create"},
					&cli.IntFlag{Name: "products", Value: 10, Usage: "products per vendor"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withDatabase(func(env configs.ENV, db *gorm.DB, logger *zap.Logger) error {
						if env.IsProduction() {
							return fmt.Errorf("refusing to seed a production database")
						}
						return seeders.DBSeed(db, int(c.Int("vendors")), int(c.Int("products")), logger)
					})
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate new session authentication and encryption keys for .env",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Value: ".env.keys", Usage: "file the keys are written to"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := configs.GenerateAndPrintSessionKeys(c.String("out")); err != nil {
						return err
					}
					log.Println("Key generation complete. Copy the keys to your .env file.")
					return nil
				},
			},
			{
				Name:  "issue-token",
				Usage: "Issue a bearer token for a user, for local testing",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Required: true, Usage: "user id"},
					&cli.StringFlag{Name: "role", Value: string(models.RoleCustomer), Usage: "customer, vendor or admin"},
					&cli.StringFlag{Name: "vendor", Usage: "vendor id, required for the vendor role"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					env := configs.LoadEnv()
					keys, err := configs.LoadSessionKeys(env)
					if err != nil {
						return err
					}
					codec := sessions.NewTokenCodec(keys.AuthKey, keys.EncKey, env.TokenTTL)
					token, err := codec.Issue(models.Identity{
						UserID:   c.String("user"),
						Role:     models.Role(c.String("role")),
						VendorID: c.String("vendor"),
					})
					if err != nil {
						return err
					}
					fmt.Println(token)
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
