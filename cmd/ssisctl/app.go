package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	appMigrations "github.com/yigit/ssis/internal/app/migrations"
	"github.com/yigit/ssis/internal/app/models/dto"
	appRepos "github.com/yigit/ssis/internal/app/repositories"
	appServices "github.com/yigit/ssis/internal/app/services"
	"github.com/yigit/ssis/internal/config"
	"github.com/yigit/ssis/internal/db"
	"github.com/yigit/ssis/internal/pkg/auth"
	"github.com/yigit/ssis/internal/pkg/logger"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "ssisctl",
		Usage: "administrative tasks for the student information system",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "configs/config.yaml",
				EnvVars: []string{"CONFIG_PATH"},
				Usage:   "path to the YAML configuration file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "apply pending schema migrations",
				Action: runMigrate,
			},
			{
				Name:   "hash-passwords",
				Usage:  "replace every plaintext password with a bcrypt hash",
				Action: runHashPasswords,
			},
			{
				Name:  "create-user",
				Usage: "create a user account with a hashed password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true, EnvVars: []string{"SSIS_NEW_USER_PASSWORD"}},
					&cli.StringFlag{Name: "role", Aliases: []string{"r"}, Value: "staff"},
				},
				Action: runCreateUser,
			},
		},
	}
}

// connect loads the configuration and opens the database pool
func connect(c *cli.Context) (*config.Config, *db.PostgresDB, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	logger.Configure(logger.Config{Level: logger.LogLevel(cfg.Logging.Level), Pretty: true})
	auth.BcryptCost = cfg.Auth.BcryptCost

	database, err := db.NewPostgresDB(c.Context, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, database, nil
}

func runMigrate(c *cli.Context) error {
	cfg, database, err := connect(c)
	if err != nil {
		return err
	}
	defer database.Close()

	applied, err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(c.Context, cfg.Database.MigrationsDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Applied %d migrations.\n", applied)
	return nil
}

func runHashPasswords(c *cli.Context) error {
	_, database, err := connect(c)
	if err != nil {
		return err
	}
	defer database.Close()

	users := appRepos.NewUserRepository(database.Pool)
	migrator := appServices.NewPasswordMigrator(appServices.NewPasswordTransactor(users), logger.Component("password-migration"))

	updated, err := migrator.Run(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Updated %d users.\n", updated)
	return nil
}

func runCreateUser(c *cli.Context) error {
	_, database, err := connect(c)
	if err != nil {
		return err
	}
	defer database.Close()

	users := appServices.NewUserService(appRepos.NewUserRepository(database.Pool), logger.Component("users"))
	id, err := users.CreateUser(c.Context, dto.CreateUserRequest{
		Username: c.String("username"),
		Password: c.String("password"),
		Role:     c.String("role"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Created user %s (id %d).\n", c.String("username"), id)
	return nil
}
