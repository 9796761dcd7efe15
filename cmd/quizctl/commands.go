package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"learnex_quiz/internal/app/service"
	"learnex_quiz/internal/common"
	"learnex_quiz/internal/common/security"
	"learnex_quiz/internal/domain/model"
	"learnex_quiz/internal/domain/repository"
	"learnex_quiz/internal/platform/blob"
	"learnex_quiz/internal/platform/config"
	"learnex_quiz/internal/platform/database"
)

func openDB(ctx context.Context) (*config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return cfg, db, nil
}

func openStore(ctx context.Context) (blob.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return blob.NewStore(ctx, cfg.AzureConnectionString, cfg.AzureContainerName)
}

func createUserCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-user",
		Usage: "create a user account unless the email is already registered",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
		},
		Action: func(c *cli.Context) error {
			cfg, db, err := openDB(c.Context)
			if err != nil {
				return err
			}
			defer db.Close()

			users := repository.NewPgUserRepository(db)
			auth := service.NewAuthService(users, security.NewTokenIssuer(cfg.JWTKey, cfg.JWTExp))
			return createUser(c.Context, c.App.Writer, users, auth, service.RegisterRequest{
				Username: c.String("username"),
				Email:    c.String("email"),
				Password: c.String("password"),
			})
		},
	}
}

func createUser(ctx context.Context, w io.Writer, users repository.UserRepository, auth *service.AuthService, req service.RegisterRequest) error {
	existing, err := users.FindByEmail(ctx, req.Email)
	if err == nil {
		fmt.Fprintf(w, "User with email %s already exists (id %d)\n", existing.Email, existing.ID)
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	user, err := auth.Register(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "User %s created with id %d\n", user.Username, user.ID)
	return nil
}

func listUsersCommand() *cli.Command {
	return &cli.Command{
		Name:  "list-users",
		Usage: "print every registered user",
		Action: func(c *cli.Context) error {
			_, db, err := openDB(c.Context)
			if err != nil {
				return err
			}
			defer db.Close()

			users, err := service.NewUserService(repository.NewPgUserRepository(db)).ListUsers(c.Context)
			if err != nil {
				return err
			}
			printUsers(c.App.Writer, users)
			return nil
		},
	}
}

func printUsers(w io.Writer, users []model.User) {
	fmt.Fprintf(w, "Total users: %d\n", len(users))
	for _, u := range users {
		fmt.Fprintf(w, "User: %s, Email: %s\n", u.Username, u.Email)
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "replace the question set with the contents of a JSON file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true},
		},
		Action: func(c *cli.Context) error {
			questions, err := readQuestions(c.String("file"))
			if err != nil {
				return err
			}

			_, db, err := openDB(c.Context)
			if err != nil {
				return err
			}
			defer db.Close()

			qs := service.NewQuestionService(repository.NewPgQuestionRepository(db), repository.NewTransactor(db))
			count, err := qs.ReplaceAll(c.Context, questions)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Loaded %d questions\n", count)
			return nil
		},
	}
}

func readQuestions(path string) ([]model.QuestionInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var questions []model.QuestionInput
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if questions == nil {
		return nil, fmt.Errorf("%s does not contain a question list", path)
	}
	return questions, nil
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply the database schema",
		Action: func(c *cli.Context) error {
			_, db, err := openDB(c.Context)
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Fprintln(c.App.Writer, "Schema is up to date")
			return nil
		},
	}
}

func blobsCommand() *cli.Command {
	return &cli.Command{
		Name:  "blobs",
		Usage: "list blob names in the data container",
		Action: func(c *cli.Context) error {
			store, err := openStore(c.Context)
			if err != nil {
				return err
			}
			names, err := store.List(c.Context)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(c.App.Writer, name)
			}
			return nil
		},
	}
}

func blobGetCommand() *cli.Command {
	return &cli.Command{
		Name:      "blob-get",
		Usage:     "print the text content of a blob",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("blob-get takes exactly one blob name", 2)
			}
			store, err := openStore(c.Context)
			if err != nil {
				return err
			}
			text, err := blob.ReadText(c.Context, store, c.Args().First())
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, text)
			return nil
		},
	}
}
