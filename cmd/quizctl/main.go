package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "quizctl",
		Usage: "operator commands for the quiz backend",
		Commands: []*cli.Command{
			createUserCommand(),
			listUsersCommand(),
			seedCommand(),
			migrateCommand(),
			blobsCommand(),
			blobGetCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
