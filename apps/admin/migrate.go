package main

import (
	"errors"

	"github.com/trezcool/studymate/storage/database"
)

var (
	runMigrationFunc = database.RunMigration // mockable

	errNoSQLDatabase = errors.New("migrations need a postgres database")
)

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoSQLDatabase
	}
	return runMigrationFunc(cli.db, args[0], args[1:]...)
}
