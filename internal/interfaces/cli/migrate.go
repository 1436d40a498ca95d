package cli

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/turtacn/regionmap/internal/infrastructure/database/postgres"
	"github.com/turtacn/regionmap/pkg/errors"
)

// migrator is swapped in tests.
var migrator = struct {
	up     func(dbURL string) error
	down   func(dbURL string, steps int) error
	status func(dbURL string) (uint, bool, error)
	force  func(dbURL string, version int) error
}{
	up:     postgres.RunMigrations,
	down:   postgres.RollbackMigration,
	status: postgres.MigrationStatus,
	force:  postgres.ForceMigrationVersion,
}

type migrationStatus struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

func (s migrationStatus) TableHeaders() table.Row { return table.Row{"Version", "Dirty"} }
func (s migrationStatus) TableRows() []table.Row  { return []table.Row{{s.Version, s.Dirty}} }

// databaseURL returns the DSN of the configured database.
func databaseURL(cmd *cobra.Command) (string, error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return "", err
	}
	if !cliCtx.Config.Database.Enabled {
		return "", errors.New(errors.ErrCodeFeatureDisabled, "database.enabled is false")
	}
	return postgres.DSN(cliCtx.Config.Database.PostgresConfig), nil
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the representative database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := databaseURL(cmd)
			if err != nil {
				return err
			}
			if err := migrator.up(dsn); err != nil {
				return err
			}
			PrintSuccess(cmd, "migrations applied")
			return nil
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := databaseURL(cmd)
			if err != nil {
				return err
			}
			if err := migrator.down(dsn, steps); err != nil {
				return err
			}
			PrintSuccess(cmd, "rolled back "+strconv.Itoa(steps)+" migration(s)")
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := databaseURL(cmd)
			if err != nil {
				return err
			}
			version, dirty, err := migrator.status(dsn)
			if err != nil {
				return err
			}
			return PrintResult(cmd, migrationStatus{Version: version, Dirty: dirty})
		},
	}

	force := &cobra.Command{
		Use:   "force <version>",
		Short: "Mark the schema as being at version, clearing a dirty state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.InvalidParam("version must be an integer").WithDetail(args[0])
			}
			dsn, err := databaseURL(cmd)
			if err != nil {
				return err
			}
			if err := migrator.force(dsn, version); err != nil {
				return err
			}
			PrintSuccess(cmd, "schema version forced to "+args[0])
			return nil
		},
	}

	cmd.AddCommand(up, down, status, force)
	return cmd
}

//Personal.AI order the ending
