package migrate

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pulseboard/pulseboard/internal/infrastructure/config"
	"github.com/pulseboard/pulseboard/internal/infrastructure/database"
	"github.com/pulseboard/pulseboard/internal/infrastructure/migration"
	"github.com/pulseboard/pulseboard/internal/shared/logger"
)

const scriptsRoot = "./internal/infrastructure/migration/scripts"

var (
	env   string
	name  string
	steps int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new SQL migration for the configured driver",
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func initEnv() (string, logger.Interface, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, false); err != nil {
		return "", nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return "", nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return database.DriverName(&cfg.Database), logger.NewLogger(), nil
}

func gooseStrategy(driver string, log logger.Interface) (*migration.GooseStrategy, error) {
	if driver == "sqlite" {
		return nil, fmt.Errorf("versioned migrations are not available for sqlite, use 'migrate up'")
	}
	return migration.NewGooseStrategy(driver, log), nil
}

func runUp(cmd *cobra.Command, args []string) error {
	driver, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running up migrations", "environment", env, "driver", driver)

	return migration.NewManager(driver, log).Migrate(database.Get())
}

func runDown(cmd *cobra.Command, args []string) error {
	driver, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	strategy, err := gooseStrategy(driver, log)
	if err != nil {
		return err
	}

	log.Infow("rolling back migrations", "environment", env, "steps", steps)

	if err := strategy.MigrateDown(database.Get(), steps); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	driver, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	strategy, err := gooseStrategy(driver, log)
	if err != nil {
		return err
	}

	version, err := strategy.GetVersion(database.Get())
	if err != nil {
		return err
	}
	fmt.Printf("Current migration version: %d\n", version)

	return strategy.Status(database.Get())
}

func runCreate(cmd *cobra.Command, args []string) error {
	driver, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	strategy, err := gooseStrategy(driver, log)
	if err != nil {
		return err
	}

	dir, err := filepath.Abs(filepath.Join(scriptsRoot, driver))
	if err != nil {
		return fmt.Errorf("failed to get scripts path: %w", err)
	}

	return strategy.Create(dir, name)
}
