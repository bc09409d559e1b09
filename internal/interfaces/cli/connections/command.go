package connections

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pulseboard/pulseboard/internal/application/connection/dto"
	"github.com/pulseboard/pulseboard/internal/application/connection/usecases"
	"github.com/pulseboard/pulseboard/internal/domain/connection"
	"github.com/pulseboard/pulseboard/internal/infrastructure/config"
	"github.com/pulseboard/pulseboard/internal/infrastructure/database"
	"github.com/pulseboard/pulseboard/internal/infrastructure/metrics"
	"github.com/pulseboard/pulseboard/internal/infrastructure/oauth"
	"github.com/pulseboard/pulseboard/internal/infrastructure/repository"
	"github.com/pulseboard/pulseboard/internal/interfaces/adapters"
	"github.com/pulseboard/pulseboard/internal/shared/logger"
	"github.com/pulseboard/pulseboard/internal/shared/utils"
)

var (
	env       string
	window    time.Duration
	batchSize int
	userID    string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connections",
		Short: "Platform connection maintenance",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	refresh := &cobra.Command{
		Use:   "refresh-expiring",
		Short: "Refresh access tokens that expire soon",
		Long:  `Run one pass of the background token refresh job and exit.`,
		RunE:  runRefreshExpiring,
	}
	refresh.Flags().DurationVar(&window, "window", 0, "Refresh tokens expiring within this duration (default from config)")
	refresh.Flags().IntVar(&batchSize, "batch-size", 0, "Maximum connections to refresh (default from config)")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show which platforms a user can publish to",
		Long:  `Resolve the stored credential of every platform for one user. Tokens are masked.`,
		RunE:  runStatus,
	}
	status.Flags().StringVarP(&userID, "user", "u", "", "User ID (required)")
	_ = status.MarkFlagRequired("user")

	cmd.AddCommand(refresh, status)
	return cmd
}

type credentialLookup interface {
	Execute(ctx context.Context, query usecases.GetPlatformCredentialQuery) (*dto.PlatformCredential, error)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, false); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	uc := usecases.NewGetPlatformCredentialUseCase(
		repository.NewPlatformConnectionRepository(database.Get(), log),
		log,
	)
	return printCredentialStatus(context.Background(), cmd.OutOrStdout(), uc, userID)
}

// printCredentialStatus writes one line per platform in display order.
func printCredentialStatus(ctx context.Context, out io.Writer, lookup credentialLookup, userID string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLATFORM\tCONNECTED\tACCESS TOKEN")

	for _, p := range connection.Platforms() {
		cred, err := lookup.Execute(ctx, usecases.GetPlatformCredentialQuery{UserID: userID, Platform: p})
		if err != nil {
			return fmt.Errorf("failed to resolve %s credential: %w", p, err)
		}
		token := "-"
		if cred.Connected {
			token = utils.MaskToken(cred.AccessToken)
		}
		fmt.Fprintf(w, "%s\t%t\t%s\n", p, cred.Connected, token)
	}
	return w.Flush()
}

func runRefreshExpiring(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, false); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if window <= 0 {
		window = time.Duration(cfg.Refresh.WindowMinutes) * time.Minute
	}
	if batchSize <= 0 {
		batchSize = cfg.Refresh.BatchSize
	}

	manager := oauth.NewConnectorManager(
		cfg.Server.BaseURL(),
		oauth.NewEnvCredentialSource(viper.GetViper()),
		log.Named("oauth"),
		oauth.WithTimeouts(cfg.OAuth.ExchangeTimeout(), cfg.OAuth.ProfileTimeout()),
	)

	uc := usecases.NewRefreshExpiringConnectionsUseCase(
		adapters.NewConnectorProviderAdapter(manager),
		repository.NewPlatformConnectionRepository(database.Get(), log),
		metrics.NewRecorder(),
		window,
		batchSize,
		nil,
		log,
	)

	refreshed, err := uc.Execute(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Refreshed %d connection(s)\n", refreshed)
	return nil
}
