package usecases

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/pulseboard/pulseboard/internal/domain/connection"
	"github.com/pulseboard/pulseboard/internal/shared/logger"
)

const stateBytes = 32

type InitiateConnectionCommand struct {
	Platform string
}

type InitiateConnectionResult struct {
	Platform connection.Platform
	AuthURL  string
	// State must be stored in the platform's state cookie by the caller.
	State string
}

// InitiateConnectionUseCase builds the provider consent URL. It never writes to the database.
type InitiateConnectionUseCase struct {
	connectors ConnectorProvider
	ledger     StateLedger
	metrics    FlowMetrics
	logger     logger.Interface
}

func NewInitiateConnectionUseCase(
	connectors ConnectorProvider,
	ledger StateLedger,
	metrics FlowMetrics,
	logger logger.Interface,
) *InitiateConnectionUseCase {
	return &InitiateConnectionUseCase{
		connectors: connectors,
		ledger:     ledger,
		metrics:    metrics,
		logger:     logger,
	}
}

func (uc *InitiateConnectionUseCase) Execute(ctx context.Context, cmd InitiateConnectionCommand) (*InitiateConnectionResult, error) {
	result, err := uc.initiate(ctx, cmd)
	platform := platformLabel(cmd.Platform)
	if err != nil {
		uc.metrics.OAuthStarted(platform, outcomeOf(err))
		return nil, err
	}
	uc.metrics.OAuthStarted(platform, "redirected")
	return result, nil
}

func (uc *InitiateConnectionUseCase) initiate(ctx context.Context, cmd InitiateConnectionCommand) (*InitiateConnectionResult, error) {
	platform, err := parsePlatform(cmd.Platform)
	if err != nil {
		uc.logger.Warnw("oauth start for unknown platform", "platform", cmd.Platform)
		return nil, err
	}

	connector, err := uc.connectors.Connector(platform)
	if err != nil {
		uc.logger.Errorw("failed to build connector", "platform", platform, "error", err)
		return nil, fmt.Errorf("failed to build connector: %w", err)
	}

	if err := connector.RequireClientID(); err != nil {
		uc.logger.Errorw("oauth client id not configured", "platform", platform, "error", err)
		return nil, credentialError(err)
	}

	state, err := generateState()
	if err != nil {
		uc.logger.Errorw("failed to generate state", "error", err)
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	if err := uc.ledger.Remember(ctx, platform, state); err != nil {
		uc.logger.Errorw("failed to record oauth state", "platform", platform, "error", err)
		return nil, fmt.Errorf("failed to record state: %w", err)
	}

	uc.logger.Infow("oauth connection initiated", "platform", platform)

	return &InitiateConnectionResult{
		Platform: platform,
		AuthURL:  connector.AuthCodeURL(state),
		State:    state,
	}, nil
}

// generateState returns 32 random bytes, base64url encoded without padding.
func generateState() (string, error) {
	b := make([]byte, stateBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
