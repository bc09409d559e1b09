package handlers

import (
	"context"

	"github.com/pulseboard/pulseboard/internal/application/connection/dto"
	"github.com/pulseboard/pulseboard/internal/application/connection/usecases"
)

// Use case interfaces for the connection handlers, so tests can substitute them.

type initiateConnectionUseCase interface {
	Execute(ctx context.Context, cmd usecases.InitiateConnectionCommand) (*usecases.InitiateConnectionResult, error)
}

type handleConnectionCallbackUseCase interface {
	Execute(ctx context.Context, cmd usecases.HandleConnectionCallbackCommand) (*usecases.HandleConnectionCallbackResult, error)
}

type listConnectionsUseCase interface {
	Execute(ctx context.Context, query usecases.ListConnectionsQuery) ([]*dto.ConnectionDTO, error)
}

type disconnectPlatformUseCase interface {
	Execute(ctx context.Context, cmd usecases.DisconnectPlatformCommand) (*dto.ConnectionDTO, error)
}

type refreshConnectionUseCase interface {
	Execute(ctx context.Context, cmd usecases.RefreshConnectionCommand) (*dto.ConnectionDTO, error)
}
