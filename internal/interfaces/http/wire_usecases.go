package http

import (
	"github.com/pulseboard/pulseboard/internal/application/connection/usecases"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	initiateConnectionUC  *usecases.InitiateConnectionUseCase
	handleCallbackUC      *usecases.HandleConnectionCallbackUseCase
	listConnectionsUC     *usecases.ListConnectionsUseCase
	disconnectPlatformUC  *usecases.DisconnectPlatformUseCase
	refreshConnectionUC   *usecases.RefreshConnectionUseCase
	refreshExpiringConnUC *usecases.RefreshExpiringConnectionsUseCase
}
