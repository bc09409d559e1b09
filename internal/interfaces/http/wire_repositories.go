package http

import (
	"github.com/pulseboard/pulseboard/internal/domain/connection"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	connectionRepo connection.Repository
}
