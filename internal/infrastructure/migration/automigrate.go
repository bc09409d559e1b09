package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pulseboard/pulseboard/internal/infrastructure/persistence/models"
	"github.com/pulseboard/pulseboard/internal/shared/logger"
)

// Models lists every persistence model owned by this service.
func Models() []interface{} {
	return []interface{}{
		&models.PlatformConnectionModel{},
	}
}

// GormAutoMigrateStrategy derives the schema from the gorm models. Used for sqlite
// and throwaway development databases.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy(log logger.Interface) *GormAutoMigrateStrategy {
	return &GormAutoMigrateStrategy{
		logger: log.With("component", "migration.gorm"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB) error {
	s.logger.Infow("starting gorm auto migration", "models", len(Models()))

	if err := db.AutoMigrate(Models()...); err != nil {
		s.logger.Errorw("auto migration failed", "error", err)
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	s.logger.Infow("auto migration completed successfully")
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
