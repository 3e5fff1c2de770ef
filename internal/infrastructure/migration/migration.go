package migration

import (
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"cardwallet/internal/infrastructure/persistence/models"
	"cardwallet/internal/shared/constants"
	"cardwallet/internal/shared/logger"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks a strategy based on environment: AutoMigrate in
// development, SQL scripts elsewhere.
func NewManager(environment string) *Manager {
	var strategy Strategy

	switch strings.ToLower(environment) {
	case constants.EnvTest, constants.EnvProduction:
		scriptsPath, _ := filepath.Abs("./internal/infrastructure/migration/scripts")
		strategy = NewGolangMigrateStrategy(scriptsPath)
	default:
		strategy = NewGormAutoMigrateStrategy()
	}

	return &Manager{
		strategy: strategy,
		logger:   logger.NewLogger().With("component", "migration.manager"),
	}
}

func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration",
		"strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db, AutoMigrateModels()...); err != nil {
		m.logger.Errorw("migration failed",
			"strategy", m.strategy.GetName(),
			"error", err)
		return err
	}

	m.logger.Infow("database migration completed")
	return nil
}

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.TenantModel{},
		&models.CardModel{},
		&models.DeviceRegistrationModel{},
		&models.TenantCertificateModel{},
	}
}
