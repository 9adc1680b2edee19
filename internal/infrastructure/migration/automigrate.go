package migration

import (
	"github.com/orris-inc/proxyshop/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return models.All()
}
