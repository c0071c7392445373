package postgres

import (
	"gorm.io/gorm"

	"bitversity/internal/adapters/out/postgres/adminrepo"
	"bitversity/internal/adapters/out/postgres/notificationrepo"
	"bitversity/internal/adapters/out/postgres/orderrepo"
	"bitversity/internal/adapters/out/postgres/rulerepo"
	"bitversity/internal/adapters/out/postgres/taskrepo"
)

// Migrate creates or updates every table the adapters use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&adminrepo.AdminDTO{},
		&orderrepo.OrderDTO{},
		&rulerepo.RuleDTO{},
		&rulerepo.ExecutionDTO{},
		&rulerepo.FailureDTO{},
		&notificationrepo.NotificationDTO{},
		&taskrepo.TaskDTO{},
	)
}

// ReadModel serves every query port straight from the database.
type ReadModel struct {
	*orderrepo.GormOrderReader
	*rulerepo.GormRuleReader
	*notificationrepo.GormNotificationReader
	*taskrepo.GormTaskReader
}

func NewReadModel(db *gorm.DB) *ReadModel {
	return &ReadModel{
		GormOrderReader:        orderrepo.NewGormOrderReader(db),
		GormRuleReader:         rulerepo.NewGormRuleReader(db),
		GormNotificationReader: notificationrepo.NewGormNotificationReader(db),
		GormTaskReader:         taskrepo.NewGormTaskReader(db),
	}
}
