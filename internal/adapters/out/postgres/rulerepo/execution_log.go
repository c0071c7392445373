package rulerepo

import (
	"context"

	"gorm.io/gorm"

	"bitversity/internal/core/domain/model/workflow"
)

// GormExecutionLog implements ports.RuleExecutionLog.
type GormExecutionLog struct {
	db *gorm.DB
}

func NewGormExecutionLog(db *gorm.DB) *GormExecutionLog {
	return &GormExecutionLog{db: db}
}

// Record stores the execution together with its failures.
func (l *GormExecutionLog) Record(ctx context.Context, execution workflow.Execution) error {
	dto := executionFromDomain(execution)
	return l.db.WithContext(ctx).Create(&dto).Error
}
