package rulerepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/workflow"
	"bitversity/internal/pkg/errs"
)

// GormRuleRepository implements ports.WorkflowRuleRepository.
type GormRuleRepository struct {
	db *gorm.DB
}

func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

func (r *GormRuleRepository) Add(ctx context.Context, rule *workflow.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(rule.Snapshot())
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update writes the editable columns. The execution counters belong to
// RecordExecution and are never overwritten here.
func (r *GormRuleRepository) Update(ctx context.Context, rule *workflow.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(rule.Snapshot())
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&RuleDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"name":          dto.Name,
		"description":   dto.Description,
		"is_active":     dto.IsActive,
		"trigger_event": dto.TriggerEvent,
		"conditions":    dto.Conditions,
		"actions":       dto.Actions,
		"updated_at":    dto.UpdatedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("workflow rule", rule.ID().String())
	}
	return nil
}

func (r *GormRuleRepository) Delete(ctx context.Context, id kernel.UUID) error {
	result := r.db.WithContext(ctx).Delete(&RuleDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("workflow rule", id.String())
	}
	return nil
}

func (r *GormRuleRepository) Get(ctx context.Context, id kernel.UUID) (*workflow.Rule, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RuleDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("workflow rule", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormRuleRepository) ListActive(ctx context.Context) ([]*workflow.Rule, error) {
	var dtos []RuleDTO
	if err := r.db.WithContext(ctx).Where("is_active").Order("created_at").Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	rules := make([]*workflow.Rule, 0, len(dtos))
	for _, dto := range dtos {
		rule, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// RecordExecution increments the counter in a single statement so that
// concurrent runs of one rule are all counted.
func (r *GormRuleRepository) RecordExecution(ctx context.Context, id kernel.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&RuleDTO{}).Where("id = ?", id.Bytes()).Updates(map[string]any{
		"execution_count":  gorm.Expr("execution_count + 1"),
		"last_executed_at": at,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("workflow rule", id.String())
	}
	return nil
}
