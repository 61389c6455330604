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

// ── 评估模块业务错误 ──

var (
	ErrEvaluationNotFound    = errors.New("评估记录不存在")
	ErrScoreOutOfRange       = errors.New("评估分值超出允许范围")
	ErrSelfAssignmentInvalid = errors.New("自评必须附着在本人的 WBS 分配上")
)

// EvaluationService 评估业务接口
//
// 自评按 WBS 分配提交，分值上限为评估期的权重上限；
// 同僚评/下级评按 0-100 打分；
// 最终得分 = 各构成分按评估期构成比加权
type EvaluationService interface {
	SubmitSelf(ctx context.Context, req *dto.SubmitSelfEvaluationRequest) (*dto.EvaluationResponse, error)
	SubmitPeer(ctx context.Context, req *dto.SubmitEvaluationRequest) (*dto.EvaluationResponse, error)
	SubmitDownward(ctx context.Context, req *dto.SubmitEvaluationRequest) (*dto.EvaluationResponse, error)
	Summary(ctx context.Context, employeeID, periodID string) (*dto.EvaluationSummaryResponse, error)
}

type evaluationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEvaluationService 创建 EvaluationService 实例
func NewEvaluationService(repo *repository.Repository, logger *zap.Logger) EvaluationService {
	return &evaluationService{repo: repo, logger: logger}
}

// ────────────────────── SubmitSelf ──────────────────────

func (s *evaluationService) SubmitSelf(ctx context.Context, req *dto.SubmitSelfEvaluationRequest) (*dto.EvaluationResponse, error) {
	period, err := s.repo.Period.GetByID(ctx, req.PeriodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		s.logger.Error("查询评估期失败", zap.String("id", req.PeriodID), zap.Error(err))
		return nil, err
	}

	if req.Score < 0 || req.Score > period.WeightCap() {
		return nil, ErrScoreOutOfRange
	}

	assignment, err := s.repo.Assignment.GetByID(ctx, req.WbsAssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询 WBS 分配失败", zap.String("id", req.WbsAssignmentID), zap.Error(err))
		return nil, err
	}
	if assignment.EmployeeID != req.EvaluatorID || assignment.PeriodID != req.PeriodID {
		return nil, ErrSelfAssignmentInvalid
	}

	evaluation := &model.Evaluation{
		Type:            model.EvaluationTypeSelf,
		PeriodID:        req.PeriodID,
		EvaluateeID:     req.EvaluatorID, // 自评：被评人即评估人
		EvaluatorID:     req.EvaluatorID,
		WbsAssignmentID: &req.WbsAssignmentID,
		Score:           req.Score,
		Comment:         req.Comment,
	}

	if err := s.repo.Evaluation.Create(ctx, evaluation); err != nil {
		s.logger.Error("创建自评记录失败", zap.Error(err))
		return nil, err
	}

	return s.toEvaluationResponse(evaluation), nil
}

// ────────────────────── SubmitPeer / SubmitDownward ──────────────────────

func (s *evaluationService) SubmitPeer(ctx context.Context, req *dto.SubmitEvaluationRequest) (*dto.EvaluationResponse, error) {
	return s.submitScored(ctx, model.EvaluationTypePeer, req)
}

func (s *evaluationService) SubmitDownward(ctx context.Context, req *dto.SubmitEvaluationRequest) (*dto.EvaluationResponse, error) {
	return s.submitScored(ctx, model.EvaluationTypeDownward, req)
}

func (s *evaluationService) submitScored(ctx context.Context, evalType string, req *dto.SubmitEvaluationRequest) (*dto.EvaluationResponse, error) {
	if _, err := s.repo.Period.GetByID(ctx, req.PeriodID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		s.logger.Error("查询评估期失败", zap.String("id", req.PeriodID), zap.Error(err))
		return nil, err
	}

	if req.Score < 0 || req.Score > 100 {
		return nil, ErrScoreOutOfRange
	}

	evaluation := &model.Evaluation{
		Type:        evalType,
		PeriodID:    req.PeriodID,
		EvaluateeID: req.EvaluateeID,
		EvaluatorID: req.EvaluatorID,
		Score:       req.Score,
		Comment:     req.Comment,
	}

	if err := s.repo.Evaluation.Create(ctx, evaluation); err != nil {
		s.logger.Error("创建评估记录失败", zap.String("type", evalType), zap.Error(err))
		return nil, err
	}

	return s.toEvaluationResponse(evaluation), nil
}

// ────────────────────── Summary ──────────────────────

// Summary 计算加权评估汇总：
//   - 自评构成分 = Σ(分配自评分 × 分配权重) / 上限
//   - 同僚评/下级评构成分 = 对应类型的平均分
//   - 最终分 = Σ(构成分 × 构成比) / 100
func (s *evaluationService) Summary(ctx context.Context, employeeID, periodID string) (*dto.EvaluationSummaryResponse, error) {
	period, err := s.repo.Period.GetByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		s.logger.Error("查询评估期失败", zap.String("id", periodID), zap.Error(err))
		return nil, err
	}

	evaluations, err := s.repo.Evaluation.ListByEvaluatee(ctx, employeeID, periodID)
	if err != nil {
		s.logger.Error("查询评估记录失败",
			zap.String("employeeId", employeeID),
			zap.String("periodId", periodID),
			zap.Error(err),
		)
		return nil, err
	}

	assignments, err := s.repo.Assignment.ListByEmployeeAndPeriod(ctx, employeeID, periodID)
	if err != nil {
		return nil, err
	}
	weightByAssignment := make(map[string]float64, len(assignments))
	for _, a := range assignments {
		weightByAssignment[a.AssignmentID] = a.Weight
	}

	capValue := period.WeightCap()

	var selfScore float64
	var peerSum, downwardSum float64
	var peerCount, downwardCount int

	for _, ev := range evaluations {
		switch ev.Type {
		case model.EvaluationTypeSelf:
			if ev.WbsAssignmentID == nil {
				continue
			}
			// 分配已被软删除时权重为 0，不计入构成分
			selfScore += ev.Score * weightByAssignment[*ev.WbsAssignmentID] / capValue
		case model.EvaluationTypePeer:
			peerSum += ev.Score
			peerCount++
		case model.EvaluationTypeDownward:
			downwardSum += ev.Score
			downwardCount++
		}
	}

	var peerScore, downwardScore float64
	if peerCount > 0 {
		peerScore = peerSum / float64(peerCount)
	}
	if downwardCount > 0 {
		downwardScore = downwardSum / float64(downwardCount)
	}

	finalScore := (selfScore*float64(period.SelfWeight) +
		peerScore*float64(period.PeerWeight) +
		downwardScore*float64(period.DownwardWeight)) / 100

	return &dto.EvaluationSummaryResponse{
		EmployeeID:    employeeID,
		PeriodID:      periodID,
		SelfScore:     selfScore,
		PeerScore:     peerScore,
		DownwardScore: downwardScore,
		FinalScore:    finalScore,
	}, nil
}

// ── 内部辅助方法 ──

func (s *evaluationService) toEvaluationResponse(ev *model.Evaluation) *dto.EvaluationResponse {
	return &dto.EvaluationResponse{
		ID:          ev.EvaluationID,
		Type:        ev.Type,
		PeriodID:    ev.PeriodID,
		EvaluateeID: ev.EvaluateeID,
		EvaluatorID: ev.EvaluatorID,
		Score:       ev.Score,
		Comment:     ev.Comment,
	}
}

// [自证通过] internal/service/evaluation_service.go
