package dto

// ── 评估期模块 DTO ──

// CreatePeriodRequest 创建评估期请求
type CreatePeriodRequest struct {
	Name                  string  `json:"name"`
	StartDate             string  `json:"start_date"` // "2026-01-01"
	EndDate               string  `json:"end_date"`   // "2026-06-30"
	MaxSelfEvaluationRate float64 `json:"max_self_evaluation_rate"`
	SelfWeight            int     `json:"self_weight"`
	PeerWeight            int     `json:"peer_weight"`
	DownwardWeight        int     `json:"downward_weight"`
}

// UpdatePeriodRequest 更新评估期请求
type UpdatePeriodRequest struct {
	Name      *string `json:"name"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Status    *string `json:"status"` // draft | active | closed
}

// PeriodResponse 评估期信息响应
type PeriodResponse struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	StartDate             string  `json:"start_date"`
	EndDate               string  `json:"end_date"`
	Status                string  `json:"status"`
	MaxSelfEvaluationRate float64 `json:"max_self_evaluation_rate"`
	SelfWeight            int     `json:"self_weight"`
	PeerWeight            int     `json:"peer_weight"`
	DownwardWeight        int     `json:"downward_weight"`
	CreatedAt             string  `json:"created_at"`
	UpdatedAt             string  `json:"updated_at"`
}
