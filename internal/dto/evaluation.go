package dto

// ── 评估模块 DTO ──

// SubmitSelfEvaluationRequest 提交自评请求
type SubmitSelfEvaluationRequest struct {
	PeriodID        string  `json:"period_id"`
	EvaluatorID     string  `json:"evaluator_id"` // 自评时即为被评人
	WbsAssignmentID string  `json:"wbs_assignment_id"`
	Score           float64 `json:"score"`
	Comment         string  `json:"comment"`
}

// SubmitEvaluationRequest 提交同僚评/下级评请求
type SubmitEvaluationRequest struct {
	PeriodID    string  `json:"period_id"`
	EvaluateeID string  `json:"evaluatee_id"`
	EvaluatorID string  `json:"evaluator_id"`
	Score       float64 `json:"score"`
	Comment     string  `json:"comment"`
}

// EvaluationResponse 评估记录响应
type EvaluationResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	PeriodID    string  `json:"period_id"`
	EvaluateeID string  `json:"evaluatee_id"`
	EvaluatorID string  `json:"evaluator_id"`
	Score       float64 `json:"score"`
	Comment     string  `json:"comment,omitempty"`
}

// EvaluationSummaryResponse 员工加权评估汇总响应
type EvaluationSummaryResponse struct {
	EmployeeID    string  `json:"employee_id"`
	PeriodID      string  `json:"period_id"`
	SelfScore     float64 `json:"self_score"`     // 按分配权重加权后的自评构成分
	PeerScore     float64 `json:"peer_score"`     // 同僚评平均分
	DownwardScore float64 `json:"downward_score"` // 下级评平均分
	FinalScore    float64 `json:"final_score"`    // 按评估期构成比加权的最终分
}
