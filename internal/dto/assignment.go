package dto

// ── WBS 分配模块 DTO ──

// AssignRequest 新建 WBS 分配请求
type AssignRequest struct {
	EmployeeID string `json:"employee_id"`
	PeriodID   string `json:"period_id"`
	WbsItemID  string `json:"wbs_item_id"`
}

// AssignmentResponse WBS 分配信息响应
type AssignmentResponse struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	PeriodID    string  `json:"period_id"`
	ProjectID   string  `json:"project_id"`
	WbsItemID   string  `json:"wbs_item_id"`
	Weight      float64 `json:"weight"`
	ProjectName string  `json:"project_name,omitempty"`
	WbsItemName string  `json:"wbs_item_name,omitempty"`
}

// UpdateWbsCriteriaRequest 更新 WBS 评估基准请求
type UpdateWbsCriteriaRequest struct {
	Criteria string `json:"criteria"`
}
