package dto

// ── 权重重算 DTO ──

// RecalcSummary 批量重算结果汇总
// ErrorCount > 0 是否构成整体失败由调用方自行裁量
type RecalcSummary struct {
	TotalEmployees int `json:"total_employees"`
	SuccessCount   int `json:"success_count"`
	ErrorCount     int `json:"error_count"`
}
