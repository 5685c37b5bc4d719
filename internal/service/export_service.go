package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mamunbiswass/school-management/config"
	"github.com/mamunbiswass/school-management/internal/dto"
	"github.com/mamunbiswass/school-management/internal/model"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
	ErrExportNoStudents   = errors.New("没有符合条件的学生")
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// 课表导出格式
const (
	ExportFormatXLSX = "xlsx"
	ExportFormatICS  = "ics"
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 学生名册与课表导出为 Excel (.xlsx)，课表另可导出为 iCalendar (.ics)
//   - 数据来自学生 / 课表服务，保证筛选与排序规则一致
//   - 导出结果以 FileResult 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	ExportStudents(ctx context.Context, req *dto.StudentListRequest) (*dto.FileResult, error)
	ExportTimetable(ctx context.Context, className, section string, req *dto.TimetableExportRequest) (*dto.FileResult, error)
}

type exportService struct {
	students  StudentService
	timetable TimetableService
	location  *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.Config, students StudentService, timetable TimetableService, logger *zap.Logger) ExportService {
	return &exportService{
		students:  students,
		timetable: timetable,
		location:  cfg.School.Location(),
		now:       time.Now,
		logger:    logger,
	}
}

// ═══════════════════════════════════════════════════════════
// ExportStudents: 导出学生名册为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：单个 Sheet "Students"，首行表头，按 id 倒序（与列表接口一致）

var studentColumns = []struct {
	title string
	width float64
	value func(st *dto.StudentResponse) string
}{
	{"Admission No", 18, func(st *dto.StudentResponse) string { return st.AdmissionNo }},
	{"UID", 16, func(st *dto.StudentResponse) string { return st.UID }},
	{"Name", 24, func(st *dto.StudentResponse) string { return st.Name }},
	{"Gender", 10, func(st *dto.StudentResponse) string { return st.Gender }},
	{"DOB", 12, func(st *dto.StudentResponse) string { return st.DOB }},
	{"Class", 10, func(st *dto.StudentResponse) string { return st.ClassName }},
	{"Section", 10, func(st *dto.StudentResponse) string { return st.Section }},
	{"Roll", 8, func(st *dto.StudentResponse) string { return st.Roll }},
	{"Father", 22, func(st *dto.StudentResponse) string { return st.Father }},
	{"Mother", 22, func(st *dto.StudentResponse) string { return st.Mother }},
	{"Phone", 14, func(st *dto.StudentResponse) string { return st.Phone }},
	{"Email", 26, func(st *dto.StudentResponse) string { return st.Email }},
	{"Blood Group", 12, func(st *dto.StudentResponse) string { return st.BloodGroup }},
	{"Address", 40, func(st *dto.StudentResponse) string { return st.Address }},
}

func (s *exportService) ExportStudents(ctx context.Context, req *dto.StudentListRequest) (*dto.FileResult, error) {
	students, err := s.students.List(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, ErrExportNoStudents
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Students"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(headerCellStyle())

	for i, col := range studentColumns {
		name := colName(i)
		f.SetColWidth(sheetName, name, name, col.width)
		f.SetCellValue(sheetName, cell(name, 1), col.title)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(studentColumns)-1), 1), headerStyle)
	f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for r := range students {
		row := r + 2
		for i, col := range studentColumns {
			// 统一写成文本，避免身份号码等长数字被 Excel 转为科学计数
			f.SetCellStr(sheetName, cell(colName(i), row), col.value(&students[r]))
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}

	filename := "students.xlsx"
	if req != nil && req.ClassName != "" {
		filename = fmt.Sprintf("students_%s%s.xlsx", req.ClassName, req.Section)
	}
	return &dto.FileResult{Filename: filename, ContentType: contentTypeXLSX, Data: buf.Bytes()}, nil
}

// ═══════════════════════════════════════════════════════════
// ExportTimetable: 导出班级课表
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportTimetable(ctx context.Context, className, section string, req *dto.TimetableExportRequest) (*dto.FileResult, error) {
	periods, err := s.timetable.GetPeriods(ctx, className, section)
	if err != nil {
		return nil, err
	}

	format := ExportFormatXLSX
	if req != nil && req.Format != "" {
		format = req.Format
	}

	base := fmt.Sprintf("timetable_%s%s", className, section)
	switch format {
	case ExportFormatICS:
		from := s.now().In(s.location)
		if req != nil && req.From != "" {
			t, err := time.ParseInLocation(dateFormat, req.From, s.location)
			if err != nil {
				return nil, ErrInvalidDate
			}
			from = t
		}
		data := s.timetableICS(className, section, periods, from)
		return &dto.FileResult{Filename: base + ".ics", ContentType: contentTypeICS, Data: data}, nil

	default:
		data, err := s.timetableXLSX(className, section, periods)
		if err != nil {
			return nil, err
		}
		return &dto.FileResult{Filename: base + ".xlsx", ContentType: contentTypeXLSX, Data: data}, nil
	}
}

// timetableXLSX 输出格式：
//   - 行头：节次时间（12 小时制，按开始时间排序）
//   - 列头：Monday ~ Saturday
//   - 单元格：科目 (教师)
func (s *exportService) timetableXLSX(className, section string, periods []dto.PeriodResponse) ([]byte, error) {
	type slotKey struct{ start, end string }

	var slots []slotKey
	slotSeen := make(map[slotKey]bool)
	itemIndex := make(map[string]string) // "day|start|end" → cellText
	for i := range periods {
		p := &periods[i]
		key := slotKey{p.StartTime, p.EndTime}
		if !slotSeen[key] {
			slotSeen[key] = true
			slots = append(slots, key)
		}
		text := p.SubjectName
		if text == "" {
			text = "-"
		}
		if p.TeacherName != "" {
			text += " (" + p.TeacherName + ")"
		}
		itemIndex[p.Day+"|"+p.StartTime+"|"+p.EndTime] = text
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].start != slots[j].start {
			return slots[i].start < slots[j].start
		}
		return slots[i].end < slots[j].end
	})

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Timetable"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 22)
	for i := range model.Weekdays {
		col := colName(1 + i)
		f.SetColWidth(sheetName, col, col, 24)
	}

	headerStyle, _ := f.NewStyle(headerCellStyle())

	// 标题行
	lastCol := colName(len(model.Weekdays))
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Class %s - %s Timetable", className, section))
	f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "Time")
	for i, day := range model.Weekdays {
		f.SetCellValue(sheetName, cell(colName(1+i), row), day)
	}
	f.SetCellStyle(sheetName, cell("A", row), cell(lastCol, row), headerStyle)

	// 数据行
	row = 3
	for _, sl := range slots {
		f.SetCellValue(sheetName, cell("A", row), model.FormatClock(sl.start)+" - "+model.FormatClock(sl.end))
		for i, day := range model.Weekdays {
			f.SetCellValue(sheetName, cell(colName(1+i), row), itemIndex[day+"|"+sl.start+"|"+sl.end])
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	return buf.Bytes(), nil
}

// timetableICS 每个节次生成一个按周重复的事件，首次发生在 from 所在周
func (s *exportService) timetableICS(className, section string, periods []dto.PeriodResponse, from time.Time) []byte {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//school-management//timetable//EN")
	cal.SetXWRCalName(fmt.Sprintf("Class %s - %s", className, section))
	cal.SetXWRTimezone(s.location.String())

	weekStart := mondayOf(from)
	stamp := s.now().UTC()

	for i := range periods {
		p := &periods[i]
		dayIdx := model.WeekdayIndex(p.Day)
		startSecs, err1 := model.ParseClock(p.StartTime)
		endSecs, err2 := model.ParseClock(p.EndTime)
		if dayIdx < 0 || err1 != nil || err2 != nil {
			s.logger.Warn("跳过无法导出的节次", zap.Int64("id", p.ID))
			continue
		}

		day := weekStart.AddDate(0, 0, dayIdx)
		start := day.Add(time.Duration(startSecs) * time.Second)
		end := day.Add(time.Duration(endSecs) * time.Second)

		summary := p.SubjectName
		if summary == "" {
			summary = "Period"
		}

		ev := cal.AddEvent(fmt.Sprintf("period-%d@school-management", p.ID))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(summary)
		if p.TeacherName != "" {
			ev.SetDescription("Teacher: " + p.TeacherName)
		}
		ev.SetLocation(fmt.Sprintf("Class %s - %s", className, section))
		ev.AddProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY")
	}

	return []byte(cal.Serialize())
}

// ── 辅助函数 ──

// mondayOf 返回 t 所在周的周一零点（保留时区）
func mondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func headerCellStyle() *excelize.Style {
	return &excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
