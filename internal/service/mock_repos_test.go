package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mamunbiswass/school-management/config"
	"github.com/mamunbiswass/school-management/internal/model"
	"github.com/mamunbiswass/school-management/internal/repository"
	"github.com/mamunbiswass/school-management/pkg/storage"
)

// ── Mock SchoolRepository ──

type mockSchoolRepo struct {
	schools map[int64]*model.School
	nextID  int64
}

func newMockSchoolRepo() *mockSchoolRepo {
	return &mockSchoolRepo{schools: make(map[int64]*model.School), nextID: 1}
}

func (m *mockSchoolRepo) GetFirst(_ context.Context) (*model.School, error) {
	var first *model.School
	for _, s := range m.schools {
		if first == nil || s.ID < first.ID {
			first = s
		}
	}
	if first == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return first, nil
}

func (m *mockSchoolRepo) GetByID(_ context.Context, id int64) (*model.School, error) {
	if s, ok := m.schools[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSchoolRepo) Create(_ context.Context, school *model.School) error {
	school.ID = m.nextID
	m.nextID++
	m.schools[school.ID] = school
	return nil
}

func (m *mockSchoolRepo) Update(_ context.Context, school *model.School) error {
	m.schools[school.ID] = school
	return nil
}

// ── Mock ClassRepository ──

type mockClassRepo struct {
	classes   map[int64]*model.Class
	nextID    int64
	students  *mockStudentRepo
	subjects  *mockSubjectRepo
	periods   *mockTimetableRepo
	listCalls int
}

func newMockClassRepo() *mockClassRepo {
	return &mockClassRepo{classes: make(map[int64]*model.Class), nextID: 1}
}

// add 测试辅助：直接写入班级
func (m *mockClassRepo) add(name, section string) *model.Class {
	c := &model.Class{Name: name, Section: section}
	_ = m.Create(context.Background(), c)
	return c
}

func (m *mockClassRepo) Create(_ context.Context, class *model.Class) error {
	class.ID = m.nextID
	m.nextID++
	m.classes[class.ID] = class
	return nil
}

func (m *mockClassRepo) GetByID(_ context.Context, id int64) (*model.Class, error) {
	if c, ok := m.classes[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassRepo) GetByNameSection(_ context.Context, name, section string) (*model.Class, error) {
	for _, c := range m.classes {
		if c.Name == name && c.Section == section {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassRepo) List(_ context.Context) ([]model.Class, error) {
	m.listCalls++
	result := make([]model.Class, 0, len(m.classes))
	for _, c := range m.classes {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].Section < result[j].Section
	})
	return result, nil
}

func (m *mockClassRepo) ListSections(_ context.Context, name string) ([]string, error) {
	var sections []string
	for _, c := range m.classes {
		if c.Name == name {
			sections = append(sections, c.Section)
		}
	}
	sort.Strings(sections)
	return sections, nil
}

func (m *mockClassRepo) Update(_ context.Context, class *model.Class) error {
	m.classes[class.ID] = class
	return nil
}

// Delete 科目与课表节次均以 RESTRICT 引用班级
func (m *mockClassRepo) Delete(_ context.Context, id int64) error {
	if m.subjects != nil {
		for _, sub := range m.subjects.subjects {
			if sub.ClassID == id {
				return &pgconn.PgError{Code: "23503", ConstraintName: "subjects_class_id_fkey"}
			}
		}
	}
	if m.periods != nil {
		for _, p := range m.periods.periods {
			if p.ClassID == id {
				return &pgconn.PgError{Code: "23503", ConstraintName: "timetable_periods_class_id_fkey"}
			}
		}
	}
	delete(m.classes, id)
	return nil
}

func (m *mockClassRepo) CountStudents(_ context.Context, classID int64) (int64, error) {
	if m.students == nil {
		return 0, nil
	}
	var n int64
	for _, s := range m.students.students {
		if s.ClassID == classID {
			n++
		}
	}
	return n, nil
}

// ── Mock TeacherRepository ──

type mockTeacherRepo struct {
	teachers map[int64]*model.Teacher
	nextID   int64
	updated  map[string]interface{} // 最近一次 Update 的字段
}

func newMockTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{teachers: make(map[int64]*model.Teacher), nextID: 1}
}

func (m *mockTeacherRepo) Create(_ context.Context, teacher *model.Teacher) error {
	teacher.ID = m.nextID
	m.nextID++
	m.teachers[teacher.ID] = teacher
	return nil
}

func (m *mockTeacherRepo) GetByID(_ context.Context, id int64) (*model.Teacher, error) {
	if t, ok := m.teachers[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) List(_ context.Context) ([]model.Teacher, error) {
	result := make([]model.Teacher, 0, len(m.teachers))
	for _, t := range m.teachers {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockTeacherRepo) Update(_ context.Context, id int64, fields map[string]interface{}) error {
	m.updated = fields
	t, ok := m.teachers[id]
	if !ok {
		return nil
	}
	for col, v := range fields {
		switch col {
		case "name":
			t.Name = v.(string)
		case "phone":
			t.Phone = v.(string)
		case "subject":
			t.Subject = v.(string)
		case "dob":
			t.DOB = v.(*time.Time)
		case "salary":
			s := v.(float64)
			t.Salary = &s
		}
	}
	return nil
}

func (m *mockTeacherRepo) Delete(_ context.Context, id int64) error {
	delete(m.teachers, id)
	return nil
}

// ── Mock SubjectRepository ──

type mockSubjectRepo struct {
	subjects map[int64]*model.Subject
	nextID   int64
	classes  *mockClassRepo
}

func newMockSubjectRepo(classes *mockClassRepo) *mockSubjectRepo {
	m := &mockSubjectRepo{subjects: make(map[int64]*model.Subject), nextID: 1, classes: classes}
	classes.subjects = m
	return m
}

func (m *mockSubjectRepo) Create(_ context.Context, subject *model.Subject) error {
	subject.ID = m.nextID
	m.nextID++
	cp := *subject
	m.subjects[subject.ID] = &cp
	return nil
}

func (m *mockSubjectRepo) GetByID(ctx context.Context, id int64) (*model.Subject, error) {
	s, ok := m.subjects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	cp.Class, _ = m.classes.GetByID(ctx, s.ClassID)
	return &cp, nil
}

func (m *mockSubjectRepo) List(ctx context.Context) ([]model.Subject, error) {
	result := make([]model.Subject, 0, len(m.subjects))
	for id := range m.subjects {
		s, _ := m.GetByID(ctx, id)
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockSubjectRepo) Update(_ context.Context, subject *model.Subject) error {
	cp := *subject
	cp.Class = nil
	m.subjects[subject.ID] = &cp
	return nil
}

func (m *mockSubjectRepo) Delete(_ context.Context, id int64) error {
	delete(m.subjects, id)
	return nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students  map[int64]*model.Student
	nextID    int64
	classes   *mockClassRepo
	createErr error
	updateErr error
}

func newMockStudentRepo(classes *mockClassRepo) *mockStudentRepo {
	m := &mockStudentRepo{students: make(map[int64]*model.Student), nextID: 1, classes: classes}
	classes.students = m
	return m
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	student.ID = m.nextID
	m.nextID++
	student.CreatedAt = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	cp := *student
	cp.Class = nil
	m.students[student.ID] = &cp
	return nil
}

func (m *mockStudentRepo) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	cp.Class, _ = m.classes.GetByID(ctx, s.ClassID)
	return &cp, nil
}

func (m *mockStudentRepo) List(ctx context.Context, filter repository.StudentFilter) ([]model.Student, error) {
	var result []model.Student
	for id := range m.students {
		s, _ := m.GetByID(ctx, id)
		if len(filter.ClassIDs) > 0 && !containsID(filter.ClassIDs, s.ClassID) {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockStudentRepo) ExistsByUID(_ context.Context, uid string, excludeID int64) (bool, error) {
	for _, s := range m.students {
		if s.UID == uid && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) ExistsByAdmissionNo(_ context.Context, admissionNo string) (bool, error) {
	for _, s := range m.students {
		if s.AdmissionNo == admissionNo {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Update(_ context.Context, id int64, fields map[string]interface{}) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	s, ok := m.students[id]
	if !ok {
		return nil
	}
	for col, v := range fields {
		switch col {
		case "uid":
			s.UID = v.(string)
		case "name":
			s.Name = v.(string)
		case "roll":
			s.Roll = v.(string)
		case "phone":
			s.Phone = v.(string)
		case "class_id":
			s.ClassID = v.(int64)
		case "photo":
			p := v.(string)
			s.Photo = &p
		case "dob":
			s.DOB = v.(*time.Time)
		}
	}
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id int64) error {
	delete(m.students, id)
	return nil
}

// ── Mock TimetableRepository ──

type mockTimetableRepo struct {
	periods  map[int64]*model.TimetablePeriod
	nextID   int64
	classes  *mockClassRepo
	subjects *mockSubjectRepo
	teachers *mockTeacherRepo
}

func newMockTimetableRepo(classes *mockClassRepo, subjects *mockSubjectRepo, teachers *mockTeacherRepo) *mockTimetableRepo {
	m := &mockTimetableRepo{
		periods:  make(map[int64]*model.TimetablePeriod),
		nextID:   1,
		classes:  classes,
		subjects: subjects,
		teachers: teachers,
	}
	classes.periods = m
	return m
}

func (m *mockTimetableRepo) Create(_ context.Context, period *model.TimetablePeriod) error {
	period.ID = m.nextID
	m.nextID++
	cp := *period
	m.periods[period.ID] = &cp
	return nil
}

func (m *mockTimetableRepo) GetByID(ctx context.Context, id int64) (*model.TimetablePeriod, error) {
	p, ok := m.periods[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	cp.Class, _ = m.classes.GetByID(ctx, p.ClassID)
	cp.Subject, cp.Teacher = nil, nil
	if p.SubjectID != nil {
		cp.Subject, _ = m.subjects.GetByID(ctx, *p.SubjectID)
	}
	if p.TeacherID != nil {
		cp.Teacher, _ = m.teachers.GetByID(ctx, *p.TeacherID)
	}
	return &cp, nil
}

func (m *mockTimetableRepo) ListByClass(ctx context.Context, classID int64) ([]model.TimetablePeriod, error) {
	var result []model.TimetablePeriod
	for id, p := range m.periods {
		if p.ClassID == classID {
			full, _ := m.GetByID(ctx, id)
			result = append(result, *full)
		}
	}
	sortPeriodsByDayOrder(result)
	return result, nil
}

// sortPeriodsByDayOrder 与 DayOrderSQL + start_time 的排序一致：未知星期排在最后，ID 兜底保证稳定
func sortPeriodsByDayOrder(periods []model.TimetablePeriod) {
	rank := func(day string) int {
		if i := model.WeekdayIndex(day); i >= 0 {
			return i
		}
		return len(model.Weekdays)
	}
	sort.Slice(periods, func(i, j int) bool {
		a, b := periods[i], periods[j]
		if ra, rb := rank(a.Day), rank(b.Day); ra != rb {
			return ra < rb
		}
		if sa, sb := model.NormalizeClock(a.StartTime), model.NormalizeClock(b.StartTime); sa != sb {
			return sa < sb
		}
		return a.ID < b.ID
	})
}

func (m *mockTimetableRepo) ListByClassAndDay(ctx context.Context, classID int64, day string) ([]model.TimetablePeriod, error) {
	all, _ := m.ListByClass(ctx, classID)
	var result []model.TimetablePeriod
	for _, p := range all {
		if p.Day == day {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockTimetableRepo) Update(_ context.Context, period *model.TimetablePeriod) error {
	cp := *period
	m.periods[period.ID] = &cp
	return nil
}

func (m *mockTimetableRepo) Delete(_ context.Context, id int64) error {
	delete(m.periods, id)
	return nil
}

// ── Mock LocationRepository ──

type mockLocationRepo struct {
	locations []model.Location
}

func newMockLocationRepo() *mockLocationRepo {
	return &mockLocationRepo{}
}

func (m *mockLocationRepo) distinct(pick func(model.Location) (string, bool)) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range m.locations {
		v, ok := pick(l)
		if ok && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func (m *mockLocationRepo) ListDistricts(_ context.Context) ([]string, error) {
	return m.distinct(func(l model.Location) (string, bool) { return l.District, true }), nil
}

func (m *mockLocationRepo) ListBlocks(_ context.Context, district string) ([]string, error) {
	return m.distinct(func(l model.Location) (string, bool) { return l.Block, l.District == district }), nil
}

func (m *mockLocationRepo) ListVillages(_ context.Context, district, block string) ([]string, error) {
	return m.distinct(func(l model.Location) (string, bool) {
		return l.Village, l.District == district && l.Block == block
	}), nil
}

func (m *mockLocationRepo) BatchInsert(_ context.Context, locations []model.Location) (int64, error) {
	var n int64
	for _, l := range locations {
		dup := false
		for _, e := range m.locations {
			if e.District == l.District && e.Block == l.Block && e.Village == l.Village {
				dup = true
				break
			}
		}
		if !dup {
			m.locations = append(m.locations, l)
			n++
		}
	}
	return n, nil
}

// ── Mock FileStorage ──

type mockFileStorage struct {
	files   map[string]bool // 对外路径 → 是否存在
	mtime   map[string]time.Time
	clock   time.Time // 零值时使用当前时间
	deleted []string
	seq     int
	saveErr error
}

func newMockFileStorage() *mockFileStorage {
	return &mockFileStorage{files: make(map[string]bool), mtime: make(map[string]time.Time)}
}

func (m *mockFileStorage) now() time.Time {
	if m.clock.IsZero() {
		return time.Now()
	}
	return m.clock
}

func (m *mockFileStorage) SaveImage(subDir string, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", nil
	}
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.seq++
	p := fmt.Sprintf("/uploads/%s/%d-%s", subDir, m.seq, fh.Filename)
	m.files[p] = true
	m.mtime[p] = m.now()
	return p, nil
}

func (m *mockFileStorage) Move(stored, subDir string) (string, error) {
	if !m.files[stored] {
		return "", storage.ErrInvalidPath
	}
	delete(m.files, stored)
	p := "/uploads/" + subDir + "/" + stored[strings.LastIndex(stored, "/")+1:]
	m.files[p] = true
	m.mtime[p] = m.mtime[stored]
	delete(m.mtime, stored)
	return p, nil
}

func (m *mockFileStorage) Delete(stored string) error {
	m.deleted = append(m.deleted, stored)
	delete(m.files, stored)
	delete(m.mtime, stored)
	return nil
}

func (m *mockFileStorage) Touch(stored string) error {
	if !m.files[stored] {
		return storage.ErrInvalidPath
	}
	m.mtime[stored] = m.now()
	return nil
}

func (m *mockFileStorage) PruneOlderThan(subDir string, cutoff time.Time) (int, error) {
	prefix := "/uploads/" + subDir + "/"
	n := 0
	for p := range m.files {
		if strings.HasPrefix(p, prefix) && m.mtime[p].Before(cutoff) {
			delete(m.files, p)
			delete(m.mtime, p)
			n++
		}
	}
	return n, nil
}

// ── 测试环境 ──

type testEnv struct {
	repo      *repository.Repository
	cfg       *config.Config
	files     *mockFileStorage
	schools   *mockSchoolRepo
	classes   *mockClassRepo
	teachers  *mockTeacherRepo
	subjects  *mockSubjectRepo
	students  *mockStudentRepo
	timetable *mockTimetableRepo
	locations *mockLocationRepo
}

func newTestEnv() *testEnv {
	classes := newMockClassRepo()
	teachers := newMockTeacherRepo()
	subjects := newMockSubjectRepo(classes)
	students := newMockStudentRepo(classes)
	timetable := newMockTimetableRepo(classes, subjects, teachers)
	env := &testEnv{
		cfg: &config.Config{
			Server:    config.ServerConfig{BaseURL: "http://localhost:5000"},
			School:    config.SchoolConfig{DefaultName: "Elite Knowledge School", Timezone: "Asia/Kolkata"},
			Admission: config.AdmissionConfig{DraftTTL: time.Hour},
			Feature:   config.FeatureConfig{EnforceUniqueAdmissionNo: true},
		},
		files:     newMockFileStorage(),
		schools:   newMockSchoolRepo(),
		classes:   classes,
		teachers:  teachers,
		subjects:  subjects,
		students:  students,
		timetable: timetable,
		locations: newMockLocationRepo(),
	}
	env.repo = &repository.Repository{
		School:    env.schools,
		Class:     classes,
		Teacher:   teachers,
		Subject:   subjects,
		Student:   students,
		Timetable: timetable,
		Location:  env.locations,
		Draft:     repository.NewMemoryDraftRepo(time.Hour),
	}
	return env
}

var testLogger = zap.NewNop()

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func fileHeader(name string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: 128}
}
