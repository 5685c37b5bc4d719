package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mamunbiswass/school-management/config"
	"github.com/mamunbiswass/school-management/internal/api/handler"
	"github.com/mamunbiswass/school-management/internal/api/middleware"
	"github.com/mamunbiswass/school-management/internal/api/validator"
	"github.com/mamunbiswass/school-management/internal/service"
	"github.com/mamunbiswass/school-management/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时限流中间件直接放行
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	if err := validator.Register(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.Storage.MaxPhotoBytes

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger, cfg.Storage.PublicPrefix))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "degraded"
		}
		c.JSON(200, gin.H{"status": status, "redis": rdb != nil})
	})

	// ── 上传文件 ──
	r.Static(cfg.Storage.PublicPrefix, cfg.Storage.UploadDir)

	// 写接口限流：每 IP 每路由每分钟 30 次
	writeLimit := middleware.RateLimit(rdb, 30, time.Minute)
	// UID 查重在输入时触发，放宽到每分钟 120 次
	uidLimit := middleware.RateLimit(rdb, 120, time.Minute)

	api := r.Group("/api")
	{
		// 学校信息
		school := api.Group("/school")
		{
			school.GET("", h.School.GetSchool)
			school.POST("", writeLimit, h.School.CreateSchool)
			school.PUT("/:id", writeLimit, h.School.UpdateSchool)
		}

		// 班级
		classes := api.Group("/classes")
		{
			classes.GET("", h.Class.ListClasses)
			classes.GET("/sections", h.Class.ListSections)
			classes.GET("/:id", h.Class.GetClass)
			classes.POST("", writeLimit, h.Class.CreateClass)
			classes.PUT("/:id", writeLimit, h.Class.UpdateClass)
			classes.DELETE("/:id", writeLimit, h.Class.DeleteClass)
		}

		// 教师
		teachers := api.Group("/teachers")
		{
			teachers.GET("", h.Teacher.ListTeachers)
			teachers.GET("/:id", h.Teacher.GetTeacher)
			teachers.POST("", writeLimit, h.Teacher.CreateTeacher)
			teachers.PUT("/:id", writeLimit, h.Teacher.UpdateTeacher)
			teachers.DELETE("/:id", writeLimit, h.Teacher.DeleteTeacher)
		}

		// 科目
		subjects := api.Group("/subjects")
		{
			subjects.GET("", h.Subject.ListSubjects)
			subjects.GET("/:id", h.Subject.GetSubject)
			subjects.POST("", writeLimit, h.Subject.CreateSubject)
			subjects.PUT("/:id", writeLimit, h.Subject.UpdateSubject)
			subjects.DELETE("/:id", writeLimit, h.Subject.DeleteSubject)
		}

		// 学生
		students := api.Group("/students")
		{
			students.GET("", h.Student.ListStudents)
			students.GET("/check/:uid", uidLimit, h.Student.CheckUID)
			students.GET("/check-uid", uidLimit, h.Student.CheckUID)
			students.GET("/:id", h.Student.GetStudent)
			students.POST("", writeLimit, h.Student.CreateStudent)
			students.PUT("/:id", writeLimit, h.Student.UpdateStudent)
			students.DELETE("/:id", writeLimit, h.Student.DeleteStudent)
			students.GET("/:id/documents/:kind", h.Document.RenderStudent)
		}

		// 入学向导
		drafts := api.Group("/admissions/drafts")
		{
			drafts.POST("", writeLimit, h.Admission.CreateDraft)
			drafts.GET("/:id", h.Admission.GetDraft)
			drafts.PATCH("/:id/fields", uidLimit, h.Admission.ChangeFields)
			drafts.POST("/:id/photo", writeLimit, h.Admission.AttachPhoto)
			drafts.POST("/:id/next", h.Admission.Next)
			drafts.POST("/:id/back", h.Admission.Back)
			drafts.POST("/:id/qr", h.Admission.ScanQR)
			drafts.POST("/:id/submit", writeLimit, h.Admission.Submit)
			drafts.DELETE("/:id", h.Admission.Discard)
		}

		// 课表
		timetable := api.Group("/timetable")
		{
			timetable.GET("/:className/:section", h.Timetable.GetPeriods)
			timetable.GET("/:className/:section/export", h.Export.ExportTimetable)
			timetable.GET("/:className/:section/export.xlsx", h.Export.ExportTimetableAs(service.ExportFormatXLSX))
			timetable.GET("/:className/:section/export.ics", h.Export.ExportTimetableAs(service.ExportFormatICS))
			timetable.POST("", writeLimit, h.Timetable.AddPeriod)
			timetable.PUT("/:id", writeLimit, h.Timetable.UpdatePeriod)
			timetable.DELETE("/:id", writeLimit, h.Timetable.DeletePeriod)
		}

		// 行政区划
		location := api.Group("/location")
		{
			location.GET("/districts", h.Location.ListDistricts)
			location.GET("/blocks", h.Location.ListBlocks)
			location.GET("/villages", h.Location.ListVillages)
			location.POST("/import", writeLimit, h.Location.ImportLocations)
		}

		// 文档与导出
		api.GET("/documents/id-cards", h.Document.RenderAllIDCards)
		api.GET("/export/students", h.Export.ExportStudents)
	}

	return r, nil
}
