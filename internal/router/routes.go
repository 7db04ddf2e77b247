package router

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/nccmultimedia/attendance-server/internal/attendance"
	"github.com/nccmultimedia/attendance-server/internal/auth"
	"github.com/nccmultimedia/attendance-server/internal/config"
	"github.com/nccmultimedia/attendance-server/internal/identity"
	"github.com/nccmultimedia/attendance-server/internal/live"
	"github.com/nccmultimedia/attendance-server/internal/member"
	"github.com/nccmultimedia/attendance-server/internal/meta"
	"github.com/nccmultimedia/attendance-server/internal/metrics"
	"github.com/nccmultimedia/attendance-server/internal/model"
	"github.com/nccmultimedia/attendance-server/internal/notify"
	"github.com/nccmultimedia/attendance-server/internal/registration"
	"github.com/nccmultimedia/attendance-server/internal/report"
	"github.com/nccmultimedia/attendance-server/internal/scan"
	"github.com/nccmultimedia/attendance-server/internal/shared/clock"
	"github.com/nccmultimedia/attendance-server/internal/shared/database"
	"github.com/nccmultimedia/attendance-server/internal/shared/middleware"
	"github.com/nccmultimedia/attendance-server/internal/shared/token"
)

// LiveFeedPath is served without the request timeout.
const LiveFeedPath = "/ws/scans"

// Components are the long-lived parts the routes are bound to. The caller
// owns their lifecycle.
type Components struct {
	Scanner   *scan.Controller
	Refresher *report.Refresher
	Notifier  *notify.Notifier
	Hub       *live.Hub
}

// Setup configures all application-specific routes using dependency
// injection. Background work started later by Components runs under ctx.
func Setup(ctx context.Context, router *gin.Engine, cfg *config.Config, db *database.DB, m *metrics.Registry) *Components {
	clk := clock.NewSystem(cfg.Location())
	registerURL := registration.RegisterURL(cfg.App.PublicBaseURL, cfg.App.Port)

	// repository
	memberRepository := member.NewMemberRepository()
	attendanceRepository := attendance.NewAttendanceRepository()
	credentialRepository := auth.NewCredentialRepository()

	// shared services
	tokenManager := token.NewJWTManager(cfg)
	hub := live.NewHub(slog.Default().With("component", "live"))
	mailer := notify.NewPostmarkClient(cfg.Notify.PostmarkToken, cfg.Notify.FromEmail)
	notifier := notify.NewNotifier(mailer, notify.Config{
		QRDir:       cfg.Notify.QRDir,
		QRSize:      cfg.Notify.QRSize,
		SendTimeout: cfg.Notify.SendTimeout,
	}, m)

	// service
	authService := auth.NewAuthService(db.DB, credentialRepository, tokenManager)
	memberService := member.NewMemberService(db.DB, memberRepository)
	resolver := identity.NewResolver(db.DB, memberRepository)
	attendanceService := attendance.NewAttendanceService(db.DB, attendanceRepository, memberRepository,
		clk, model.Event(cfg.Attendance.DefaultEvent), m)
	enrollmentService := registration.NewEnrollmentService(memberService, notifier, cfg.Notify.AdvisoryWait)
	exporter := report.NewExporter(attendanceService, cfg.Location())
	refresher := report.NewRefresher(attendanceService, clk, report.DashboardConfig{
		Interval:    cfg.Dashboard.RefreshInterval,
		TopN:        cfg.Dashboard.TopN,
		AbsentWeeks: cfg.Dashboard.AbsentWeeks,
	})

	loop := scan.NewLoop(
		scan.NewSource(cfg.Scanner.Source),
		scan.NewDeduplicator(cfg.Scanner.DedupWindow),
		resolver,
		attendanceService,
		clk,
		hub,
		m,
		scan.LoopConfig{
			Event:         model.Event(cfg.Attendance.DefaultEvent),
			EvictInterval: cfg.Scanner.EvictInterval,
			RegisterURL:   registerURL,
		},
	)
	scanner := scan.NewController(ctx, loop)

	// handler
	metaHandler := meta.NewHandler(cfg, db, scanner)
	authHandler := auth.NewAuthHandler(authService)
	memberHandler := member.NewMemberHandler(memberService)
	attendanceHandler := attendance.NewAttendanceHandler(attendanceService, resolver, cfg.Dashboard.AbsentWeeks)
	registrationHandler := registration.NewRegistrationHandler(enrollmentService, cfg.Notify.QRDir)
	reportHandler := report.NewReportHandler(exporter, refresher)
	scannerHandler := scan.NewScannerHandler(scanner)

	// public
	router.GET("/health", metaHandler.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.GET("/register", registrationHandler.Form)
	router.POST("/register", registrationHandler.SubmitForm)
	router.GET("/qr/:filename", registrationHandler.QR)
	router.GET(LiveFeedPath, live.Handler(hub, cfg.CORS.AllowedOrigins))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/register", registrationHandler.Enroll)
		v1.POST("/auth/login", authHandler.Login)
	}

	admin := v1.Group("/admin")
	admin.Use(middleware.JWT(tokenManager))
	{
		admin.GET("/me", authHandler.Me)
		admin.PUT("/password", authHandler.ChangePassword)

		admin.GET("/members", memberHandler.List)
		admin.POST("/members", registrationHandler.Enroll)
		admin.GET("/members/:id", memberHandler.Get)
		admin.PUT("/members/:id", memberHandler.Update)
		admin.DELETE("/members/:id", memberHandler.Deactivate)

		admin.POST("/attendance/checkin", attendanceHandler.CheckIn)
		admin.POST("/attendance/checkout", attendanceHandler.CheckOut)
		admin.POST("/attendance/toggle", attendanceHandler.Toggle)
		admin.GET("/attendance/today", attendanceHandler.Today)
		admin.GET("/attendance/history", attendanceHandler.History)
		admin.GET("/attendance/counts", attendanceHandler.Counts)
		admin.GET("/attendance/absent", attendanceHandler.Absent)

		admin.GET("/dashboard", reportHandler.Dashboard)
		admin.GET("/export/attendance.csv", reportHandler.CSV)
		admin.GET("/export/attendance.xlsx", reportHandler.XLSX)

		admin.GET("/scanner", scannerHandler.Status)
		admin.POST("/scanner/start", scannerHandler.Start)
		admin.POST("/scanner/stop", scannerHandler.Stop)
		admin.POST("/scanner/scan", scannerHandler.Submit)
	}

	return &Components{
		Scanner:   scanner,
		Refresher: refresher,
		Notifier:  notifier,
		Hub:       hub,
	}
}
