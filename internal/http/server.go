package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"

	"hosteldesk-backend-go/internal/config"
	"hosteldesk-backend-go/internal/mail"
	"hosteldesk-backend-go/internal/services"
	"hosteldesk-backend-go/internal/session"
)

type Server struct {
	DB          *sqlx.DB
	Config      config.Config
	Sessions    session.Store
	Mailer      mail.Mailer
	Credentials services.CredentialService
	ResetTokens services.ResetTokenService
	MetricsHub  *services.MetricsHub
}

func NewServer(db *sqlx.DB, cfg config.Config, sessions session.Store, mailer mail.Mailer, hub *services.MetricsHub) *Server {
	return &Server{
		DB:       db,
		Config:   cfg,
		Sessions: sessions,
		Mailer:   mailer,
		ResetTokens: services.ResetTokenService{
			Secret: []byte(cfg.SessionSecret),
			Issuer: "hosteldesk",
			TTL:    time.Duration(cfg.ResetTokenTTLSeconds) * time.Second,
		},
		MetricsHub: hub,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Post("/auth/admin/login", s.AdminLogin)
	r.Post("/auth/admin/logout", s.AdminLogout)

	r.Route("/admin", func(admin chi.Router) {
		admin.Use(s.RequireRole(session.RoleAdmin))
		admin.Get("/profile", s.AdminProfile)
		admin.Get("/analytics", s.AdminAnalytics)
		admin.Get("/metrics/history", s.MetricsHistory)

		admin.Get("/students", s.ListStudents)
		admin.Put("/student/{sid}", s.UpdateStudent)
		admin.Delete("/student/{sid}", s.DeleteStudent)

		admin.Get("/wardens", s.ListWardens)
		admin.Post("/warden", s.CreateWarden)
		admin.Put("/warden/{wid}", s.UpdateWarden)
		admin.Delete("/warden/{wid}", s.DeleteWarden)

		admin.Get("/complaints", s.AdminComplaints)
		admin.Get("/complaints/summary", s.ComplaintSummary)
		admin.Get("/complaints/overdue", s.OverdueComplaints)
		admin.Put("/complaint/{cid}/status", s.UpdateComplaintStatus)

		admin.Post("/admins", s.AddAdmin)
		admin.Put("/admins/me", s.UpdateAdminSelf)
	})

	r.Post("/auth/warden/signup", s.WardenSignup)
	r.Post("/auth/warden/login", s.WardenLogin)
	r.Post("/auth/warden/logout", s.WardenLogout)
	r.With(s.RequireRole(session.RoleWarden)).Get("/warden/profile", s.WardenProfile)

	r.Post("/userauth", s.RegisterStudentCredential)
	r.Post("/login", s.StudentLogin)
	r.Get("/logout", s.StudentLogout)
	r.Get("/session-check", s.SessionCheck)

	r.Get("/dashboard/{shid}", s.StudentDashboard)
	r.Post("/complaint/add", s.AddComplaint)
	r.Get("/fetch_complaint/{shid}", s.FetchComplaints)
	r.Post("/complaint/withdraw", s.WithdrawComplaint)
	r.Get("/analytics/student/complaint-trend/{shid}", s.ComplaintTrend)

	r.Post("/auth/forgot-password", s.ForgotPassword)
	r.Post("/auth/reset-password", s.ResetPassword)

	r.Get("/ws/metrics", s.MetricsSocket)
	return r
}
