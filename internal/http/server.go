package httpapi

import (
	"net/http"
	"time"

	"videoadmin-backend-go/internal/config"
	"videoadmin-backend-go/internal/services"
	"videoadmin-backend-go/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

type Server struct {
	Store       *store.Store
	Config      config.Config
	Logger      *zap.Logger
	MetricsHub  *services.MetricsHub
	MetricsRing *services.MetricsRing
	startedAt   time.Time
}

func NewServer(st *store.Store, cfg config.Config, logger *zap.Logger, hub *services.MetricsHub, ring *services.MetricsRing) *Server {
	return &Server{
		Store:       st,
		Config:      cfg,
		Logger:      logger,
		MetricsHub:  hub,
		MetricsRing: ring,
		startedAt:   time.Now(),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(s.Logger))
	r.Use(Recovery(s.Logger))
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(api chi.Router) {
		api.With(httprate.LimitByIP(s.Config.LoginRatePerMinute, time.Minute)).
			Post("/auth/login", s.Login)

		api.Group(func(priv chi.Router) {
			priv.Use(WithAuth(s.Store))
			priv.Post("/auth/logout", s.Logout)

			priv.Route("/settings", func(settings chi.Router) {
				settings.Get("/", s.GetSettings)
				settings.Put("/", s.UpdateSettings)
				settings.Get("/system-info", s.SystemInfo)
				settings.Post("/backup", s.CreateBackup)
				settings.Get("/backups", s.ListBackups)
				settings.Post("/restore/{backupId}", s.RestoreBackup)
				settings.Delete("/backup/{backupId}", s.DeleteBackup)
			})

			priv.Route("/email-templates", func(templates chi.Router) {
				templates.Get("/", s.ListEmailTemplates)
				templates.Post("/", s.CreateEmailTemplate)
				templates.Get("/{templateId}", s.GetEmailTemplate)
				templates.Put("/{templateId}", s.UpdateEmailTemplate)
				templates.Delete("/{templateId}", s.DeleteEmailTemplate)
			})

			priv.Route("/viewing-records", func(records chi.Router) {
				records.Get("/", s.ListViewingRecords)
				records.Get("/export", s.ExportViewingRecords)
				records.Get("/stats", s.ViewingRecordStats)
				records.Get("/{recordId}", s.GetViewingRecord)
			})

			priv.Route("/system-logs", func(logs chi.Router) {
				logs.Get("/", s.ListSystemLogs)
				logs.Get("/stats", s.SystemLogStats)
				logs.Get("/levels", s.SystemLogLevels)
				logs.Get("/types", s.SystemLogTypes)
				logs.Post("/delete-multiple", s.DeleteSystemLogs)
				logs.Post("/clear", s.ClearSystemLogs)
				logs.Get("/{logId}", s.GetSystemLog)
				logs.Delete("/{logId}", s.DeleteSystemLog)
			})

			priv.Route("/analytics", func(analytics chi.Router) {
				analytics.Get("/overview", s.AnalyticsOverview)
				analytics.Get("/trends", s.AnalyticsTrends)
				analytics.Get("/categories", s.AnalyticsCategories)
				analytics.Get("/popular", s.AnalyticsPopular)
				analytics.Get("/activity", s.AnalyticsActivity)
				analytics.Get("/range", s.AnalyticsRange)
				analytics.Get("/users/{userId}", s.AnalyticsUser)
				analytics.Get("/videos/{videoId}", s.AnalyticsVideo)
			})

			priv.Patch("/users/{userId}/status", s.UpdateUserStatus)
			priv.Patch("/users/{userId}/role", s.UpdateUserRole)
			priv.Post("/users/{userId}/reset-password", s.ResetUserPassword)

			priv.Get("/system-metrics/history", s.MetricsHistory)

			// Everything else falls through to the flat-file router.
			priv.Route("/{resource}", func(resource chi.Router) {
				resource.Get("/", s.ListResource)
				resource.Post("/", s.CreateResource)
				resource.Get("/{id}", s.GetResource)
				resource.Put("/{id}", s.UpdateResource)
				resource.Patch("/{id}", s.UpdateResource)
				resource.Delete("/{id}", s.DeleteResource)
			})
		})
	})

	r.Get("/ws/system", s.SystemSocket)
	return r
}
