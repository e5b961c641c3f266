package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ispkai/docrepo-api/internal/middleware"
	"github.com/ispkai/docrepo-api/internal/models"
	"github.com/ispkai/docrepo-api/internal/repository"
	"github.com/ispkai/docrepo-api/internal/service"
	"github.com/ispkai/docrepo-api/pkg/config"
)

// Router bundles every handler plus the middleware dependencies needed to
// register the full route table.
type Router struct {
	Config    *config.Config
	Validator middleware.TokenValidator
	Metrics   *service.MetricsService
	AuditRepo *repository.UserRepository

	Auth       *AuthHandler
	Categories *CategoryHandler
	Documents  *DocumentHandler
	Uploads    *UploadHandler
	Viewer     *ViewerHandler
	Dashboard  *DashboardHandler
	Users      *UserHandler
	Reports    *ReportHandler
}

// Register attaches every route to the engine under the configured API prefix.
func (r *Router) Register(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if r.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(r.Metrics.Handler()))
	}

	api := engine.Group(r.Config.APIPrefix)
	api.Use(middleware.WithResponseMeta())

	auth := api.Group("/auth")
	{
		auth.POST("/login", r.Auth.Login)
		auth.POST("/refresh", r.Auth.Refresh)
		auth.POST("/logout", middleware.JWT(r.Validator), r.Auth.Logout)
		auth.POST("/change-password", middleware.JWT(r.Validator), r.Auth.ChangePassword)
		auth.GET("/me", middleware.JWT(r.Validator), r.Auth.Me)
	}

	// Public browsing: optional auth so view/download events can carry a
	// user id when the caller happens to be signed in.
	public := api.Group("")
	public.Use(middleware.OptionalJWT(r.Validator))
	{
		public.GET("/categories", r.Categories.List)
		public.GET("/categories/:id", r.Categories.Get)
		public.GET("/documents", r.Documents.List)
		public.GET("/documents/:id", r.Documents.Get)
		public.GET("/documents/:id/cover", r.Documents.CoverURL)
		public.GET("/documents/:id/view", r.Viewer.Resolve)
		public.GET("/documents/:id/download", r.Viewer.Download)
	}

	editor := api.Group("")
	editor.Use(middleware.JWT(r.Validator), middleware.RequireRoles(models.RoleAdmin, models.RoleEditor))
	{
		editor.POST("/documents", middleware.Audit(r.AuditRepo, models.AuditActionDocumentCreate, "documents"), r.Documents.Create)
		editor.PUT("/documents/:id", middleware.Audit(r.AuditRepo, models.AuditActionDocumentUpdate, "documents"), r.Documents.Update)
		editor.DELETE("/documents/:id", middleware.Audit(r.AuditRepo, models.AuditActionDocumentDelete, "documents"), r.Documents.Delete)
		editor.GET("/documents/:id/versions", r.Documents.Versions)
		editor.GET("/documents/:id/url", r.Documents.SignedURL)
		editor.POST("/uploads/documents", middleware.Audit(r.AuditRepo, models.AuditActionFileUpload, "uploads"), r.Uploads.UploadDocument)
		editor.POST("/uploads/covers", middleware.Audit(r.AuditRepo, models.AuditActionFileUpload, "uploads"), r.Uploads.UploadCover)
		editor.GET("/dashboard/editor", r.Dashboard.Editor)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(r.Validator), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/users", r.Users.List)
		admin.POST("/users", r.Users.Create)
		admin.GET("/users/:id", r.Users.Get)
		admin.PUT("/users/:id", r.Users.Update)
		admin.DELETE("/users/:id", r.Users.Delete)

		admin.POST("/categories", middleware.Audit(r.AuditRepo, models.AuditActionCategoryCreate, "categories"), r.Categories.Create)
		admin.PUT("/categories/:id", middleware.Audit(r.AuditRepo, models.AuditActionCategoryUpdate, "categories"), r.Categories.Update)
		admin.DELETE("/categories/:id", middleware.Audit(r.AuditRepo, models.AuditActionCategoryDelete, "categories"), r.Categories.Delete)

		if r.Config.Reports.Enabled {
			admin.GET("/reports/catalog", r.Reports.Catalog)
		}
	}

	dashboard := api.Group("/dashboard")
	dashboard.Use(middleware.JWT(r.Validator), middleware.RequireRoles(models.RoleAdmin))
	{
		dashboard.GET("/admin", r.Dashboard.Admin)
	}
}
