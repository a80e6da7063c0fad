package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tutorhive/internal/domain/user"
	"tutorhive/internal/handler/api"
	"tutorhive/internal/handler/middleware"
	"tutorhive/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	slotHandler *api.SlotHandler,
	tutorHandler *api.TutorHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, slotHandler, tutorHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.NewLogger(cfg.Log).LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	slotHandler *api.SlotHandler,
	tutorHandler *api.TutorHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: authHandler.Register},
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: authHandler.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		tutors := apiGroup.Group("/tutors")
		{
			// Resolution and the slot list serve the public marketplace
			// page, so no auth is required.
			addRoutes(tutors, []route{
				{Method: http.MethodGet, Path: "/resolve/:externalUid", Handler: tutorHandler.ResolveTutorID},
				{Method: http.MethodGet, Path: "/:id/slots", Handler: slotHandler.ListTutorSlots},
			})
		}

		slots := apiGroup.Group("/slots")
		{
			addRoutes(slots, []route{
				{Method: http.MethodGet, Path: "/available", Handler: slotHandler.ListAvailableSlots},
			})

			mutation := slots.Group("")
			mutation.Use(authMiddleware.RequireAuth())
			addRoutes(mutation, []route{
				{
					Method: http.MethodPost, Path: "", Handler: slotHandler.CreateSlot,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleTutor, user.RoleAdmin)},
				},
				{
					Method: http.MethodPatch, Path: "/:id", Handler: slotHandler.RescheduleSlot,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleTutor, user.RoleAdmin)},
				},
				{
					Method: http.MethodDelete, Path: "/:id", Handler: slotHandler.DeleteSlot,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleTutor, user.RoleAdmin)},
				},
				{
					Method: http.MethodPost, Path: "/:id/book", Handler: slotHandler.BookSlot,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleStudent)},
				},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
