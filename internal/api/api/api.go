package api

import (
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"

	"eventdesk/cmd/middleware"
	"eventdesk/internal/service"
)

type Routers struct {
	Service service.Service
	Auth    *middleware.Authenticator
	Limiter *middleware.RateLimiter
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	limited := r.Limiter.Middleware()

	public := app.Group("/v1", r.Auth.Optional())
	public.GET("/modules/templates", r.Service.ModuleTemplates)
	public.POST("/drafts/validate", r.Service.ValidateDraft)
	public.GET("/events", r.Service.ListEvents)
	public.GET("/events/:id", r.Service.GetEvent)

	private := app.Group("/v1", r.Auth.Required())

	drafts := private.Group("/drafts")
	drafts.POST("", r.Service.CreateDraft)
	drafts.GET("/:id", r.Service.GetDraft)
	drafts.PUT("/:id", r.Service.UpdateDraft)
	drafts.DELETE("/:id", r.Service.DeleteDraft)
	drafts.POST("/:id/submit", limited, r.Service.SubmitDraft)

	drafts.POST("/:id/modules", r.Service.AddModule)
	drafts.POST("/:id/modules/custom", r.Service.AddCustomModule)
	drafts.PATCH("/:id/modules/:mid", r.Service.UpdateModule)
	drafts.DELETE("/:id/modules/:mid", r.Service.RemoveModule)
	drafts.POST("/:id/modules/:mid/fields", r.Service.AddField)
	drafts.PATCH("/:id/modules/:mid/fields/:idx", r.Service.UpdateField)
	drafts.DELETE("/:id/modules/:mid/fields/:idx", r.Service.RemoveField)

	private.POST("/events", limited, r.Service.CreateEvent)
	private.DELETE("/events/:id", r.Service.DeleteEvent)
	private.POST("/events/:id/register", limited, r.Service.Register)
	private.GET("/events/:id/registration", r.Service.GetMyRegistration)
	private.GET("/organizer/events", r.Service.ListOrganizerEvents)
	private.GET("/registrations", r.Service.ListRegistrations)

	return app
}
