package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/hertz-contrib/jwt"

	"ViewTube.com/cmd/api/handlers"
	"ViewTube.com/pkg/constants"
	"ViewTube.com/pkg/limiter"
)

// Register 注册全部路由。互动写入和级联删除额外经过 sentinel 限流
func Register(r *server.Hertz, h *handlers.Handlers, auth *jwt.HertzJWTMiddleware) {
	r.GET("/health", h.Health)

	authGroup := r.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", auth.LoginHandler)
	authGroup.GET("/refresh", auth.RefreshHandler)
	authGroup.DELETE("/delete", auth.MiddlewareFunc(), limiter.Middleware(constants.CascadeResource), h.DeleteAccount)

	r.GET("/channels/:id", h.GetChannel)
	r.GET("/channels/:id/videos", h.ListChannelVideos)
	r.GET("/videos/:id", h.GetVideo)
	r.GET("/videos/:id/comments", h.ListComments)

	api := r.Group("/", auth.MiddlewareFunc())

	api.GET("/users/me", h.GetMe)
	api.PUT("/users/me", h.UpdateMe)

	engagement := api.Group("/", limiter.Middleware(constants.EngagementResource))
	engagement.POST("/likes", h.Like)
	engagement.POST("/dislikes", h.Dislike)
	engagement.POST("/subscribe", h.Subscribe)
	engagement.POST("/watchhistory", h.UpsertWatchHistory)
	engagement.DELETE("/watchhistory", h.RemoveWatchHistory)
	engagement.POST("/watchlater", h.ToggleWatchLater)
	engagement.DELETE("/watchlater", h.RemoveWatchLater)

	api.POST("/channels", h.CreateChannel)
	api.PUT("/channels/:id", h.UpdateChannel)
	api.DELETE("/channels/:id", limiter.Middleware(constants.CascadeResource), h.DeleteChannel)

	api.POST("/videos", h.CreateVideo)
	api.PUT("/videos/:id", h.UpdateVideo)
	api.DELETE("/videos/:id", h.DeleteVideo)
	api.POST("/videos/:id/comments", h.CreateComment)
	api.DELETE("/comments/:id", h.DeleteComment)
}
