package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/handler"
)

// Setup 配置 Gin 引擎和路由
func Setup(api *handler.API, sessionSecret, uploadDir, uploadURLPath string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("inklog_session", store))

	r.LoadHTMLGlob("web/template/*.html")

	// 静态文件服务
	r.Static("/static", "./web/static")
	if uploadDir != "" && uploadURLPath != "" {
		r.Static(uploadURLPath, uploadDir)
	}

	// 公开路由
	r.GET("/", api.ShowHome)
	r.GET("/add_user", api.ShowSignup)
	r.POST("/add_user", api.Register)
	r.GET("/check-username", api.CheckUsername)
	r.GET("/check-email", api.CheckEmail)
	r.GET("/login", api.ShowLogin)
	r.POST("/login", api.Login)
	r.POST("/logout", api.Logout)
	r.GET("/session-info", api.SessionInfo)
	r.GET("/reader", api.ShowReader)
	r.GET("/profile/article/:articleId", api.ShowArticle)

	// 需要认证的路由
	auth := r.Group("")
	auth.Use(handler.AuthRequired())
	{
		auth.GET("/profile", api.ShowProfile)
		auth.GET("/profile/settings", api.ShowSettings)
		auth.POST("/profile/settings", api.UpdateSettings)
		auth.POST("/profile/settings/icon", api.UploadIcon)
		auth.GET("/profile/check-password", api.CheckPassword)
		auth.GET("/profile/new_article", api.ShowNewArticle)
		auth.POST("/profile/new_article", api.CreateArticle)
		auth.POST("/profile/article/publish/:articleId", api.PublishArticle)
		auth.DELETE("/profile/article/:id", api.DeleteArticle)
		auth.GET("/profile/article/edit/:articleId", api.ShowEditArticle)
		auth.POST("/profile/article/edit/:articleId", api.EditArticle)
		auth.POST("/profile/article/:articleId/comment", api.AddComment)
		auth.POST("/article/like/:articleId", api.LikeArticle)
	}

	return r
}
