package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/service"
)

// Session keys. The session doubles as a cache of profile fields; every
// write to the user or profile must refresh it through setSessionAccount.
const (
	sessionKeyAuthenticated = "authenticated"
	sessionKeyUserID        = "user_id"
	sessionKeyUsername      = "username"
	sessionKeyDisplayName   = "display_name"
	sessionKeyBlogTitle     = "blog_title"
	sessionKeyBio           = "bio"
	sessionKeyIntroduction  = "introduction"
	sessionKeyIcon          = "icon"
)

// AuthRequired 是一个简单的认证中间件，未登录时重定向到登录页
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		authenticated, _ := session.Get(sessionKeyAuthenticated).(bool)
		if !authenticated {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func setSessionAccount(c *gin.Context, account *service.Account) error {
	session := sessions.Default(c)
	session.Set(sessionKeyAuthenticated, true)
	session.Set(sessionKeyUserID, account.User.ID)
	session.Set(sessionKeyUsername, account.User.Username)
	session.Set(sessionKeyDisplayName, account.Profile.DisplayName)
	session.Set(sessionKeyBlogTitle, account.Profile.BlogTitle)
	session.Set(sessionKeyBio, account.Profile.Bio)
	session.Set(sessionKeyIntroduction, account.Profile.Introduction)
	session.Set(sessionKeyIcon, account.Profile.Icon)
	return session.Save()
}

func currentUserID(c *gin.Context) (uint, bool) {
	id, ok := sessions.Default(c).Get(sessionKeyUserID).(uint)
	return id, ok
}

func currentUsername(c *gin.Context) string {
	username, _ := sessions.Default(c).Get(sessionKeyUsername).(string)
	return username
}

func sessionString(c *gin.Context, key string) string {
	value, _ := sessions.Default(c).Get(key).(string)
	return value
}
