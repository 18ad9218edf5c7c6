package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/service"
)

// ShowSignup 渲染注册页面
func (a *API) ShowSignup(c *gin.Context) {
	c.HTML(http.StatusOK, "add_user.html", gin.H{"title": "Add User"})
}

// Register handles the signup form. On success the visitor is sent to the
// login page; registration does not authenticate.
func (a *API) Register(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	if _, err := a.accounts.Register(username, email, password); err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			c.String(http.StatusBadRequest, "Username already exists")
		case errors.Is(err, service.ErrEmailTaken):
			c.String(http.StatusBadRequest, "Email already exists")
		case errors.Is(err, service.ErrInvalidAccountInput):
			c.String(http.StatusBadRequest, err.Error())
		default:
			log.Printf("register %q: %v", username, err)
			c.String(http.StatusInternalServerError, "Error inserting user")
		}
		return
	}

	c.Redirect(http.StatusFound, "/login")
}

// CheckUsername 检查用户名是否已被占用，供表单实时校验
func (a *API) CheckUsername(c *gin.Context) {
	exists, err := a.accounts.UsernameExists(c.Query("username"))
	if err != nil {
		log.Printf("check username: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"exists": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// CheckEmail 检查邮箱是否已被占用，供表单实时校验
func (a *API) CheckEmail(c *gin.Context) {
	exists, err := a.accounts.EmailExists(c.Query("email"))
	if err != nil {
		log.Printf("check email: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"exists": false, "error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// ShowLogin 渲染登录页面
func (a *API) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"title": "Login", "errorMessage": nil})
}

// Login verifies credentials and populates the session cache.
func (a *API) Login(c *gin.Context) {
	usernameOrEmail := c.PostForm("usernameOrEmail")
	password := c.PostForm("password")

	account, err := a.accounts.Authenticate(usernameOrEmail, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.HTML(http.StatusUnauthorized, "login.html", gin.H{
				"title":        "Login",
				"errorMessage": "Invalid username/email or password",
			})
			return
		}
		log.Printf("login %q: %v", usernameOrEmail, err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"title":        "Login",
			"errorMessage": "Database error",
		})
		return
	}

	if err := setSessionAccount(c, account); err != nil {
		log.Printf("save session: %v", err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"title":        "Login",
			"errorMessage": "Session error",
		})
		return
	}

	c.Redirect(http.StatusFound, "/profile")
}

// Logout destroys the session and sends the visitor back to login.
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		log.Printf("clear session: %v", err)
		c.String(http.StatusInternalServerError, "Logout error")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

// SessionInfo dumps the session cache as JSON. Debug endpoint.
func (a *API) SessionInfo(c *gin.Context) {
	session := sessions.Default(c)
	authenticated, _ := session.Get(sessionKeyAuthenticated).(bool)
	userID, _ := session.Get(sessionKeyUserID).(uint)

	c.JSON(http.StatusOK, gin.H{
		"authenticated": authenticated,
		"userId":        userID,
		"username":      sessionString(c, sessionKeyUsername),
		"displayName":   sessionString(c, sessionKeyDisplayName),
		"blogTitle":     sessionString(c, sessionKeyBlogTitle),
		"bio":           sessionString(c, sessionKeyBio),
		"introduction":  sessionString(c, sessionKeyIntroduction),
		"icon":          sessionString(c, sessionKeyIcon),
	})
}
