package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/db"
	"github.com/inklog/internal/service"
)

// articleRow 是文章列表的展示行，日期已格式化为本地时间
type articleRow struct {
	ID            uint
	Title         string
	Status        string
	LikeCount     uint
	ReadCount     uint64
	CreatedDate   string
	ModifiedDate  string
	PublishedDate string
}

// ShowProfile renders the author's own article listing with sorting.
func (a *API) ShowProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	sortBy := c.DefaultQuery("sortBy", "publishedDate")
	sortOrder := c.DefaultQuery("sortOrder", "DESC")

	articles, err := a.articles.ListByAuthor(userID, sortBy, sortOrder)
	if err != nil {
		log.Printf("list articles for user %d: %v", userID, err)
		c.String(http.StatusInternalServerError, "Database error")
		return
	}

	account, err := a.accounts.Settings(userID)
	if err != nil {
		log.Printf("load profile for user %d: %v", userID, err)
		c.String(http.StatusInternalServerError, "Database error")
		return
	}

	c.HTML(http.StatusOK, "profile.html", gin.H{
		"title":        "Profile",
		"username":     account.User.Username,
		"displayName":  account.Profile.DisplayName,
		"blogTitle":    account.Profile.BlogTitle,
		"bio":          account.Profile.Bio,
		"introduction": account.Profile.Introduction,
		"icon":         account.Profile.Icon,
		"articles":     articleRows(articles),
		"sortBy":       sortBy,
		"sortOrder":    sortOrder,
	})
}

// ShowSettings renders the settings form pre-filled with current data.
func (a *API) ShowSettings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	account, err := a.accounts.Settings(userID)
	if err != nil {
		log.Printf("load settings for user %d: %v", userID, err)
		c.String(http.StatusInternalServerError, "Database error")
		return
	}

	c.HTML(http.StatusOK, "settings.html", gin.H{
		"title":        "Settings",
		"username":     account.User.Username,
		"email":        account.User.Email,
		"displayName":  account.Profile.DisplayName,
		"blogTitle":    account.Profile.BlogTitle,
		"bio":          account.Profile.Bio,
		"introduction": account.Profile.Introduction,
		"icon":         account.Profile.Icon,
	})
}

// UpdateSettings applies the settings form and refreshes the session cache
// in the same request, so later reads in this session stay consistent.
func (a *API) UpdateSettings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	input := service.SettingsInput{
		Username:     c.PostForm("username"),
		Email:        c.PostForm("email"),
		Password:     c.PostForm("password"),
		DisplayName:  c.PostForm("displayName"),
		BlogTitle:    c.PostForm("blogTitle"),
		Bio:          c.PostForm("bio"),
		Introduction: c.PostForm("introduction"),
		Icon:         c.PostForm("icon"),
	}

	account, err := a.accounts.UpdateSettings(userID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			c.String(http.StatusBadRequest, "Username already exists")
		case errors.Is(err, service.ErrEmailTaken):
			c.String(http.StatusBadRequest, "Email already exists")
		case errors.Is(err, service.ErrInvalidAccountInput):
			c.String(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			c.String(http.StatusBadRequest, "User not found")
		default:
			log.Printf("update settings for user %d: %v", userID, err)
			c.String(http.StatusInternalServerError, "Error updating user")
		}
		return
	}

	if err := setSessionAccount(c, account); err != nil {
		log.Printf("refresh session for user %d: %v", userID, err)
		c.String(http.StatusInternalServerError, "Session error")
		return
	}

	c.Redirect(http.StatusFound, "/profile")
}

// CheckPassword verifies the current password for re-auth prompts before
// sensitive changes. Errors degrade to valid:false so client validation
// never throws.
func (a *API) CheckPassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}

	valid, err := a.accounts.CheckPassword(userID, c.Query("password"))
	if err != nil {
		log.Printf("check password for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"valid": false, "error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

func articleRows(articles []db.Article) []articleRow {
	rows := make([]articleRow, 0, len(articles))
	for _, article := range articles {
		status := article.Status
		if status == "" {
			status = db.StatusDraft
		}
		rows = append(rows, articleRow{
			ID:            article.ID,
			Title:         article.Title,
			Status:        status,
			LikeCount:     article.LikeCount,
			ReadCount:     article.ReadCount,
			CreatedDate:   formatDateTime(article.CreatedAt),
			ModifiedDate:  formatOptionalDateTime(article.ModifiedAt, "Not modified"),
			PublishedDate: formatOptionalDateTime(article.PublishedAt, "Not published"),
		})
	}
	return rows
}
