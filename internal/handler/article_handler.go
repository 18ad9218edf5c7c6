package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/service"
)

// ShowNewArticle 渲染新建文章页面
func (a *API) ShowNewArticle(c *gin.Context) {
	username := currentUsername(c)
	c.HTML(http.StatusOK, "new_article.html", gin.H{
		"title":     "New Article",
		"blogTitle": fmt.Sprintf("%s: Blog", username),
	})
}

// CreateArticle inserts a new draft and returns to the author listing.
func (a *API) CreateArticle(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if _, err := a.articles.Create(userID, c.PostForm("title"), c.PostForm("content")); err != nil {
		if errors.Is(err, service.ErrInvalidArticleInput) {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("create article for user %d: %v", userID, err)
		c.String(http.StatusInternalServerError, "Error inserting article")
		return
	}

	c.Redirect(http.StatusFound, "/profile")
}

// PublishArticle flips the article to published and stamps the publish time.
func (a *API) PublishArticle(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	articleID, err := parseUintParam(c, "articleId")
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	if err := a.articles.Publish(articleID, userID); err != nil {
		a.respondArticleError(c, articleID, "publish", err)
		return
	}
	c.Status(http.StatusOK)
}

// DeleteArticle removes an article by id.
func (a *API) DeleteArticle(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	articleID, err := parseUintParam(c, "id")
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	if err := a.articles.Delete(articleID, userID); err != nil {
		a.respondArticleError(c, articleID, "delete", err)
		return
	}
	c.Status(http.StatusOK)
}

// ShowEditArticle 渲染编辑文章页面
func (a *API) ShowEditArticle(c *gin.Context) {
	articleID, err := parseUintParam(c, "articleId")
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	article, err := a.articles.Get(articleID)
	if err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			c.String(http.StatusNotFound, "Article not found")
			return
		}
		log.Printf("load article %d: %v", articleID, err)
		c.String(http.StatusInternalServerError, "Database error")
		return
	}

	c.HTML(http.StatusOK, "edit_article.html", gin.H{
		"title":         "Edit Article",
		"article":       article,
		"createdDate":   formatDateTime(article.CreatedAt),
		"publishedDate": formatOptionalDateTime(article.PublishedAt, "Not published"),
	})
}

// EditArticle applies the edit form. Status is untouched; only the author
// may edit.
func (a *API) EditArticle(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	articleID, err := parseUintParam(c, "articleId")
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	if err := a.articles.Edit(articleID, userID, c.PostForm("title"), c.PostForm("content")); err != nil {
		if errors.Is(err, service.ErrInvalidArticleInput) {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		a.respondArticleError(c, articleID, "edit", err)
		return
	}

	c.Redirect(http.StatusFound, "/profile")
}

func (a *API) respondArticleError(c *gin.Context, articleID uint, op string, err error) {
	switch {
	case errors.Is(err, service.ErrArticleNotFound):
		c.String(http.StatusNotFound, "Article not found")
	case errors.Is(err, service.ErrNotArticleAuthor):
		c.String(http.StatusForbidden, "Not the article author")
	default:
		log.Printf("%s article %d: %v", op, articleID, err)
		c.String(http.StatusInternalServerError, "Database error")
	}
}
