package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/service"
)

// readerRow 是阅读首页的展示行
type readerRow struct {
	ID            uint
	Title         string
	Author        string
	LikeCount     uint
	ReadCount     uint64
	PublishedDate string
}

// ShowHome 渲染首页
func (a *API) ShowHome(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"title": "Home"})
}

// ShowReader renders all published articles for the public reader view.
func (a *API) ShowReader(c *gin.Context) {
	sortBy := c.DefaultQuery("sortBy", "publishedDate")
	sortOrder := c.DefaultQuery("sortOrder", "DESC")

	articles, err := a.articles.ListPublished(sortBy, sortOrder)
	if err != nil {
		log.Printf("list published articles: %v", err)
		c.String(http.StatusInternalServerError, "Server error")
		return
	}

	rows := make([]readerRow, 0, len(articles))
	for _, article := range articles {
		rows = append(rows, readerRow{
			ID:            article.ID,
			Title:         article.Title,
			Author:        article.Author.Username,
			LikeCount:     article.LikeCount,
			ReadCount:     article.ReadCount,
			PublishedDate: formatOptionalDateTime(article.PublishedAt, "Not published"),
		})
	}

	c.HTML(http.StatusOK, "reader_home.html", gin.H{
		"title":     "Reader Home",
		"blogs":     rows,
		"sortBy":    sortBy,
		"sortOrder": sortOrder,
	})
}

// ShowArticle renders the article detail page with comments. The fetch
// bumps the read counter as a side effect.
func (a *API) ShowArticle(c *gin.Context) {
	articleID, err := parseUintParam(c, "articleId")
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	view, err := a.engagement.ArticleWithComments(articleID)
	if err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			c.String(http.StatusNotFound, "Article not found")
			return
		}
		log.Printf("fetch article %d: %v", articleID, err)
		c.String(http.StatusInternalServerError, "Error fetching article")
		return
	}

	c.HTML(http.StatusOK, "article.html", gin.H{
		"title":         view.Article.Title,
		"article":       view.Article,
		"author":        view.Author,
		"authorIcon":    view.AuthorIcon,
		"contentHTML":   renderMarkdown(view.Article.Content),
		"publishedDate": formatOptionalDateTime(view.Article.PublishedAt, "Not published"),
		"comments":      view.Comments,
	})
}

// AddComment inserts a comment by the logged-in user and returns to the
// article.
func (a *API) AddComment(c *gin.Context) {
	articleID, err := parseUintParam(c, "articleId")
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	username := currentUsername(c)
	if _, err := a.engagement.AddComment(articleID, username, c.PostForm("comment")); err != nil {
		switch {
		case errors.Is(err, service.ErrArticleNotFound):
			c.String(http.StatusNotFound, "Article not found")
		case errors.Is(err, service.ErrInvalidCommentInput):
			c.String(http.StatusBadRequest, err.Error())
		default:
			log.Printf("add comment to article %d: %v", articleID, err)
			c.String(http.StatusInternalServerError, "Error adding comment")
		}
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/profile/article/%d", articleID))
}

// LikeArticle records at most one like per user per article and returns
// the fresh like count as JSON.
func (a *API) LikeArticle(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	articleID, err := parseUintParam(c, "articleId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	likeCount, err := a.engagement.Like(userID, articleID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyLiked):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Already liked"})
		case errors.Is(err, service.ErrArticleNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Article not found"})
		default:
			log.Printf("like article %d by user %d: %v", articleID, userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"likeCount": likeCount})
}
