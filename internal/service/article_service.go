package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/inklog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrArticleNotFound 在指定文章不存在时返回
	ErrArticleNotFound = errors.New("article not found")
	// ErrNotArticleAuthor 在调用者不是文章作者时返回
	ErrNotArticleAuthor = errors.New("caller is not the article author")
	// ErrInvalidArticleInput 在文章输入不完整时返回
	ErrInvalidArticleInput = errors.New("invalid article input")
)

// Sort keys accepted by the listing operations, mapped to their columns.
// Unknown keys silently fall back to publishedDate.
var articleSortColumns = map[string]string{
	"publishedDate": "published_at",
	"likeCount":     "like_count",
	"readCount":     "read_count",
	"status":        "status",
}

// ArticleService wraps article lifecycle database operations and enforces
// the draft to published state machine together with authorship checks.
type ArticleService struct {
	db *gorm.DB
}

// NewArticleService creates an ArticleService instance.
func NewArticleService(gdb *gorm.DB) *ArticleService {
	return &ArticleService{db: gdb}
}

// Create inserts a new draft for the given author.
func (s *ArticleService) Create(authorID uint, title, content string) (*db.Article, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidArticleInput)
	}

	article := db.Article{
		Title:    title,
		Content:  content,
		AuthorID: authorID,
		Status:   db.StatusDraft,
	}
	if err := s.db.Create(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// Get fetches an article by id.
func (s *ArticleService) Get(id uint) (*db.Article, error) {
	var article db.Article
	if err := s.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

// Publish marks the article as published and stamps the publish time.
// Re-publishing an already published article resets the timestamp.
// Only the author may publish.
func (s *ArticleService) Publish(id, callerID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := ownedArticle(tx, id, callerID); err != nil {
			return err
		}

		return tx.Model(&db.Article{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":       db.StatusPublished,
			"published_at": time.Now(),
		}).Error
	})
}

// Edit updates title, content and the modification time without touching
// the publish status. Only the author may edit; a missing id is an error.
func (s *ArticleService) Edit(id, callerID uint, title, content string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidArticleInput)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := ownedArticle(tx, id, callerID); err != nil {
			return err
		}

		return tx.Model(&db.Article{}).Where("id = ?", id).Updates(map[string]interface{}{
			"title":       title,
			"content":     content,
			"modified_at": time.Now(),
		}).Error
	})
}

// Delete removes an article by id. Only the author may delete; a missing
// id reports ErrArticleNotFound rather than succeeding silently.
func (s *ArticleService) Delete(id, callerID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := ownedArticle(tx, id, callerID); err != nil {
			return err
		}
		return tx.Delete(&db.Article{}, id).Error
	})
}

// ListByAuthor returns all articles of one author, drafts included.
func (s *ArticleService) ListByAuthor(authorID uint, sortBy, sortOrder string) ([]db.Article, error) {
	var articles []db.Article
	if err := s.db.Where("author_id = ?", authorID).
		Order(orderClause(sortBy, sortOrder)).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// ListPublished returns all published articles with authors preloaded,
// for the public reader view. The status sort key is not accepted here.
func (s *ArticleService) ListPublished(sortBy, sortOrder string) ([]db.Article, error) {
	if sortBy == "status" {
		sortBy = "publishedDate"
	}

	var articles []db.Article
	if err := s.db.Preload("Author").
		Where("status = ?", db.StatusPublished).
		Order(orderClause(sortBy, sortOrder)).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// IncrementReadCount bumps the read counter by one. Every view counts,
// the author's own included. Failures are logged and never surfaced so
// the counter can not block rendering.
func (s *ArticleService) IncrementReadCount(id uint) {
	if err := s.db.Model(&db.Article{}).Where("id = ?", id).
		UpdateColumn("read_count", gorm.Expr("read_count + 1")).Error; err != nil {
		log.Printf("increment read count for article %d: %v", id, err)
	}
}

// ownedArticle loads an article and verifies authorship.
func ownedArticle(tx *gorm.DB, id, callerID uint) (*db.Article, error) {
	var article db.Article
	if err := tx.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	if article.AuthorID != callerID {
		return nil, ErrNotArticleAuthor
	}
	return &article, nil
}

func orderClause(sortBy, sortOrder string) string {
	column, ok := articleSortColumns[sortBy]
	if !ok {
		column = "published_at"
	}

	direction := "DESC"
	if strings.EqualFold(sortOrder, "ASC") {
		direction = "ASC"
	}

	return fmt.Sprintf("%s %s", column, direction)
}
