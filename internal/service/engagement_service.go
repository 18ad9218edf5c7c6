package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/inklog/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrAlreadyLiked 在用户重复点赞同一篇文章时返回
	ErrAlreadyLiked = errors.New("already liked")
	// ErrInvalidCommentInput 在评论内容为空时返回
	ErrInvalidCommentInput = errors.New("invalid comment input")
)

// EngagementService wraps comment and like operations scoped to one article.
type EngagementService struct {
	db       *gorm.DB
	articles *ArticleService
}

// NewEngagementService creates an EngagementService instance.
func NewEngagementService(gdb *gorm.DB, articles *ArticleService) *EngagementService {
	return &EngagementService{db: gdb, articles: articles}
}

// ArticleView aggregates everything the article detail page needs.
type ArticleView struct {
	Article    db.Article
	Author     string
	AuthorIcon string
	Comments   []CommentView
}

// CommentView pairs a comment with its commenter's icon.
type CommentView struct {
	Comment db.Comment
	Icon    string
}

// AddComment inserts a comment by username on an existing article. The
// existence check and the insert share a transaction so a concurrent
// article delete can not leave a dangling comment.
func (s *EngagementService) AddComment(articleID uint, username, body string) (*db.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: comment is required", ErrInvalidCommentInput)
	}

	comment := db.Comment{
		ArticleID: articleID,
		Username:  username,
		Body:      body,
	}
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db.Article{}).Where("id = ?", articleID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrArticleNotFound
		}
		return tx.Create(&comment).Error
	}); err != nil {
		return nil, err
	}
	return &comment, nil
}

// Like records at most one like per user per article and returns the fresh
// like count. The conflict-tolerant insert and the counter increment run in
// one transaction, so two concurrent likes from the same user can not both
// increment the counter.
func (s *EngagementService) Like(userID, articleID uint) (uint, error) {
	var likeCount uint
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var article db.Article
		if err := tx.First(&article, articleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrArticleNotFound
			}
			return err
		}

		insert := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "article_id"}},
			DoNothing: true,
		}).Create(&db.Like{UserID: userID, ArticleID: articleID})
		if insert.Error != nil {
			return insert.Error
		}
		if insert.RowsAffected == 0 {
			return ErrAlreadyLiked
		}

		if err := tx.Model(&db.Article{}).Where("id = ?", articleID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
			return err
		}

		var fresh db.Article
		if err := tx.Select("like_count").First(&fresh, articleID).Error; err != nil {
			return err
		}
		likeCount = fresh.LikeCount
		return nil
	}); err != nil {
		return 0, err
	}

	return likeCount, nil
}

// ArticleWithComments loads the article with its author's username and icon
// plus all comments with commenter icons. Fetching the view bumps the read
// counter as a side effect.
func (s *EngagementService) ArticleWithComments(articleID uint) (*ArticleView, error) {
	var article db.Article
	if err := s.db.Preload("Author").First(&article, articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	s.articles.IncrementReadCount(articleID)
	article.ReadCount++

	view := &ArticleView{
		Article:    article,
		Author:     article.Author.Username,
		AuthorIcon: DefaultIcon,
	}

	var authorProfile db.UserProfile
	if err := s.db.Where("user_id = ?", article.AuthorID).First(&authorProfile).Error; err == nil {
		if authorProfile.Icon != "" {
			view.AuthorIcon = authorProfile.Icon
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var comments []db.Comment
	if err := s.db.Where("article_id = ?", articleID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	icons, err := s.commenterIcons(comments)
	if err != nil {
		return nil, err
	}

	view.Comments = make([]CommentView, 0, len(comments))
	for _, comment := range comments {
		icon, ok := icons[comment.Username]
		if !ok || icon == "" {
			icon = DefaultIcon
		}
		view.Comments = append(view.Comments, CommentView{Comment: comment, Icon: icon})
	}

	return view, nil
}

// commenterIcons resolves commenter usernames to profile icons.
func (s *EngagementService) commenterIcons(comments []db.Comment) (map[string]string, error) {
	icons := make(map[string]string, len(comments))
	if len(comments) == 0 {
		return icons, nil
	}

	usernames := make([]string, 0, len(comments))
	seen := make(map[string]bool, len(comments))
	for _, comment := range comments {
		if !seen[comment.Username] {
			seen[comment.Username] = true
			usernames = append(usernames, comment.Username)
		}
	}

	type row struct {
		Username string
		Icon     string
	}
	var rows []row
	if err := s.db.Model(&db.User{}).
		Select("users.username, user_profiles.icon").
		Joins("JOIN user_profiles ON user_profiles.user_id = users.id").
		Where("users.username IN ?", usernames).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, r := range rows {
		icons[r.Username] = r.Icon
	}
	return icons, nil
}
