package handler

import (
	"github.com/inklog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	accounts   *service.AccountService
	articles   *service.ArticleService
	engagement *service.EngagementService
	uploadDir  string
	uploadURL  string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, uploadDir, uploadURL string) *API {
	articles := service.NewArticleService(gdb)

	return &API{
		db:         gdb,
		accounts:   service.NewAccountService(gdb),
		articles:   articles,
		engagement: service.NewEngagementService(gdb, articles),
		uploadDir:  uploadDir,
		uploadURL:  uploadURL,
	}
}
