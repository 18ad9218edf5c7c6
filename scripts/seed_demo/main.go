package main

import (
	"fmt"
	"log"

	"github.com/inklog/internal/config"
	"github.com/inklog/internal/db"
	"github.com/inklog/internal/service"
	"github.com/joho/godotenv"
)

// 创建演示账号和示例文章，便于本地开发时直接登录查看。
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	gdb, err := db.Open(cfg.DatabaseURL, cfg.DatabasePath)
	if err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	var count int64
	if err := gdb.Model(&db.User{}).Where("username = ?", "demo").Count(&count).Error; err != nil {
		log.Fatal("查询用户失败:", err)
	}
	if count > 0 {
		fmt.Println("演示用户已存在，无需初始化")
		return
	}

	accounts := service.NewAccountService(gdb)
	account, err := accounts.Register("demo", "demo@example.com", "demo123")
	if err != nil {
		log.Fatal("创建演示用户失败:", err)
	}

	articles := service.NewArticleService(gdb)
	published, err := articles.Create(account.User.ID, "Hello, Inklog", "This post was seeded for local development.\n\nEdit or delete it from the profile page.")
	if err != nil {
		log.Fatal("创建示例文章失败:", err)
	}
	if err := articles.Publish(published.ID, account.User.ID); err != nil {
		log.Fatal("发布示例文章失败:", err)
	}

	if _, err := articles.Create(account.User.ID, "Draft ideas", "Unpublished notes only the author can see."); err != nil {
		log.Fatal("创建草稿失败:", err)
	}

	fmt.Println("演示用户创建成功")
	fmt.Println("用户名: demo")
	fmt.Println("密码: demo123")
}
