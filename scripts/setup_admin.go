// 初始化管理员账号脚本
//
// 首次部署后运行一次，按环境变量创建（或重置）管理员账号。
//
// 用法: ADMIN_EMAIL=admin@example.com ADMIN_PASSWORD=secret go run scripts/setup_admin.go

package main

import (
	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

func main() {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("需要设置 ADMIN_EMAIL 和 ADMIN_PASSWORD 环境变量")
	}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("密码加密失败: %v", err)
	}

	var admin model.User
	err = db.Where("email = ?", email).First(&admin).Error
	if err == nil {
		admin.Password = string(hashed)
		admin.Role = model.Admin
		if err := db.Save(&admin).Error; err != nil {
			log.Fatalf("更新管理员失败: %v", err)
		}
		log.Printf("管理员账号已重置: %s", email)
		return
	}

	admin = model.User{
		Email:    email,
		Password: string(hashed),
		FullName: "Administrator",
		Role:     model.Admin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("创建管理员失败: %v", err)
	}

	log.Printf("管理员账号已创建: %s (id=%d)", email, admin.ID)
}
