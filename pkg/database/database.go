package database

import (
	"fmt"
	"log"
	"major_compass_backend/internal/config"
	"major_compass_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Major{},
		&model.Subspecialization{},
		&model.RoadmapStage{},
		&model.RoadmapTask{},
		&model.ProgressRecord{},
		&model.RoadmapCompletion{},
		&model.ChatSession{},
		&model.ChatMessage{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 目录为空时写入默认专业树，方便首次部署联调
	var count int64
	db.Model(&model.Major{}).Count(&count)
	if count == 0 {
		seedCatalog(db)
	}

	return db, nil
}

func seedCatalog(db *gorm.DB) {
	majors := []model.Major{
		{
			Slug:        "computer-science",
			Name:        "计算机科学",
			Description: "软件、算法与计算系统",
			Category:    "engineering",
			Icon:        "cpu",
			Subspecializations: []model.Subspecialization{
				{
					Slug:        "computer-science-software",
					Name:        "软件工程方向",
					Description: "从语言基础到工程实践",
					Stages: []model.RoadmapStage{
						{
							Title:          "编程基础",
							Sequence:       1,
							EstimatedHours: 40,
							Tasks: []model.RoadmapTask{
								{TaskKey: "cs-sw-variables", Title: "变量与类型", Sequence: 1, EstimatedMinutes: 60},
								{TaskKey: "cs-sw-control", Title: "控制流", Sequence: 2, EstimatedMinutes: 90},
								{TaskKey: "cs-sw-functions", Title: "函数与模块化", Sequence: 3, EstimatedMinutes: 90},
							},
						},
						{
							Title:          "数据结构与算法",
							Sequence:       2,
							EstimatedHours: 60,
							Tasks: []model.RoadmapTask{
								{TaskKey: "cs-sw-arrays", Title: "数组与链表", Sequence: 1, EstimatedMinutes: 120},
								{TaskKey: "cs-sw-sorting", Title: "排序与查找", Sequence: 2, EstimatedMinutes: 120},
							},
						},
					},
				},
			},
		},
		{
			Slug:        "business-administration",
			Name:        "工商管理",
			Description: "组织、市场与运营管理",
			Category:    "business",
			Icon:        "briefcase",
			Subspecializations: []model.Subspecialization{
				{
					Slug:        "business-administration-marketing",
					Name:        "市场营销方向",
					Description: "消费者行为与品牌策略",
					Stages: []model.RoadmapStage{
						{
							Title:          "管理学基础",
							Sequence:       1,
							EstimatedHours: 30,
							Tasks: []model.RoadmapTask{
								{TaskKey: "ba-mk-principles", Title: "管理学原理", Sequence: 1, EstimatedMinutes: 90},
								{TaskKey: "ba-mk-economics", Title: "微观经济学入门", Sequence: 2, EstimatedMinutes: 120},
							},
						},
					},
				},
			},
		},
	}

	for _, m := range majors {
		db.Create(&m)
	}
}
