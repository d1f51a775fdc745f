package database

import (
	"github.com/MeowSalty/tribeai/database/types"
	"gorm.io/gorm"
)

// autoMigrate 自动迁移数据库表结构
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(types.Types...)
}
