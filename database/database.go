package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// Connect 连接到数据库
//
// 该函数根据 DATABASE_URL 选择驱动并连接数据库，配置 slog-gorm 日志记录器，
// 注册只读副本（如有）并自动迁移表结构。
//
// 参数：
//   - rawURL: 主库连接串
//   - replicaURLs: 只读副本连接串，可为空
//   - logger: 用于数据库操作的日志记录器
//
// 返回值：
//   - *gorm.DB: 数据库连接
//   - error: 连接过程中可能发生的错误
func Connect(rawURL string, replicaURLs []string, logger *slog.Logger) (*gorm.DB, error) {
	if rawURL == "" {
		return nil, errors.New("database url is empty")
	}

	dialector, err := Dialector(rawURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: slogGorm.New(
			slogGorm.WithHandler(logger.Handler()),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if driver, _, _ := ParseURL(rawURL); driver == DriverSQLite {
		// SQLite 同一时间只允许一个写入者，内存库也只在单个连接内可见
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if len(replicaURLs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(replicaURLs))
		for _, replicaURL := range replicaURLs {
			replica, err := Dialector(replicaURL)
			if err != nil {
				return nil, fmt.Errorf("replica: %w", err)
			}
			replicas = append(replicas, replica)
		}
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("register replicas: %w", err)
		}
		logger.Info("已注册只读副本", "count", len(replicas))
	}

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return db, nil
}

// Ping 检查数据库连接是否可用
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Close 关闭数据库连接
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
