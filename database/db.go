package database

import (
	"fmt"
	"log/slog"

	"github.com/BinLe1988/soulmap-journal/configs"
	"github.com/BinLe1988/soulmap-journal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// defaultSQLitePath 未配置 dsn 时 sqlite 使用的文件
const defaultSQLitePath = "soulmap.db"

// Dialector 根据配置选择数据库驱动
func Dialector(dbConfig configs.Database) (gorm.Dialector, error) {
	dsn := dbConfig.DSN

	switch dbConfig.Driver {
	case "mysql":
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.DBName)
		}
		return mysql.Open(dsn), nil
	case "postgres":
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
				dbConfig.Host, dbConfig.Port, dbConfig.User, dbConfig.Password, dbConfig.DBName)
		}
		return postgres.Open(dsn), nil
	case "sqlite":
		if dsn == "" {
			dsn = defaultSQLitePath
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", dbConfig.Driver)
	}
}

// Open 打开数据库连接
func Open(dbConfig configs.Database, logger *slog.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(dbConfig)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dbConfig.Driver, err)
	}

	logger.Info("database connected", "driver", dbConfig.Driver)
	return db, nil
}

// Migrate 自动迁移数据库表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Analysis{},
		&models.Todo{},
	)
}

// Close 关闭数据库连接
func Close(db *gorm.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("failed to get database connection", "error", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("failed to close database connection", "error", err)
	}
}
