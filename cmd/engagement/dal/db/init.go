package db

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	gormopentracing "gorm.io/plugin/opentracing"

	"ViewTube.com/cmd/model"
	"ViewTube.com/config"
	"ViewTube.com/pkg/errno"
	"ViewTube.com/pkg/utils"
)

const (
	DriverMysql  = "mysql"
	DriverSqlite = "sqlite"
)

// Store 持有数据库连接池，由 main 创建后注入到各个服务中。
// 在事务中得到的 Store 绑定在同一个事务连接上
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open 按配置建立连接池，失败时返回错误而不是 panic
func Open(ctx context.Context, c config.Mysql) (*Store, error) {
	gormConfig := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Warn),
	}

	var dialector gorm.Dialector
	switch c.Driver {
	case DriverSqlite:
		dialector = sqlite.Open(c.Database)
	case DriverMysql, "":
		dialector = mysql.Open(utils.GetMysqlDsn(c))
		gormConfig.PrepareStmt = true
	default:
		return nil, errors.Errorf("unsupported store driver %q", c.Driver)
	}

	DB, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s store", c.Driver)
	}
	if err = DB.Use(gormopentracing.New()); err != nil {
		return nil, errors.Wrap(err, "register opentracing plugin")
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB")
	}
	if c.Driver == DriverSqlite {
		// sqlite 只有一个写连接，所有事务在连接池上排队
		sqlDB.SetMaxOpenConns(1)
	} else {
		if c.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(c.MaxOpenConns)
		}
		if c.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(c.MaxIdleConns)
		}
		if c.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)
		}
	}

	store := NewStore(DB)
	if err := store.Ping(ctx); err != nil {
		return nil, err
	}
	if c.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// Migrate 自动迁移全部表
func (s *Store) Migrate(ctx context.Context) error {
	hlog.Info("Starting table migration...")
	if err := s.db.WithContext(ctx).AutoMigrate(model.AllModels()...); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	hlog.Info("Table migration completed successfully")
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql.DB")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "ping store")
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB 暴露底层连接，供测试和对账任务使用
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction 在一个数据库事务中执行 fn，fn 返回错误时整体回滚
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// notFound 把 gorm 的 ErrRecordNotFound 翻译为 errno.NotFoundErr，其余错误带上上下文
func notFound(err error, msg string, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errno.NotFoundErr.WithMessage(msg)
	}
	return errors.Wrapf(err, format, args...)
}
