// Package dbtest 为测试提供独立的内存 sqlite 存储
package dbtest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"ViewTube.com/cmd/engagement/dal/db"
	"ViewTube.com/config"
	"ViewTube.com/pkg/utils"
)

// NewStore 每次调用得到一个互不影响的空库，表已经迁移完成
func NewStore(t testing.TB) *db.Store {
	t.Helper()
	// 测试中不需要真实的哈希强度
	utils.HashCost = bcrypt.MinCost

	store, err := db.Open(context.Background(), config.Mysql{
		Driver:      db.DriverSqlite,
		Database:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		AutoMigrate: true,
	})
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}
