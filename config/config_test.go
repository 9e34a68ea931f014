package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
mysql:
  driver: sqlite
  database: ":memory:"
redis:
  profile_ttl: 30s
rabbitmq:
  addr: mq.local:5672
  username: u
  password: p
engagement:
  sync_subscriber_count: false
`), 0o600))
	t.Setenv("VIEWTUBE_JWT_SECRET", "from-env")

	require.NoError(t, Init(path))
	c := ConfigInfo
	assert.Equal(t, "sqlite", c.Mysql.Driver)
	assert.Equal(t, ":memory:", c.Mysql.Database)
	assert.Equal(t, 30*time.Second, c.Redis.ProfileTTL)
	assert.False(t, c.Engagement.SyncSubscriberCount)
	assert.Equal(t, "from-env", c.Jwt.Secret)

	// 未在文件中出现的键使用默认值
	assert.Equal(t, "0.0.0.0:8888", c.Server.Addr)
	assert.Equal(t, 10*time.Minute, c.Engagement.ReconcileInterval)
	assert.Equal(t, 24*time.Hour, c.Jwt.Timeout)
	assert.Equal(t, "amqp://u:p@mq.local:5672/", c.RabbitMq.URL())
}

func TestInitMissingFile(t *testing.T) {
	assert.Error(t, Init(filepath.Join(t.TempDir(), "absent.yml")))
}

func TestRabbitMqURL(t *testing.T) {
	assert.Equal(t, "", RabbitMq{}.URL())
	assert.Equal(t, "amqps://a:b@host/", RabbitMq{Addr: "amqps://a:b@host/"}.URL())
}
