package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var ConfigInfo Config

// 使用Viper的好处在于支持配置文件的热更新 同时viper对于大小写并不敏感 都是统一进行处理
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:8888")
	v.SetDefault("server.allow_origins", []string{"http://localhost:8870", "http://localhost:8888"})
	v.SetDefault("server.worker_id", 1)
	v.SetDefault("server.datacenter_id", 1)

	v.SetDefault("mysql.driver", "mysql")
	v.SetDefault("mysql.charset", "utf8mb4")
	v.SetDefault("mysql.max_open_conns", 50)
	v.SetDefault("mysql.max_idle_conns", 10)
	v.SetDefault("mysql.conn_max_lifetime", time.Hour)
	v.SetDefault("mysql.auto_migrate", true)

	// 没有默认值的键不会被环境变量覆盖，这里显式声明空值
	v.SetDefault("mysql.password", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.profile_ttl", 5*time.Minute)
	v.SetDefault("rabbitmq.addr", "")
	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("jwt.secret", "")

	v.SetDefault("minio.bucket", "viewtube-media")

	v.SetDefault("jwt.timeout", 24*time.Hour)
	v.SetDefault("jwt.max_refresh", 7*24*time.Hour)

	v.SetDefault("jaeger.service_name", "viewtube")
	v.SetDefault("jaeger.sample_rate", 1.0)

	v.SetDefault("sentinel.engagement_qps", 2000)
	v.SetDefault("sentinel.cascade_qps", 20)

	v.SetDefault("engagement.sync_subscriber_count", true)
	v.SetDefault("engagement.reconcile_interval", 10*time.Minute)
}

// Init 读取配置文件到 ConfigInfo。path 为空时依次在常见目录中查找 config.yml
func Init(path string) error {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("VIEWTUBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		wd, _ := os.Getwd()
		logrus.Infof("Current working directory: %s", wd)
		v.SetConfigName("config")
		for _, p := range []string{"./config", "../config", "../../config", "."} {
			v.AddConfigPath(p)
			absPath, _ := filepath.Abs(p)
			logrus.Debugf("Added config path: %s (absolute: %s)", p, absPath)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && path == "" {
			logrus.Warnf("config file not found, using defaults and environment: %v", err)
		} else {
			return errors.Wrap(err, "read config")
		}
	} else {
		logrus.Infof("Successfully read config file: %s", v.ConfigFileUsed())
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return errors.Wrap(err, "unmarshal config")
	}
	ConfigInfo = c

	logrus.Infof("Config loaded - store: %s %s:%s@%s/%s",
		c.Mysql.Driver, c.Mysql.Username, "***", c.Mysql.Addr, c.Mysql.Database)
	if c.Jwt.Secret == "" {
		logrus.Warn("jwt.secret is empty, tokens are signed with an insecure default")
	}
	return nil
}
