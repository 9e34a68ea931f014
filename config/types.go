package config

import "time"

type Config struct {
	Server     Server     `yaml:"server" mapstructure:"server"`
	Mysql      Mysql      `yaml:"mysql" mapstructure:"mysql"`
	Redis      Redis      `yaml:"redis" mapstructure:"redis"`
	RabbitMq   RabbitMq   `yaml:"rabbitmq" mapstructure:"rabbitmq"`
	Minio      Minio      `yaml:"minio" mapstructure:"minio"`
	Jwt        Jwt        `yaml:"jwt" mapstructure:"jwt"`
	Jaeger     Jaeger     `yaml:"jaeger" mapstructure:"jaeger"`
	Sentinel   Sentinel   `yaml:"sentinel" mapstructure:"sentinel"`
	Engagement Engagement `yaml:"engagement" mapstructure:"engagement"`
}

type Server struct {
	Addr         string   `yaml:"addr" mapstructure:"addr"`
	PprofAddr    string   `yaml:"pprof_addr" mapstructure:"pprof_addr"`
	AllowOrigins []string `yaml:"allow_origins" mapstructure:"allow_origins"`
	WorkerID     int64    `yaml:"worker_id" mapstructure:"worker_id"`
	DatacenterID int64    `yaml:"datacenter_id" mapstructure:"datacenter_id"`
}

// Mysql 存储配置。Driver 为 sqlite 时 Database 作为文件路径(或 :memory:)使用
type Mysql struct {
	Driver          string        `yaml:"driver" mapstructure:"driver"`
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	Database        string        `yaml:"database" mapstructure:"database"`
	Username        string        `yaml:"username" mapstructure:"username"`
	Password        string        `yaml:"password" mapstructure:"password"`
	Charset         string        `yaml:"charset" mapstructure:"charset"`
	Params          string        `yaml:"params" mapstructure:"params"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `yaml:"auto_migrate" mapstructure:"auto_migrate"`
}

type Redis struct {
	Addr       string        `yaml:"addr" mapstructure:"addr"`
	Password   string        `yaml:"password" mapstructure:"password"`
	DB         int           `yaml:"db" mapstructure:"db"`
	ProfileTTL time.Duration `yaml:"profile_ttl" mapstructure:"profile_ttl"`
}

type RabbitMq struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
}

type Minio struct {
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
	Bucket    string `yaml:"bucket" mapstructure:"bucket"`
	// PublicBaseURL 媒体地址的公共前缀，只有以它开头的地址才被视为本系统托管的对象
	PublicBaseURL string `yaml:"public_base_url" mapstructure:"public_base_url"`
}

type Jwt struct {
	Secret     string        `yaml:"secret" mapstructure:"secret"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxRefresh time.Duration `yaml:"max_refresh" mapstructure:"max_refresh"`
}

type Jaeger struct {
	ServiceName string  `yaml:"service_name" mapstructure:"service_name"`
	AgentAddr   string  `yaml:"agent_addr" mapstructure:"agent_addr"`
	SampleRate  float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

type Sentinel struct {
	EngagementQPS float64 `yaml:"engagement_qps" mapstructure:"engagement_qps"`
	CascadeQPS    float64 `yaml:"cascade_qps" mapstructure:"cascade_qps"`
}

type Engagement struct {
	// SyncSubscriberCount 订阅切换时是否同步维护频道的 subscribers 计数
	SyncSubscriberCount bool          `yaml:"sync_subscriber_count" mapstructure:"sync_subscriber_count"`
	ReconcileInterval   time.Duration `yaml:"reconcile_interval" mapstructure:"reconcile_interval"`
}

// URL 拼接 amqp 连接串，Addr 已经是完整 URL 时直接返回
func (r RabbitMq) URL() string {
	if r.Addr == "" {
		return ""
	}
	if len(r.Addr) > 7 && (r.Addr[:7] == "amqp://" || (len(r.Addr) > 8 && r.Addr[:8] == "amqps://")) {
		return r.Addr
	}
	return "amqp://" + r.Username + ":" + r.Password + "@" + r.Addr + "/"
}
