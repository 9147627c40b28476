// internal/pkg/config/config.go
package config

import (
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration 让时长配置可以写成 "168h" / "10m" 这样的字符串。
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std 返回标准库的 time.Duration 表示。
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config 是服务的全量配置，来自 YAML 文件，关键项可被环境变量覆盖。
type Config struct {
	App struct {
		Name     string `yaml:"name"`
		Port     int    `yaml:"port"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Infra struct {
		MysqlDSN string `yaml:"mysql_dsn"`
		Redis    struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
		Kafka struct {
			Brokers []string `yaml:"brokers"`
			Topic   string   `yaml:"topic"`
		} `yaml:"kafka"`
		Jaeger struct {
			Endpoint string `yaml:"endpoint"`
		} `yaml:"jaeger"`
		Nacos struct {
			ServerAddrs string `yaml:"server_addrs"`
			Namespace   string `yaml:"namespace"`
			Group       string `yaml:"group"`
		} `yaml:"nacos"`
		PaymentBaseURL string `yaml:"payment_base_url"`
		PointBaseURL   string `yaml:"point_base_url"`
	} `yaml:"infra"`

	Billing struct {
		// 各套餐默认佣金率（百分比）
		StandardRate float64 `yaml:"standard_rate"`
		PrimeRate    float64 `yaml:"prime_rate"`
		// 发货到结算确认的固定延迟，账期窗口两端同样前移该值
		OrderCompleteDuration Duration `yaml:"order_complete_duration"`
		// 店铺账单配置的 Redis 缓存时长
		StoreCacheTTL Duration `yaml:"store_cache_ttl"`
	} `yaml:"billing"`
}

var (
	current Config
	once    sync.Once
)

// Init 加载配置文件，路径取 CONF_PATH，默认 configs/config.yaml。
// 加载失败直接 panic：没有配置的服务不应该启动。
func Init() {
	once.Do(func() {
		path := getEnv("CONF_PATH", "configs/config.yaml")
		data, err := os.ReadFile(path)
		if err != nil {
			panic("failed to read config file " + path + ": " + err.Error())
		}
		cfg := defaults()
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			panic("failed to parse config file " + path + ": " + err.Error())
		}
		applyEnvOverrides(&cfg)
		current = cfg
	})
}

// GetCurrentConfig 返回已加载的配置。
func GetCurrentConfig() Config {
	return current
}

func defaults() Config {
	var cfg Config
	cfg.App.Name = "order-service"
	cfg.App.Port = 8084
	cfg.App.LogLevel = "info"
	cfg.Billing.StandardRate = 15
	cfg.Billing.PrimeRate = 10
	cfg.Billing.OrderCompleteDuration = Duration(7 * 24 * time.Hour)
	cfg.Billing.StoreCacheTTL = Duration(10 * time.Minute)
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("MYSQL_DSN"); ok {
		cfg.Infra.MysqlDSN = v
	}
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok {
		cfg.Infra.Redis.Addr = v
	}
	if v, ok := os.LookupEnv("JAEGER_ENDPOINT"); ok {
		cfg.Infra.Jaeger.Endpoint = v
	}
	if v, ok := os.LookupEnv("NACOS_SERVER_ADDRS"); ok {
		cfg.Infra.Nacos.ServerAddrs = v
	}
	if v, ok := os.LookupEnv("ORDER_COMPLETE_DURATION"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Billing.OrderCompleteDuration = Duration(d)
		}
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
