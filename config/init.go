package config

import (
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

var (
	instance *Config
	once     sync.Once
)

// Init 加载配置：先读取 config.yaml，再用环境变量覆盖
func Init() {
	once.Do(func() {
		cfg := defaultConfig()

		v := viper.New()
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err == nil {
			if err := v.Unmarshal(cfg); err != nil {
				panic(err)
			}
		}

		// 环境变量优先级最高
		if err := envconfig.Process("CTS", cfg); err != nil {
			panic(err)
		}

		instance = cfg
	})
}

// Get 获取全局配置，未初始化时自动加载
func Get() *Config {
	if instance == nil {
		Init()
	}
	return instance
}

func defaultConfig() *Config {
	return &Config{
		Host:   "0.0.0.0",
		Port:   "8080",
		Prefix: "api",
		Mode:   ModeDebug,
		Storage: Storage{
			Root: "./upload",
		},
		Mysql: Mysql{
			Host: "127.0.0.1",
			Port: "3306",
		},
		JWT: JWT{
			AccessExpire: 7200,
		},
		Log: Log{
			Level:      "info",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
		},
		OTel: OTel{
			ServiceName: "contract-tracking-system",
		},
	}
}
