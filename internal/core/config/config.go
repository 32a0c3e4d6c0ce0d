package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Log struct {
	Level string
	JSON  bool
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
	RefreshTokenTTLHr int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Razorpay 支付网关凭证只走配置/环境变量
type Razorpay struct {
	KeyID      string `mapstructure:"key_id"`
	KeySecret  string `mapstructure:"key_secret"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

type SMTP struct {
	Enabled       bool
	Host          string
	Port          int
	Username      string
	Password      string
	From          string
	OperatorEmail string `mapstructure:"operator_email"` // 新用户注册抄送到运营
}

type Media struct {
	BaseURL string `mapstructure:"base_url"` // 图片相对路径读出时拼成绝对 URL
}

type Config struct {
	App      App
	Log      Log
	JWT      JWT
	DB       DB
	Redis    Redis    `mapstructure:"redis"`
	Razorpay Razorpay `mapstructure:"razorpay"`
	SMTP     SMTP     `mapstructure:"smtp"`
	Media    Media    `mapstructure:"media"`
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	if c.Razorpay.TimeoutSec <= 0 {
		c.Razorpay.TimeoutSec = 5
	}
	return &c
}
