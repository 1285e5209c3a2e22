package config

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"http"`
	Postgres struct {
		DSN         string `mapstructure:"dsn"`
		MaxOpen     int    `mapstructure:"max_open"`
		MaxIdle     int    `mapstructure:"max_idle"`
		AutoMigrate bool   `mapstructure:"auto_migrate"`
	} `mapstructure:"postgres"`
	Redis struct {
		Addr           string `mapstructure:"addr"`
		Password       string `mapstructure:"password"`
		DB             int    `mapstructure:"db"`
		DialTimeoutMS  int    `mapstructure:"dial_timeout_ms"`
		ReadTimeoutMS  int    `mapstructure:"read_timeout_ms"`
		WriteTimeoutMS int    `mapstructure:"write_timeout_ms"`
		PingTimeoutMS  int    `mapstructure:"ping_timeout_ms"`
		HeartbeatSec   int    `mapstructure:"heartbeat_sec"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers    []string `mapstructure:"brokers"`
		AuditTopic string   `mapstructure:"audit_topic"`
		GroupID    string   `mapstructure:"group_id"`
	} `mapstructure:"kafka"`
	Etcd struct {
		Endpoints []string `mapstructure:"endpoints"`
		TTL       int      `mapstructure:"ttl"`
	} `mapstructure:"etcd"`
	JWT struct {
		Secret        string `mapstructure:"secret"`
		ExpireSeconds int    `mapstructure:"expire_seconds"`
		Issuer        string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	AppMeta struct {
		Name    string `mapstructure:"name"`
		Version string `mapstructure:"version"`
		Env     string `mapstructure:"env"`
	} `mapstructure:"app_meta"`
	OTel struct {
		Endpoint     string  `mapstructure:"endpoint"`
		Insecure     bool    `mapstructure:"insecure"`
		SamplerRatio float64 `mapstructure:"sampler_ratio"`
		Enable       bool    `mapstructure:"enable"`
	} `mapstructure:"otel"`
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	v.SetDefault("app_meta.name", "benchadmin")
	v.SetDefault("app_meta.version", "v1")
	v.SetDefault("app_meta.env", "dev")
	v.SetDefault("kafka.audit_topic", "benchadmin.audit")
	v.SetDefault("kafka.group_id", "benchadmin-audit")
	v.SetDefault("redis.ping_timeout_ms", 500)
	v.SetDefault("redis.heartbeat_sec", 10)
	v.SetDefault("etcd.ttl", 10)
	v.SetDefault("otel.enable", false)
	v.SetDefault("otel.sampler_ratio", 1.0)
	v.SetDefault("otel.insecure", true)
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if c.HTTP.Addr == "" {
		return nil, errors.New("http.addr required")
	}
	if c.Postgres.DSN == "" {
		return nil, errors.New("postgres.dsn required")
	}
	if c.JWT.Secret == "" || len(c.JWT.Secret) < 16 {
		return nil, errors.New("jwt.secret too short (>=16)")
	}
	if c.OTel.Enable {
		if c.OTel.Endpoint == "" {
			return nil, errors.New("otel.endpoint required when otel.enable=true")
		}
		if c.OTel.SamplerRatio < 0 || c.OTel.SamplerRatio > 1 {
			return nil, errors.New("otel.sampler_ratio must be in [0,1]")
		}
	}
	return &c, nil
}
