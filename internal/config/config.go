package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConf struct {
	Env            string `mapstructure:"env"`
	Port           int    `mapstructure:"port"`
	ShutdownSecond int    `mapstructure:"shutdown_seconds"`
	CallTimeout    int    `mapstructure:"call_timeout_seconds"`
	UploadTimeout  int    `mapstructure:"upload_timeout_seconds"`
	MaxBodyMB      int    `mapstructure:"max_body_mb"`
}

type DatabaseConf struct {
	Driver string `mapstructure:"driver"`
}

type MongoConf struct {
	URI             string `mapstructure:"uri"`
	Database        string `mapstructure:"database"`
	Collection      string `mapstructure:"collection"`
	UsersCollection string `mapstructure:"users_collection"`
	ConnectRetries  int    `mapstructure:"connect_retries"`
}

type StorageConf struct {
	Driver       string `mapstructure:"driver"`
	LocalPath    string `mapstructure:"local_path"`
	LocalBaseURL string `mapstructure:"local_base_url"`
	FFProbeBin   string `mapstructure:"ffprobe_bin"`
	BreakerFails uint32 `mapstructure:"breaker_failures"`
	BreakerOpen  int    `mapstructure:"breaker_open_seconds"`
}

type AWSConf struct {
	Region   string `mapstructure:"region"`
	Bucket   string `mapstructure:"bucket"`
	Endpoint string `mapstructure:"endpoint"`
}

type S3Conf struct {
	PublicRead    bool   `mapstructure:"public_read"`
	PresignTTL    int    `mapstructure:"presign_ttl_seconds"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type RedisConf struct {
	Addr          string `mapstructure:"addr"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	RateLimit     int    `mapstructure:"rate_limit"`
	WindowSeconds int    `mapstructure:"window_seconds"`
}

type JWTConf struct {
	PublicKeyPath string `mapstructure:"public_key_path"`
	Secret        string `mapstructure:"secret"`
}

type KafkaConf struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type PaginationConf struct {
	MaxLimit int64 `mapstructure:"max_limit"`
}

type UploadConf struct {
	TempDir       string `mapstructure:"temp_dir"`
	MaxVideoBytes int64  `mapstructure:"max_video_bytes"`
	MaxImageBytes int64  `mapstructure:"max_image_bytes"`
}

type Config struct {
	App        AppConf        `mapstructure:"app"`
	Database   DatabaseConf   `mapstructure:"database"`
	Mongo      MongoConf      `mapstructure:"mongodb"`
	Storage    StorageConf    `mapstructure:"storage"`
	AWS        AWSConf        `mapstructure:"aws"`
	S3         S3Conf         `mapstructure:"s3"`
	Redis      RedisConf      `mapstructure:"redis"`
	JWT        JWTConf        `mapstructure:"jwt"`
	Kafka      KafkaConf      `mapstructure:"kafka"`
	Pagination PaginationConf `mapstructure:"pagination"`
	Upload     UploadConf     `mapstructure:"upload"`
	Log        struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	// derived
	ShutdownTimeout time.Duration
	CallTimeout     time.Duration
	UploadTimeout   time.Duration
	PresignTTL      time.Duration
	RateWindow      time.Duration
	BreakerTimeout  time.Duration
}

func (c *Config) IsDevelopment() bool { return c.App.Env == "development" }

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Port == 0 {
		cfg.App.Port = 8080
	}
	if cfg.App.ShutdownSecond == 0 {
		cfg.App.ShutdownSecond = 15
	}
	if cfg.App.CallTimeout == 0 {
		cfg.App.CallTimeout = 30
	}
	if cfg.App.UploadTimeout == 0 {
		cfg.App.UploadTimeout = 300
	}
	if cfg.App.MaxBodyMB == 0 {
		cfg.App.MaxBodyMB = 512
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "mongo"
	}
	if cfg.Mongo.Collection == "" {
		cfg.Mongo.Collection = "videos"
	}
	if cfg.Mongo.UsersCollection == "" {
		cfg.Mongo.UsersCollection = "users"
	}
	if cfg.Mongo.ConnectRetries == 0 {
		cfg.Mongo.ConnectRetries = 5
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "s3"
	}
	if cfg.Storage.FFProbeBin == "" {
		cfg.Storage.FFProbeBin = "ffprobe"
	}
	if cfg.Storage.BreakerFails == 0 {
		cfg.Storage.BreakerFails = 5
	}
	if cfg.Storage.BreakerOpen == 0 {
		cfg.Storage.BreakerOpen = 30
	}
	if cfg.S3.PresignTTL == 0 {
		cfg.S3.PresignTTL = 600
	}
	if cfg.Redis.RateLimit == 0 {
		cfg.Redis.RateLimit = 120
	}
	if cfg.Redis.WindowSeconds == 0 {
		cfg.Redis.WindowSeconds = 60
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "video-events"
	}
	if cfg.Pagination.MaxLimit == 0 {
		cfg.Pagination.MaxLimit = 100
	}
	if cfg.Upload.MaxVideoBytes == 0 {
		cfg.Upload.MaxVideoBytes = 500 << 20
	}
	if cfg.Upload.MaxImageBytes == 0 {
		cfg.Upload.MaxImageBytes = 10 << 20
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	cfg.ShutdownTimeout = time.Duration(cfg.App.ShutdownSecond) * time.Second
	cfg.CallTimeout = time.Duration(cfg.App.CallTimeout) * time.Second
	cfg.UploadTimeout = time.Duration(cfg.App.UploadTimeout) * time.Second
	cfg.PresignTTL = time.Duration(cfg.S3.PresignTTL) * time.Second
	cfg.RateWindow = time.Duration(cfg.Redis.WindowSeconds) * time.Second
	cfg.BreakerTimeout = time.Duration(cfg.Storage.BreakerOpen) * time.Second
}
