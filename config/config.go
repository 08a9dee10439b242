package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App         App       `yaml:"app"`
	Server      Server    `yaml:"server"`
	Store       Store     `yaml:"store"`
	Mongo       Mongo     `yaml:"mongo"`
	PostgresDSN string    `yaml:"postgresql_host"`
	MinIO       MinIO     `yaml:"minio"`
	Queue       *RabbitMQ `yaml:"rabbitmq"`
	Auth        Auth      `yaml:"auth"`
	FFProbePath string    `yaml:"ffprobe_path"`
}

type App struct {
	Environment string `yaml:"environment"`
	Host        string `yaml:"host"`
	Protocol    string `yaml:"protocol"`
}

type Server struct {
	HttpPort    string `yaml:"http_port"`
	Workers     int    `yaml:"workers"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

type Store struct {
	Driver string `yaml:"driver"`
}

type Mongo struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type MinIO struct {
	URL             string `yaml:"url"`
	AccessID        string `yaml:"access_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	PublicURL       string `yaml:"public_url"`
	Secure          bool   `yaml:"secure"`
}

type RabbitMQ struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	User         string `json:"user"`
	Pass         string `json:"pass"`
	ExchangeName string `json:"exchange_name"`
	Kind         string `json:"kind"`
	DialTries    int    `json:"dial_tries"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// Load reads config.yaml from path. A missing file is not an error: defaults
// and environment variables (MONGO_URI, MINIO_BUCKET, ...) still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return &Config{
		App: App{
			Environment: v.GetString("app.environment"),
			Host:        v.GetString("app.host"),
			Protocol:    v.GetString("app.protocol"),
		},
		Server: Server{
			HttpPort:    v.GetString("server.port"),
			Workers:     v.GetInt("server.workers"),
			MaxUploadMB: v.GetInt64("server.max_upload_mb"),
		},
		Store: Store{
			Driver: v.GetString("store.driver"),
		},
		Mongo: Mongo{
			URI:      v.GetString("mongo.uri"),
			Database: v.GetString("mongo.database"),
		},
		PostgresDSN: v.GetString("postgresql_host"),
		MinIO: MinIO{
			URL:             v.GetString("minio.url"),
			AccessID:        v.GetString("minio.access_id"),
			SecretAccessKey: v.GetString("minio.secret_access_key"),
			Bucket:          v.GetString("minio.bucket"),
			PublicURL:       v.GetString("minio.public_url"),
			Secure:          v.GetBool("minio.secure"),
		},
		Queue: &RabbitMQ{
			Host:         v.GetString("rabbitmq_host"),
			Port:         v.GetInt("rabbitmq_port"),
			User:         v.GetString("rabbitmq_user"),
			Pass:         v.GetString("rabbitmq_pass"),
			ExchangeName: v.GetString("rabbitmq_exchange"),
			Kind:         v.GetString("rabbitmq_kind"),
			DialTries:    v.GetInt("rabbitmq_dial_tries"),
		},
		Auth: Auth{
			JWTSecret: v.GetString("auth.jwt_secret"),
		},
		FFProbePath: v.GetString("ffprobe.path"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.environment", "develop")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.workers", 2)
	v.SetDefault("server.max_upload_mb", 512)
	v.SetDefault("store.driver", "mongo")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "videotube")
	v.SetDefault("minio.bucket", "videos")
	v.SetDefault("rabbitmq_host", "localhost")
	v.SetDefault("rabbitmq_port", 5672)
	v.SetDefault("rabbitmq_exchange", "asset_exchange")
	v.SetDefault("rabbitmq_kind", "direct")
	v.SetDefault("rabbitmq_dial_tries", 5)
	v.SetDefault("ffprobe.path", "ffprobe")
}
