package bootstrap

import (
	"errors"
	"io/fs"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort     string `mapstructure:"SERVER_PORT"`
	MongoUri       string `mapstructure:"MONGO_URI"`
	MongoDatabase  string `mapstructure:"MONGO_DATABASE"`
	RedisUrl       string `mapstructure:"REDIS_URL"`
	LogDir         string `mapstructure:"LOG_DIR"`
	LogExt         string `mapstructure:"LOG_EXT"`
	ShareMarker    string `mapstructure:"SHARE_MARKER"`
	AugmentWorkers int    `mapstructure:"AUGMENT_WORKERS"`
	IsLocalCors    bool   `mapstructure:"LOCAL_CORS"`
}

var keys = []string{
	"SERVER_PORT", "MONGO_URI", "MONGO_DATABASE", "REDIS_URL",
	"LOG_DIR", "LOG_EXT", "SHARE_MARKER", "AUGMENT_WORKERS", "LOCAL_CORS",
}

// Setup reads cfgPath (a .env file) and lets environment variables override
// it. A missing file is not an error.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(cfgPath)
	v.SetConfigType("env")

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "hale")
	v.SetDefault("REDIS_URL", "localhost:6379")
	v.SetDefault("LOG_DIR", "logs")
	v.SetDefault("LOG_EXT", ".txt")
	v.SetDefault("SHARE_MARKER", "SharePurchasePhase")
	v.SetDefault("AUGMENT_WORKERS", 4)
	v.SetDefault("LOCAL_CORS", false)

	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
