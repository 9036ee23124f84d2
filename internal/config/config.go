package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

type Config struct {
	TelegramBot TelegramBot
	TBA         TBA
	Data        Data
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	ChatID int64  `envconfig:"CHAT_ID" required:"true"`
}

type TBA struct {
	AuthKey      string `envconfig:"TBA_AUTH_KEY" required:"true"`
	CacheMinutes int    `envconfig:"TBA_CACHE_MINUTES" default:"10"`
}

type Data struct {
	Dir      string `envconfig:"DATA_DIR" default:"./data"`
	SyncCron string `envconfig:"SYNC_CRON" default:"*/5 * * * *"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	if _, err := cron.ParseStandard(c.Data.SyncCron); err != nil {
		return nil, fmt.Errorf("invalid SYNC_CRON %q: %w", c.Data.SyncCron, err)
	}
	return &c, nil
}
