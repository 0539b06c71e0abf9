package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	BotUsername      string `mapstructure:"BOT_USERNAME"`
	MiniAppName      string `mapstructure:"MINI_APP_NAME"`
	HTTPAddr         string `mapstructure:"HTTP_ADDR"`
	DB_URL           string `mapstructure:"DB_URL"`
	LogLevel         string `mapstructure:"LOG_LEVEL"`
}

func LoadConfig(path string) (config Config, err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return config, fmt.Errorf("ошибка получения абсолютного пути: %w", err)
	}

	viper.AddConfigPath(filepath.Dir(absPath))
	viper.SetConfigName(filepath.Base(absPath))
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("HTTP_ADDR", ":3001")
	viper.SetDefault("MINI_APP_NAME", "duolove")
	viper.SetDefault("LOG_LEVEL", "debug")

	if err := viper.ReadInConfig(); err != nil {
		return config, fmt.Errorf("ошибка чтения конфигурации: %w", err)
	}

	if err := viper.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("ошибка преобразования конфига: %w", err)
	}

	return config, nil
}

// MiniAppURL собирает ссылку запуска мини-приложения с параметром startapp.
func (c *Config) MiniAppURL(startParam string) string {
	url := fmt.Sprintf("https://t.me/%s/%s", c.BotUsername, c.MiniAppName)
	if startParam != "" {
		url += "?startapp=" + startParam
	}
	return url
}
