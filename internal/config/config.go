package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreRemote = "remote"
	StoreLocal  = "local"
)

type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Storage struct {
		Mode      string `yaml:"mode"`
		LocalPath string `yaml:"local_path"`
	} `yaml:"storage"`
	Timezone  string        `yaml:"timezone"`
	StaleTime time.Duration `yaml:"stale_time"`
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	cfg.Database.Path = "/data/goal-path.db"
	cfg.Storage.Mode = StoreRemote
	cfg.Storage.LocalPath = "/data/goal-path.json"
	cfg.Timezone = "Europe/Moscow"
	cfg.StaleTime = time.Minute
	return cfg
}

// Load собирает конфигурацию: значения по умолчанию, затем YAML-файл из CONFIG_FILE,
// затем переменные окружения (.env подхватывается, если есть).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️ Ошибка чтения .env: %v", err)
	}

	cfg := defaults()
	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Telegram.Token == "" {
		log.Println("⚠️ TG_TOKEN не установлен, бот отключён")
	}
	log.Printf("✅ Конфигурация загружена: порт=%s, хранилище=%s, БД=%s, часовой пояс=%s",
		cfg.Server.Port, cfg.Storage.Mode, cfg.Database.Path, cfg.Timezone)

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ошибка чтения %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("ошибка разбора %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Telegram.Token = getEnv("TG_TOKEN", c.Telegram.Token)
	if chatIDStr := getEnv("TG_CHAT_ID", ""); chatIDStr != "" {
		chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return fmt.Errorf("неверный TG_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = chatID
	}
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Database.Path = getEnv("DB_PATH", c.Database.Path)
	c.Storage.Mode = getEnv("STORE_MODE", c.Storage.Mode)
	c.Storage.LocalPath = getEnv("LOCAL_STORAGE_PATH", c.Storage.LocalPath)
	c.Timezone = getEnv("TZ_NAME", c.Timezone)

	if s := getEnv("TASKS_STALE_TIME", ""); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("неверный TASKS_STALE_TIME: %w", err)
		}
		c.StaleTime = d
	}
	return nil
}

func (c *Config) validate() error {
	if c.Storage.Mode != StoreRemote && c.Storage.Mode != StoreLocal {
		return fmt.Errorf("неизвестный STORE_MODE %q", c.Storage.Mode)
	}
	if c.Telegram.Token != "" && c.Telegram.ChatID == 0 {
		return errors.New("TG_CHAT_ID не установлен")
	}
	if c.StaleTime <= 0 {
		return errors.New("TASKS_STALE_TIME должен быть положительным")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("неизвестный часовой пояс %q: %w", c.Timezone, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
