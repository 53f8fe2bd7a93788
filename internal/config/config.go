// Package config предоставялет структуры и функции для парсинга и загрузки конфига
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// ErrNoPrivateKey возвращается, если не задан ни ключ, ни путь к файлу ключа.
var ErrNoPrivateKey = errors.New("NOVAPAY_PRIVATE_KEY or NOVAPAY_PRIVATE_KEY_PATH must be set")

// Config общая структура для хранения настроек
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	NovaPay    `yaml:"novapay"`
	RateLimit  `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	Port        string        `yaml:"port" env:"PORT" env-default:"3000"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env:"HTTP_TIMEOUT"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// NovaPay структура для настройки доступа к платёжному провайдеру
type NovaPay struct {
	MerchantID     string `yaml:"merchant_id" env:"NOVAPAY_MERCHANT_ID" env-required:"true"`
	PrivateKey     string `yaml:"private_key" env:"NOVAPAY_PRIVATE_KEY"`
	PrivateKeyPath string `yaml:"private_key_path" env:"NOVAPAY_PRIVATE_KEY_PATH"`
	APIURL         string `yaml:"api_url" env:"NOVAPAY_API_URL" env-default:"https://api-ecom.novapay.ua/v1"`
	// 0 означает отсутствие таймаута на запрос к провайдеру
	Timeout     time.Duration `yaml:"timeout" env:"NOVAPAY_TIMEOUT"`
	CallbackURL string        `yaml:"callback_url" env:"NOVAPAY_CALLBACK_URL" env-default:"https://noir.com.ua/api/novapay/webhook"`
	SuccessURL  string        `yaml:"success_url" env:"NOVAPAY_SUCCESS_URL" env-default:"https://noir.com.ua/payment-success"`
	FailURL     string        `yaml:"fail_url" env:"NOVAPAY_FAIL_URL" env-default:"https://noir.com.ua/payment-fail"`
}

// RateLimit структура для настройки ограничения частоты запросов на создание платежа
type RateLimit struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"5"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"10"`
}

// AddressHTTP возвращает адрес, на котором слушает HTTP-сервер.
func (s HTTPServer) AddressHTTP() string {
	return ":" + s.Port
}

// Load читает .env (если есть), затем файл из CONFIG_PATH или переменные окружения.
func Load() (*Config, error) {
	const op = "config.Load"

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: cannot read .env: %w", op, err)
	}

	var cfg Config
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: file: %s - does not exist", op, configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("%s: cannot read config: %w", op, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: cannot read env: %w", op, err)
	}

	if cfg.PrivateKey == "" && cfg.PrivateKeyPath == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNoPrivateKey)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига, завершает процесс при ошибке
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"NovaPay:\n"+
			"  MerchantID: %s\n"+
			"  PrivateKey: %s\n"+
			"  PrivateKeyPath: %s\n"+
			"  APIURL: %s\n"+
			"  Timeout: %s\n"+
			"  CallbackURL: %s\n"+
			"  SuccessURL: %s\n"+
			"  FailURL: %s\n"+
			"RateLimit:\n"+
			"  RPS: %g\n"+
			"  Burst: %d\n",
		c.Env,
		c.AddressHTTP(),
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.MerchantID,
		mask(c.PrivateKey),
		c.PrivateKeyPath,
		c.APIURL,
		c.NovaPay.Timeout,
		c.CallbackURL,
		c.SuccessURL,
		c.FailURL,
		c.RPS,
		c.Burst,
	)
}

// mask скрывает секрет в выводе конфига
func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}
