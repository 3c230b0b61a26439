package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv     string `env:"APP_ENV" envDefault:"local"`
	BotToken   string `env:"TELEGRAM_BOT_TOKEN,required"`
	HealthPort int    `env:"HEALTH_PORT" envDefault:"8080"`

	// LLM
	LLMAPIKey      string  `env:"OPENAI_API_KEY,required"`
	LLMModel       string  `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	LLMProject     string  `env:"OPENAI_PROJECT"`
	LLMTemperature float32 `env:"OPENAI_TEMPERATURE" envDefault:"0.2"`
	RateLimitRPS   int     `env:"RATE_LIMIT_RPS" envDefault:"1"`

	// CRM webhook (Bitrix inbound webhook base URL, e.g. https://x.bitrix24.ru/rest/1/key/).
	// Empty means lead creation is reported to the user as unconfigured.
	CRMWebhookURL string        `env:"CRM_WEBHOOK_URL"`
	CRMTimeout    time.Duration `env:"CRM_TIMEOUT" envDefault:"15s"`

	// Tender feed
	TenderFeedURL  string        `env:"TENDER_FEED_URL"`
	TenderLinkBase string        `env:"TENDER_LINK_BASE" envDefault:"https://zakupki.mos.ru/auction/"`
	TenderProxyURL string        `env:"TENDER_PROXY_URL"`
	TenderTimeout  time.Duration `env:"TENDER_TIMEOUT" envDefault:"30s"`
	TenderLimit    int           `env:"TENDER_LIMIT" envDefault:"10"`

	// Scoring gates
	ScoreMinAmount     float64 `env:"SCORE_MIN_AMOUNT" envDefault:"0"`
	ScoreAmountMid     float64 `env:"SCORE_AMOUNT_MID" envDefault:"100000"`
	ScoreAmountHigh    float64 `env:"SCORE_AMOUNT_HIGH" envDefault:"500000"`
	ScoreKeywordAlways bool    `env:"SCORE_KEYWORD_ALWAYS" envDefault:"true"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
