package config

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
)

type Config struct {
	APIPort  int    `env:"API_PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	// SendDelaySeconds is the fixed pause between recipients within one
	// job, the last recipient included.
	SendDelaySeconds int `env:"SEND_DELAY_SECONDS,default=5"`

	DefaultSMTPHost string `env:"DEFAULT_SMTP_HOST,default=smtp.gmail.com"`
	DefaultSMTPPort int    `env:"DEFAULT_SMTP_PORT,default=587"`

	// WhatsAppBridgeURL points at the browser-automation bridge; when
	// empty, whatsapp sends fail per recipient instead of at submission.
	WhatsAppBridgeURL          string `env:"WHATSAPP_BRIDGE_URL"`
	WhatsAppLoadWaitSeconds    int    `env:"WHATSAPP_LOAD_WAIT_SECONDS,default=20"`
	WhatsAppCloseWaitSeconds   int    `env:"WHATSAPP_CLOSE_WAIT_SECONDS,default=4"`
	WhatsAppDefaultCountryCode string `env:"WHATSAPP_DEFAULT_COUNTRY_CODE,default=+91"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) SendDelay() time.Duration {
	return time.Duration(c.SendDelaySeconds) * time.Second
}

func (c *Config) WhatsAppLoadWait() time.Duration {
	return time.Duration(c.WhatsAppLoadWaitSeconds) * time.Second
}

func (c *Config) WhatsAppCloseWait() time.Duration {
	return time.Duration(c.WhatsAppCloseWaitSeconds) * time.Second
}
