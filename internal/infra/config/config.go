package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	App   AppSettings   `mapstructure:"app"`
	API   APISettings   `mapstructure:"api"`
	State StateSettings `mapstructure:"state"`
	Stub  StubSettings  `mapstructure:"stub"`
}

type AppSettings struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

// APISettings configures the backend REST endpoint and per-client timeouts.
// Uploads get a longer budget than general API calls.
type APISettings struct {
	BaseURL       string        `mapstructure:"base_url"`
	PathPrefix    string        `mapstructure:"path_prefix"`
	Timeout       time.Duration `mapstructure:"timeout"`
	UploadTimeout time.Duration `mapstructure:"upload_timeout"`
}

// StateSettings configures where the persisted session file lives. An empty
// Dir falls back to the user config directory at runtime.
type StateSettings struct {
	Dir string `mapstructure:"dir"`
}

// StubSettings configures the local stub backend binary.
type StubSettings struct {
	Host      string        `mapstructure:"host"`
	Port      int           `mapstructure:"port"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	OTPLength int           `mapstructure:"otp_length"`
	OTPTTL    time.Duration `mapstructure:"otp_ttl"`
}

// Endpoint joins the base URL and path prefix into the effective API root.
func (a APISettings) Endpoint() string {
	base := strings.TrimRight(a.BaseURL, "/")
	prefix := strings.Trim(a.PathPrefix, "/")
	if prefix == "" {
		return base
	}
	return base + "/" + prefix
}

func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("RENTHAVEN")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"api.base_url",
		"api.path_prefix",
		"api.timeout",
		"api.upload_timeout",
		"state.dir",
		"stub.host",
		"stub.port",
		"stub.token_ttl",
		"stub.otp_length",
		"stub.otp_ttl",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "renthaven")
	v.SetDefault("app.env", "development")

	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.path_prefix", "api")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("api.upload_timeout", "30s")

	v.SetDefault("state.dir", "")

	v.SetDefault("stub.host", "0.0.0.0")
	v.SetDefault("stub.port", 8080)
	v.SetDefault("stub.token_ttl", "24h")
	v.SetDefault("stub.otp_length", 6)
	v.SetDefault("stub.otp_ttl", "10m")
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, "RENTHAVEN_"+envKey, envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}
