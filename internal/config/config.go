package config

import (
	"os"
	"time"

	"github.com/go-yaml/yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"github.com/saudapakka/saudapakka-mandate/internal/domain"
	"github.com/saudapakka/saudapakka-mandate/internal/service"
)

const envPrefix = "mandated"

type Config struct {
	Server  Server  `yaml:"server"`
	Mandate Mandate `yaml:"mandate"`
	Auth    Auth    `yaml:"auth"`
	Storage Storage `yaml:"storage"`
}

type Server struct {
	ListenAddr    string `yaml:"listenAddr"    envconfig:"LISTEN_ADDR"`
	PostgresDsn   string `yaml:"postgresDsn"   envconfig:"POSTGRES_DSN"`
	SQLitePath    string `yaml:"sqlitePath"    envconfig:"SQLITE_PATH"`
	RedisAddr     string `yaml:"redisAddr"     envconfig:"REDIS_ADDR"`
	RedisPassword string `yaml:"redisPassword" envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redisDB"       envconfig:"REDIS_DB"`
	MemcachedAddr string `yaml:"memcachedAddr" envconfig:"MEMCACHED_ADDR"`
	EnableTrace   bool   `yaml:"enableTrace"   envconfig:"ENABLE_TRACE"`
	TraceEndpoint string `yaml:"traceEndpoint" envconfig:"TRACE_ENDPOINT"`
	SweepSchedule string `yaml:"sweepSchedule" envconfig:"SWEEP_SCHEDULE"`
}

type Mandate struct {
	SiteURL          string        `yaml:"siteURL"          envconfig:"SITE_URL"`
	PlatformName     string        `yaml:"platformName"     envconfig:"PLATFORM_NAME"`
	Jurisdiction     string        `yaml:"jurisdiction"     envconfig:"JURISDICTION"`
	Validity         time.Duration `yaml:"validity"         envconfig:"VALIDITY"`
	AcceptanceWindow time.Duration `yaml:"acceptanceWindow" envconfig:"ACCEPTANCE_WINDOW"`
	WarningWindow    time.Duration `yaml:"warningWindow"    envconfig:"WARNING_WINDOW"`
}

type Auth struct {
	Secret   string        `yaml:"secret"   envconfig:"SECRET"`
	TokenTTL time.Duration `yaml:"tokenTTL" envconfig:"TOKEN_TTL"`
}

type Storage struct {
	SignatureDir     string `yaml:"signatureDir"     envconfig:"SIGNATURE_DIR"`
	SignatureBaseURL string `yaml:"signatureBaseURL" envconfig:"SIGNATURE_BASE_URL"`
}

func defaults() Config {
	d := domain.DefaultConfig()
	return Config{
		Server: Server{
			ListenAddr:    ":8000",
			SweepSchedule: "@hourly",
		},
		Mandate: Mandate{
			PlatformName:     d.PlatformName,
			Validity:         d.Validity,
			AcceptanceWindow: d.AcceptanceWindow,
			WarningWindow:    d.WarningWindow,
		},
		Auth: Auth{
			TokenTTL: 24 * time.Hour,
		},
		Storage: Storage{
			SignatureDir:     "./signatures",
			SignatureBaseURL: d.SignatureBaseURL,
		},
	}
}

// Load reads the YAML file at path (optional) and then applies MANDATED_* environment overrides.
func Load(path string) (Config, error) {
	config := defaults()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "config.Load: open failed")
		}
		defer file.Close()

		err = yaml.NewDecoder(file).Decode(&config)
		if err != nil {
			return Config{}, errors.Wrap(err, "config.Load: decode failed")
		}
	}

	if err := envconfig.Process(envPrefix, &config); err != nil {
		return Config{}, errors.Wrap(err, "config.Load: environment failed")
	}

	if config.Auth.Secret == "" {
		return Config{}, errors.New("config.Load: auth.secret is required")
	}
	if config.Server.PostgresDsn == "" && config.Server.SQLitePath == "" {
		return Config{}, errors.New("config.Load: server.postgresDsn or server.sqlitePath is required")
	}

	return config, nil
}

// Domain returns the mandate rules the usecases consume.
func (c Config) Domain() domain.Config {
	return domain.Config{
		SiteURL:          c.Mandate.SiteURL,
		PlatformName:     c.Mandate.PlatformName,
		Jurisdiction:     c.Mandate.Jurisdiction,
		SignatureBaseURL: c.Storage.SignatureBaseURL,
		Validity:         c.Mandate.Validity,
		AcceptanceWindow: c.Mandate.AcceptanceWindow,
		WarningWindow:    c.Mandate.WarningWindow,
	}
}

func (c Config) AuthConfig() service.AuthConfig {
	return service.AuthConfig{
		Secret:   c.Auth.Secret,
		TokenTTL: c.Auth.TokenTTL,
	}
}
