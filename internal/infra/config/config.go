// Package config loads server settings from a YAML file, then environment
// variables prefixed with KYC_, then command line flags. Later sources win.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jessevdk/go-flags"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/application/orchestrator"
)

const EnvPrefix = "KYC_"

type Config struct {
	HTTP      HTTP      `yaml:"http" envPrefix:"HTTP_"`
	Log       Log       `yaml:"log" envPrefix:"LOG_"`
	Deposit   Deposit   `yaml:"deposit" envPrefix:"DEPOSIT_"`
	Storage   Storage   `yaml:"storage" envPrefix:"STORAGE_"`
	Pix       Pix       `yaml:"pix" envPrefix:"PIX_"`
	Outbox    Outbox    `yaml:"outbox" envPrefix:"OUTBOX_"`
	NATS      NATS      `yaml:"nats" envPrefix:"NATS_"`
	Telemetry Telemetry `yaml:"telemetry" envPrefix:"TELEMETRY_"`
}

type HTTP struct {
	Addr            string        `yaml:"addr" env:"ADDR"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

type Log struct {
	Level string `yaml:"level" env:"LEVEL"`
}

type Deposit struct {
	Amount         string        `yaml:"amount" env:"AMOUNT"`
	PollPeriod     time.Duration `yaml:"poll_period" env:"POLL_PERIOD"`
	PollTimeout    time.Duration `yaml:"poll_timeout" env:"POLL_TIMEOUT"`
	SettleDelay    time.Duration `yaml:"settle_delay" env:"SETTLE_DELAY"`
	DeclineDisplay time.Duration `yaml:"decline_display" env:"DECLINE_DISPLAY"`
	CountdownTick  time.Duration `yaml:"countdown_tick" env:"COUNTDOWN_TICK"`
	CloseDelay     time.Duration `yaml:"close_delay" env:"CLOSE_DELAY"`
	MaxPolls       int           `yaml:"max_polls" env:"MAX_POLLS"`
	BackoffBase    time.Duration `yaml:"backoff_base" env:"BACKOFF_BASE"`
	BackoffMax     time.Duration `yaml:"backoff_max" env:"BACKOFF_MAX"`
	Policy         string        `yaml:"policy" env:"POLICY"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"DRIVER"`
	Path   string `yaml:"path" env:"PATH"`
}

type Pix struct {
	Mode         string `yaml:"mode" env:"MODE"`
	BaseURL      string `yaml:"base_url" env:"BASE_URL"`
	MerchantKey  string `yaml:"merchant_key" env:"MERCHANT_KEY"`
	MerchantName string `yaml:"merchant_name" env:"MERCHANT_NAME"`
	MerchantCity string `yaml:"merchant_city" env:"MERCHANT_CITY"`
	AutoPayAfter int    `yaml:"auto_pay_after" env:"AUTO_PAY_AFTER"`
}

type Outbox struct {
	PollInterval time.Duration `yaml:"poll_interval" env:"POLL_INTERVAL"`
	BatchSize    int           `yaml:"batch_size" env:"BATCH_SIZE"`
}

// NATS publishing is disabled while URL is empty.
type NATS struct {
	URL     string        `yaml:"url" env:"URL"`
	Prefix  string        `yaml:"prefix" env:"PREFIX"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

type Telemetry struct {
	Enabled     bool   `yaml:"enabled" env:"ENABLED"`
	Endpoint    string `yaml:"endpoint" env:"ENDPOINT"`
	Insecure    bool   `yaml:"insecure" env:"INSECURE"`
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`
}

// Options are the command line flags.
type Options struct {
	Config   string `short:"c" long:"config" description:"yaml config file"`
	Addr     string `short:"a" long:"addr" description:"http listen address"`
	LogLevel string `short:"l" long:"log-level" description:"log level" choice:"debug" choice:"info" choice:"warn" choice:"error"`
}

func Default() Config {
	d := orchestrator.DefaultConfig()

	return Config{
		HTTP: HTTP{Addr: ":8080", ShutdownTimeout: 10 * time.Second},
		Log:  Log{Level: "info"},
		Deposit: Deposit{
			Amount:         d.DepositAmount.StringFixed(2),
			PollPeriod:     d.PollPeriod,
			SettleDelay:    d.SettleDelay,
			DeclineDisplay: d.DeclineDisplay,
			CountdownTick:  d.CountdownTick,
			CloseDelay:     d.CloseDelay,
			Policy:         "decline-first",
		},
		Storage: Storage{Driver: "memory", Path: "kyc_deposit.db"},
		Pix: Pix{
			Mode:         "simulator",
			MerchantKey:  "deposito@kyc.example",
			MerchantName: "KYC DEPOSITO",
			MerchantCity: "SAO PAULO",
		},
		Outbox:    Outbox{PollInterval: time.Second, BatchSize: 50},
		NATS:      NATS{Prefix: "kyc.deposit", Timeout: 10 * time.Second},
		Telemetry: Telemetry{ServiceName: "kyc-deposit"},
	}
}

// Load reads flags from args and the process environment.
func Load(args []string) (*Config, error) {
	return LoadFrom(args, nil)
}

// LoadFrom is Load with an explicit environment. A nil environment reads the
// process environment.
func LoadFrom(args []string, environment map[string]string) (*Config, error) {
	var opts Options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	cfg := Default()

	if opts.Config != "" {
		if err := readFile(opts.Config, &cfg); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: environment,
	}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if opts.Addr != "" {
		cfg.HTTP.Addr = opts.Addr
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case "memory":
	case "sqlite":
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}

	switch c.Pix.Mode {
	case "simulator":
	case "http":
		if c.Pix.BaseURL == "" {
			errs = append(errs, errors.New("pix.base_url is required in http mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown pix mode %q", c.Pix.Mode))
	}

	switch c.Deposit.Policy {
	case "decline-first", "always-succeed":
	default:
		errs = append(errs, fmt.Errorf("unknown outcome policy %q", c.Deposit.Policy))
	}

	if c.Outbox.PollInterval <= 0 || c.Outbox.BatchSize <= 0 {
		errs = append(errs, errors.New("outbox poll interval and batch size must be positive"))
	}

	if _, err := c.Orchestrator(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Orchestrator converts the deposit section into the orchestrator's config.
func (c *Config) Orchestrator() (orchestrator.Config, error) {
	amount, err := decimal.NewFromString(c.Deposit.Amount)
	if err != nil {
		return orchestrator.Config{}, fmt.Errorf("deposit.amount: %w", err)
	}

	oc := orchestrator.Config{
		DepositAmount:  amount,
		PollPeriod:     c.Deposit.PollPeriod,
		PollTimeout:    c.Deposit.PollTimeout,
		SettleDelay:    c.Deposit.SettleDelay,
		DeclineDisplay: c.Deposit.DeclineDisplay,
		CountdownTick:  c.Deposit.CountdownTick,
		CloseDelay:     c.Deposit.CloseDelay,
		MaxPolls:       c.Deposit.MaxPolls,
		FailureBackoff: orchestrator.Backoff{
			BaseDelay: c.Deposit.BackoffBase,
			MaxDelay:  c.Deposit.BackoffMax,
		},
	}

	if err := oc.Validate(); err != nil {
		return orchestrator.Config{}, fmt.Errorf("deposit: %w", err)
	}
	return oc, nil
}
