package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log           Logger        `mapstructure:"logger"`
	DB            Database      `mapstructure:"database"`
	API           API           `mapstructure:"api"`
	AlphaVantage  AlphaVantage  `mapstructure:"alpha_vantage"`
	Universe      Universe      `mapstructure:"universe"`
	Screening     Screening     `mapstructure:"screening"`
	Cointegration Cointegration `mapstructure:"cointegration"`
	Signal        Signal        `mapstructure:"signal"`
	Backtest      Backtest      `mapstructure:"backtest"`
	Costs         Costs         `mapstructure:"costs"`
	Risk          Risk          `mapstructure:"risk"`
	WalkForward   WalkForward   `mapstructure:"walkforward"`
	Scheduler     Scheduler     `mapstructure:"scheduler"`
	Cache         Cache         `mapstructure:"cache"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type AlphaVantage struct {
	BaseURL          string        `mapstructure:"base_url"`
	APIKey           string        `mapstructure:"api_key"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRequestPerMin int           `mapstructure:"max_request_per_min"`
	MaxRetries       int           `mapstructure:"max_retries"`
	UseAdjusted      bool          `mapstructure:"use_adjusted"`
	MaxForwardFill   int           `mapstructure:"max_forward_fill"`
	CacheExpiration  time.Duration `mapstructure:"cache_expiration"`
}

type Universe struct {
	Tickers []string `mapstructure:"tickers"`
	Start   string   `mapstructure:"start"`
	End     string   `mapstructure:"end"`
}

type Screening struct {
	MinCorrelation float64 `mapstructure:"min_correlation"`
	LookbackDays   int     `mapstructure:"lookback_days"`
	TopN           int     `mapstructure:"top_n"`
	MaxConcurrency int     `mapstructure:"max_concurrency"`
}

type Cointegration struct {
	SignificanceLevel float64 `mapstructure:"significance_level"`
	ADFLag            int     `mapstructure:"adf_lag"`
	MinSamples        int     `mapstructure:"min_samples"`
}

type Signal struct {
	RollingWindow int     `mapstructure:"rolling_window"`
	ZEntry        float64 `mapstructure:"z_entry"`
	ZExit         float64 `mapstructure:"z_exit"`
	ZStop         float64 `mapstructure:"z_stop"`
}

type Backtest struct {
	InitialCapital   float64 `mapstructure:"initial_capital"`
	PerTradeNotional float64 `mapstructure:"per_trade_notional"`
	DollarNeutral    bool    `mapstructure:"dollar_neutral"`
}

type Costs struct {
	CommissionPerShare float64 `mapstructure:"commission_per_share"`
	SpreadBps          float64 `mapstructure:"spread_bps"`
	SlippageBps        float64 `mapstructure:"slippage_bps"`
}

type Risk struct {
	TimeStopDays int     `mapstructure:"time_stop_days"`
	TargetVol    float64 `mapstructure:"target_vol"`
	VolLookback  int     `mapstructure:"vol_lookback"`
	WeightCap    float64 `mapstructure:"weight_cap"`
}

type WalkForward struct {
	TrainDays int `mapstructure:"train_days"`
	TestDays  int `mapstructure:"test_days"`
}

type Scheduler struct {
	Enabled     bool   `mapstructure:"enabled"`
	AnalyzeCron string `mapstructure:"analyze_cron"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

func Load() (*Config, error) {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
