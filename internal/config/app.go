package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port string `mapstructure:"port"` // empty disables the ops endpoint
}

type DbServer struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns"`
	SSLMode  string `mapstructure:"ssl_mode"`
	RootCert string `mapstructure:"root_cert"`
}

func (config *DbServer) GetConnectionStr() string {
	connStr := fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		config.User, config.Pass, config.Host, config.Port, config.Name, config.SSLMode,
	)
	if config.RootCert != "" {
		connStr += " sslrootcert=" + config.RootCert
	}
	return connStr
}

type Solana struct {
	RPCEndpoint  string `mapstructure:"rpc_endpoint"`
	Commitment   string `mapstructure:"commitment"`
	PayerKeypair string `mapstructure:"payer_keypair"`
	ProgramID    string `mapstructure:"program_id"`
	Cortex       string `mapstructure:"cortex"`
	MainPool     string `mapstructure:"main_pool"`
	ALPMint      string `mapstructure:"alp_mint"`
}

type Keeper struct {
	CycleMs        int    `mapstructure:"cycle_ms"`
	IdleSleepMs    int    `mapstructure:"idle_sleep_ms"`
	FeeRefreshSec  int    `mapstructure:"fee_refresh_sec"`
	FeePercentile  uint64 `mapstructure:"fee_percentile"`
	CULimit        uint32 `mapstructure:"cu_limit"`
	BuildTimeoutMs int    `mapstructure:"build_timeout_ms"`
}

func (k Keeper) Cycle() time.Duration        { return time.Duration(k.CycleMs) * time.Millisecond }
func (k Keeper) IdleSleep() time.Duration    { return time.Duration(k.IdleSleepMs) * time.Millisecond }
func (k Keeper) FeeRefresh() time.Duration   { return time.Duration(k.FeeRefreshSec) * time.Second }
func (k Keeper) BuildTimeout() time.Duration { return time.Duration(k.BuildTimeoutMs) * time.Millisecond }

type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type AppConfig struct {
	HTTPServer HTTPServer `mapstructure:"http_server"`
	DbServer   DbServer   `mapstructure:"db_server"`
	Solana     Solana     `mapstructure:"solana"`
	Keeper     Keeper     `mapstructure:"keeper"`
	Logging    Logging    `mapstructure:"logging"`
}

// Validate reports the first missing required setting.
func (c *AppConfig) Validate() error {
	required := []struct{ key, value string }{
		{"db_server.host", c.DbServer.Host},
		{"db_server.name", c.DbServer.Name},
		{"solana.rpc_endpoint", c.Solana.RPCEndpoint},
		{"solana.payer_keypair", c.Solana.PayerKeypair},
		{"solana.program_id", c.Solana.ProgramID},
		{"solana.cortex", c.Solana.Cortex},
		{"solana.main_pool", c.Solana.MainPool},
		{"solana.alp_mint", c.Solana.ALPMint},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s is required", r.key)
		}
	}
	if c.Keeper.CycleMs <= 0 || c.Keeper.IdleSleepMs <= 0 || c.Keeper.FeeRefreshSec <= 0 || c.Keeper.BuildTimeoutMs <= 0 {
		return errors.New("keeper durations must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db_server.port", "5432")
	v.SetDefault("db_server.max_conns", 4)
	v.SetDefault("db_server.ssl_mode", "verify-full")

	v.SetDefault("solana.rpc_endpoint", "http://127.0.0.1:10000")
	v.SetDefault("solana.commitment", "processed")
	v.SetDefault("solana.program_id", "13gDzEXCdocbj8iAiqrScGo47NiSuYENGsRqi3SEAwet")

	v.SetDefault("keeper.cycle_ms", 3000)
	v.SetDefault("keeper.idle_sleep_ms", 500)
	v.SetDefault("keeper.fee_refresh_sec", 5)
	v.SetDefault("keeper.fee_percentile", 2500) // 25th, in basis points
	v.SetDefault("keeper.cu_limit", 120_000)
	v.SetDefault("keeper.build_timeout_ms", 2000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

func bindEnv(v *viper.Viper) {
	// db server env vars
	_ = v.BindEnv("db_server.host", "DB_HOST")
	_ = v.BindEnv("db_server.port", "DB_PORT")
	_ = v.BindEnv("db_server.user", "DB_USER")
	_ = v.BindEnv("db_server.pass", "DB_PASS")
	_ = v.BindEnv("db_server.name", "DB_NAME")
	_ = v.BindEnv("db_server.max_conns", "DB_MAX_CONNS")
	_ = v.BindEnv("db_server.ssl_mode", "DB_SSL_MODE")
	_ = v.BindEnv("db_server.root_cert", "DB_ROOT_CERT")

	// solana env vars
	_ = v.BindEnv("solana.rpc_endpoint", "SOLANA_RPC_ENDPOINT")
	_ = v.BindEnv("solana.commitment", "SOLANA_COMMITMENT")
	_ = v.BindEnv("solana.payer_keypair", "SOLANA_PAYER_KEYPAIR")
	_ = v.BindEnv("solana.program_id", "SOLANA_PROGRAM_ID")
	_ = v.BindEnv("solana.cortex", "SOLANA_CORTEX")
	_ = v.BindEnv("solana.main_pool", "SOLANA_MAIN_POOL")
	_ = v.BindEnv("solana.alp_mint", "SOLANA_ALP_MINT")

	_ = v.BindEnv("http_server.port", "HTTP_PORT")
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")
}

// Load reads configFile (optional), then env overrides, and validates the result.
func Load(configFile string) (*AppConfig, error) {
	var cfg AppConfig

	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Init loads .env (if present) and config.yaml from the working directory.
func Init() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}
	return Load("config.yaml")
}
