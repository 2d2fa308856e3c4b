package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/refera/fiish/internal/modules/compare"
	"github.com/refera/fiish/internal/modules/funds"
	"github.com/refera/fiish/internal/modules/scoring"
	"github.com/refera/fiish/internal/modules/screening"
)

// Config holds application configuration
type Config struct {
	Port         int
	DevMode      bool
	LogLevel     string
	DatabasePath string
	DataDir      string // snapshot mirror and other working files

	SnapshotTTL     time.Duration
	RefreshSchedule string // cron expression for the snapshot refresh job

	BrapiBaseURL string
	BrapiToken   string

	NewsWindowDays int
	NewsLimit      int

	Scoring   scoring.Config
	Screening screening.Config
	Compare   compare.Config
	Funds     funds.Config
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnvAsInt("FIISH_PORT", 8002),
		DevMode:      getEnvAsBool("DEV_MODE", false),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DatabasePath: getEnv("DATABASE_PATH", "./data/fiish.db"),
		DataDir:      getEnv("FIISH_DATA_DIR", "./data"),

		SnapshotTTL:     time.Duration(getEnvAsInt("SNAPSHOT_TTL_HOURS", 24)) * time.Hour,
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "0 7 * * *"), // daily, pre-market

		BrapiBaseURL: getEnv("BRAPI_BASE_URL", ""),
		BrapiToken:   getEnv("BRAPI_TOKEN", ""),

		NewsWindowDays: getEnvAsInt("NEWS_WINDOW_DAYS", 30),
		NewsLimit:      getEnvAsInt("NEWS_LIMIT", 5),

		Scoring:   loadScoring(),
		Screening: loadScreening(),
		Compare:   loadCompare(),
		Funds:     loadFunds(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadScoring() scoring.Config {
	d := scoring.DefaultConfig()
	// The shorter-window minimums default to proportional fractions of the
	// 12-month minimum so a single override keeps the battery consistent.
	dy12 := getEnvAsFloat("SCORE_DY12_MIN", d.DY12Min)
	return scoring.Config{
		PVPBandLow:       getEnvAsFloat("SCORE_PVP_BAND_LOW", d.PVPBandLow),
		PVPBandHigh:      getEnvAsFloat("SCORE_PVP_BAND_HIGH", d.PVPBandHigh),
		DY3Min:           getEnvAsFloat("SCORE_DY3_MIN", dy12/4),
		DY6Min:           getEnvAsFloat("SCORE_DY6_MIN", dy12/2),
		DY12Min:          dy12,
		LiquidityMinMM:   getEnvAsFloat("SCORE_LIQUIDITY_MIN_MM", d.LiquidityMinMM),
		NetAssetsMinMM:   getEnvAsFloat("SCORE_NET_ASSETS_MIN_MM", d.NetAssetsMinMM),
		ShareholdersMinK: getEnvAsFloat("SCORE_SHAREHOLDERS_MIN_K", d.ShareholdersMinK),
		DY12Ceiling:      getEnvAsFloat("SCORE_DY12_CEILING", d.DY12Ceiling),
		AdminFeeCap:      getEnvAsFloat("SCORE_ADMIN_FEE_CAP", d.AdminFeeCap),
		TierMargin:       getEnvAsInt("TIER_MARGIN", d.TierMargin),
	}
}

func loadScreening() screening.Config {
	d := screening.DefaultConfig()
	return screening.Config{
		DiscountPVPLow:           getEnvAsFloat("SCREEN_PVP_LOW", d.DiscountPVPLow),
		DiscountPVPHigh:          getEnvAsFloat("SCREEN_PVP_HIGH", d.DiscountPVPHigh),
		DiscountDY3Min:           getEnvAsFloat("SCREEN_DY3_MIN", d.DiscountDY3Min),
		DiscountDY6Min:           getEnvAsFloat("SCREEN_DY6_MIN", d.DiscountDY6Min),
		DiscountDY12Min:          getEnvAsFloat("SCREEN_DY12_MIN", d.DiscountDY12Min),
		DiscountLiquidityMinMM:   getEnvAsFloat("SCREEN_LIQUIDITY_MIN_MM", d.DiscountLiquidityMinMM),
		DiscountNetAssetsMinMM:   getEnvAsFloat("SCREEN_NET_ASSETS_MIN_MM", d.DiscountNetAssetsMinMM),
		DiscountShareholdersMinK: getEnvAsFloat("SCREEN_SHAREHOLDERS_MIN_K", d.DiscountShareholdersMinK),
		DiscountTopN:             getEnvAsInt("SCREEN_DISCOUNT_TOP_N", d.DiscountTopN),
		LargestTopN:              getEnvAsInt("SCREEN_LARGEST_TOP_N", d.LargestTopN),
		EntryPriceMax:            getEnvAsFloat("ENTRY_PRICE_MAX", d.EntryPriceMax),
		EntryDY12Max:             getEnvAsFloat("ENTRY_DY12_MAX", d.EntryDY12Max),
		EntryTopN:                getEnvAsInt("ENTRY_TOP_N", d.EntryTopN),
	}
}

func loadCompare() compare.Config {
	d := compare.DefaultConfig()
	return compare.Config{
		WPrice:     getEnvAsInt("COMPARE_W_PRICE", d.WPrice),
		WPVP:       getEnvAsInt("COMPARE_W_PVP", d.WPVP),
		WDY12:      getEnvAsInt("COMPARE_W_DY12", d.WDY12),
		WLiquidity: getEnvAsInt("COMPARE_W_LIQUIDITY", d.WLiquidity),
		WNetAssets: getEnvAsInt("COMPARE_W_NET_ASSETS", d.WNetAssets),
	}
}

func loadFunds() funds.Config {
	d := funds.DefaultConfig()
	return funds.Config{
		SelicGrossPct: getEnvAsFloat("SELIC_GROSS", d.SelicGrossPct),
		SelicIR:       getEnvAsFloat("SELIC_IR", d.SelicIR),
		SelicBandPP:   getEnvAsFloat("SELIC_BAND_PP", d.SelicBandPP),
		Notional:      getEnvAsFloat("SIMULATED_NOTIONAL", d.Notional),
	}
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.SnapshotTTL <= 0 {
		return fmt.Errorf("SNAPSHOT_TTL_HOURS must be positive")
	}
	if c.Scoring.PVPBandLow >= c.Scoring.PVPBandHigh {
		return fmt.Errorf("SCORE_PVP_BAND_LOW must be below SCORE_PVP_BAND_HIGH")
	}
	if c.Scoring.TierMargin < 0 {
		return fmt.Errorf("TIER_MARGIN must not be negative")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
