package config

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/pkg/hazard"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Database   DatabaseConfig   `mapstructure:"database"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Valkey     ValkeyConfig     `mapstructure:"valkey"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Temporal   TemporalConfig   `mapstructure:"temporal"`
	Routing    RoutingConfig    `mapstructure:"routing"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig points at the port/coastline catalogue. When disabled the
// built-in catalogue is served.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName  string `mapstructure:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	Enabled      bool   `mapstructure:"enabled"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

// RoutingConfig describes the external route-computation service.
type RoutingConfig struct {
	URL             string `mapstructure:"url"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
}

func (r RoutingConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// SimulationConfig holds the voyage simulation constants.
type SimulationConfig struct {
	CruisingSpeedKnots float64            `mapstructure:"cruising_speed_knots"`
	TickIntervalMs     int                `mapstructure:"tick_interval_ms"`
	HazardCount        int                `mapstructure:"hazard_count"`
	PlacedRadiusKm     float64            `mapstructure:"placed_radius_km"`
	DynamicRadiusKm    float64            `mapstructure:"dynamic_radius_km"`
	Bounds             domain.BoundingBox `mapstructure:"bounds"`
	Ranges             hazard.Ranges      `mapstructure:"ranges"`
	DefaultStart       string             `mapstructure:"default_start"`
	DefaultEnd         string             `mapstructure:"default_end"`
	DefaultShipType    string             `mapstructure:"default_ship_type"`
	DefaultSensitivity string             `mapstructure:"default_sensitivity"`
	MaxVoyages         int                `mapstructure:"max_voyages"`
	IdleTTLMinutes     int                `mapstructure:"idle_ttl_minutes"`
}

func (s SimulationConfig) TickInterval() time.Duration {
	return time.Duration(s.TickIntervalMs) * time.Millisecond
}

func (s SimulationConfig) IdleTTL() time.Duration {
	return time.Duration(s.IdleTTLMinutes) * time.Minute
}

// Load reads configuration from .env, an optional config file and
// environment variables, in increasing precedence.
func Load(service string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "searoute")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "searoute")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_endpoint", "localhost:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "voyages")
	v.SetDefault("routing.url", "http://localhost:5000/calculate_route")
	v.SetDefault("routing.timeout_seconds", 15)
	v.SetDefault("routing.cache_ttl_seconds", 600)
	v.SetDefault("simulation.cruising_speed_knots", 10.0)
	v.SetDefault("simulation.tick_interval_ms", 1000)
	v.SetDefault("simulation.hazard_count", 3)
	v.SetDefault("simulation.placed_radius_km", 50.0)
	v.SetDefault("simulation.dynamic_radius_km", 20.0)
	v.SetDefault("simulation.bounds.min_lat", 10.0)
	v.SetDefault("simulation.bounds.min_lon", 75.0)
	v.SetDefault("simulation.bounds.max_lat", 20.0)
	v.SetDefault("simulation.bounds.max_lon", 85.0)
	ranges := hazard.DefaultRanges()
	v.SetDefault("simulation.ranges.temperature.min", ranges.Temperature.Min)
	v.SetDefault("simulation.ranges.temperature.max", ranges.Temperature.Max)
	v.SetDefault("simulation.ranges.pressure.min", ranges.Pressure.Min)
	v.SetDefault("simulation.ranges.pressure.max", ranges.Pressure.Max)
	v.SetDefault("simulation.ranges.wind_speed.min", ranges.WindSpeed.Min)
	v.SetDefault("simulation.ranges.wind_speed.max", ranges.WindSpeed.Max)
	v.SetDefault("simulation.ranges.wave_height.min", ranges.WaveHeight.Min)
	v.SetDefault("simulation.ranges.wave_height.max", ranges.WaveHeight.Max)
	v.SetDefault("simulation.default_start", "19.0760, 72.8777")
	v.SetDefault("simulation.default_end", "22.5726, 88.3639")
	v.SetDefault("simulation.default_ship_type", "cargo")
	v.SetDefault("simulation.default_sensitivity", "high")
	v.SetDefault("simulation.max_voyages", 1000)
	v.SetDefault("simulation.idle_ttl_minutes", 60)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: SEAROUTE_ROUTING_URL → routing.url
	v.SetEnvPrefix("SEAROUTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Database.Enabled {
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Routing.URL == "" {
		errs = append(errs, "routing.url is required")
	}
	if c.Routing.TimeoutSeconds <= 0 {
		errs = append(errs, "routing.timeout_seconds must be positive")
	}

	sim := c.Simulation
	if sim.CruisingSpeedKnots <= 0 || math.IsNaN(sim.CruisingSpeedKnots) || math.IsInf(sim.CruisingSpeedKnots, 0) {
		errs = append(errs, fmt.Sprintf("simulation.cruising_speed_knots must be positive, got %v", sim.CruisingSpeedKnots))
	}
	if sim.TickIntervalMs <= 0 {
		errs = append(errs, "simulation.tick_interval_ms must be positive")
	}
	if sim.HazardCount < 0 {
		errs = append(errs, "simulation.hazard_count must not be negative")
	}
	if sim.MaxVoyages < 0 || sim.IdleTTLMinutes < 0 {
		errs = append(errs, "simulation.max_voyages and simulation.idle_ttl_minutes must not be negative")
	}
	if sim.PlacedRadiusKm <= 0 || sim.DynamicRadiusKm <= 0 {
		errs = append(errs, "simulation hazard radii must be positive")
	}
	if err := sim.Bounds.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("simulation.bounds: %v", err))
	}
	if err := sim.Ranges.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("simulation.ranges: %v", err))
	}
	if _, err := domain.ParseWaypoint(sim.DefaultStart); err != nil {
		errs = append(errs, fmt.Sprintf("simulation.default_start: %v", err))
	}
	if _, err := domain.ParseWaypoint(sim.DefaultEnd); err != nil {
		errs = append(errs, fmt.Sprintf("simulation.default_end: %v", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
