package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable, e.g. HMIS_PATHS_RAW_DIR
const EnvPrefix = "HMIS"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Storage   StorageConfig   `yaml:"storage" envconfig:"STORAGE"`
	Cleaning  CleaningConfig  `yaml:"cleaning" envconfig:"CLEANING"`
	Modeling  ModelingConfig  `yaml:"modeling" envconfig:"MODELING"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/hmis.log"`
}

// PathsConfig contains file system locations. Relative paths resolve
// against BaseDir, which defaults to the working directory.
type PathsConfig struct {
	BaseDir    string `yaml:"base_dir" envconfig:"BASE_DIR"`
	RawDir     string `yaml:"raw_dir" envconfig:"RAW_DIR" default:"data/raw" validate:"required"`
	AuxDir     string `yaml:"aux_dir" envconfig:"AUX_DIR" default:"data/auxiliary" validate:"required"`
	CleanDir   string `yaml:"clean_dir" envconfig:"CLEAN_DIR" default:"clean" validate:"required"`
	WekaDir    string `yaml:"weka_dir" envconfig:"WEKA_DIR" default:"weka" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
	SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
}

// StorageConfig selects the blob backend holding cleaned tables
type StorageConfig struct {
	Driver string   `yaml:"driver" envconfig:"DRIVER" default:"fs" validate:"oneof=fs memory s3"`
	S3     S3Config `yaml:"s3" envconfig:"S3"`
}

// S3Config configures the S3 backend. Endpoint may point at MinIO.
type S3Config struct {
	Bucket       string `yaml:"bucket" envconfig:"BUCKET" validate:"required_if=Enabled true"`
	Prefix       string `yaml:"prefix" envconfig:"PREFIX" default:"hmis/"`
	Region       string `yaml:"region" envconfig:"REGION" default:"us-east-1"`
	Endpoint     string `yaml:"endpoint" envconfig:"ENDPOINT"`
	UsePathStyle bool   `yaml:"use_path_style" envconfig:"USE_PATH_STYLE"`
	Enabled      bool   `yaml:"-" ignored:"true"`
}

// CleaningConfig holds the dates the cleaning rules depend on
type CleaningConfig struct {
	// DumpDate is the export date of the raw data
	DumpDate string `yaml:"dump_date" envconfig:"DUMP_DATE" default:"2014-07-01" validate:"datetime=2006-01-02"`
	// SwitchDate is the date the source system went live; older records are dropped
	SwitchDate string `yaml:"switch_date" envconfig:"SWITCH_DATE" default:"2012-09-16" validate:"datetime=2006-01-02"`
}

// DumpTime parses DumpDate
func (c CleaningConfig) DumpTime() time.Time {
	t, _ := time.Parse("2006-01-02", c.DumpDate)
	return t
}

// SwitchTime parses SwitchDate
func (c CleaningConfig) SwitchTime() time.Time {
	t, _ := time.Parse("2006-01-02", c.SwitchDate)
	return t
}

// ModelingConfig controls external classifier runs
type ModelingConfig struct {
	RunWekaScript string  `yaml:"run_weka_script" envconfig:"RUN_WEKA_SCRIPT" default:"scripts/run_weka.sh" validate:"required"`
	MaxParallel   int     `yaml:"max_parallel" envconfig:"MAX_PARALLEL" default:"0" validate:"gte=0"`
	LaunchRate    float64 `yaml:"launch_rate" envconfig:"LAUNCH_RATE" default:"0" validate:"gte=0"`
	FeatureFile   string  `yaml:"feature_file" envconfig:"FEATURE_FILE"`
}

// ServerConfig contains the status server configuration
type ServerConfig struct {
	Addr            string        `yaml:"addr" envconfig:"ADDR" default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// TelemetryConfig contains OpenTelemetry settings
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME" default:"hmis"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none" validate:"oneof=none stdout"`
	TraceFile     string `yaml:"trace_file" envconfig:"TRACE_FILE" default:"logs/traces.json"`
	Metrics       bool   `yaml:"metrics" envconfig:"METRICS" default:"true"`
}

// Load loads configuration from environment variables and an optional YAML
// file. Explicitly set environment variables take precedence over the file,
// and the file takes precedence over defaults. An empty file argument
// searches the usual locations.
func Load(file string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if file == "" {
		file = getConfigFilePath()
	}
	if file != "" {
		fileConfig, err := loadFromFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", file, err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs overlays non-zero file values onto the env config, except
// for fields whose environment variable was set explicitly
func mergeConfigs(fileConfig, envConfig Config) Config {
	mergeStruct(reflect.ValueOf(&envConfig).Elem(), reflect.ValueOf(fileConfig), EnvPrefix)
	return envConfig
}

func mergeStruct(dst, src reflect.Value, prefix string) {
	typ := dst.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.Tag.Get("ignored") == "true" {
			continue
		}
		key := prefix + "_" + field.Tag.Get("envconfig")
		if field.Type.Kind() == reflect.Struct {
			mergeStruct(dst.Field(i), src.Field(i), key)
			continue
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if !src.Field(i).IsZero() {
			dst.Field(i).Set(src.Field(i))
		}
	}
}

// Validate checks field constraints and normalizes derived settings
func (c *Config) Validate() error {
	c.Storage.S3.Enabled = c.Storage.Driver == "s3"

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging output %q needs a file path", c.Logging.Output)
	}
	if !c.Cleaning.SwitchTime().Before(c.Cleaning.DumpTime()) {
		return fmt.Errorf("switch date %s must precede dump date %s", c.Cleaning.SwitchDate, c.Cleaning.DumpDate)
	}
	return nil
}

// getConfigFilePath returns the path to the config file, honoring HMIS_CONFIG
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}
	locations := []string{
		"hmis.yaml",
		"configs/hmis.yaml",
		"../configs/hmis.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/hmis.log",
		},
		Paths: PathsConfig{
			RawDir:   "data/raw",
			AuxDir:   "data/auxiliary",
			CleanDir: "clean",
			WekaDir:  "weka",
			LogsDir:  "logs",
		},
		Storage: StorageConfig{
			Driver: "fs",
			S3:     S3Config{Prefix: "hmis/", Region: "us-east-1"},
		},
		Cleaning: CleaningConfig{
			DumpDate:   "2014-07-01",
			SwitchDate: "2012-09-16",
		},
		Modeling: ModelingConfig{
			RunWekaScript: "scripts/run_weka.sh",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Telemetry: TelemetryConfig{
			ServiceName:   "hmis",
			TraceExporter: "none",
			TraceFile:     "logs/traces.json",
			Metrics:       true,
		},
	}
}
