package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "github.com/openswoop/hooscheds/pkg/errors"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	SourceDevHub   = "devhub"
	SourceDeptList = "deptlist"
)

type Config struct {
	Env string `validate:"oneof=development production"`

	Database DatabaseConfig
	Source   SourceConfig
	Import   ImportConfig
	Log      LogConfig
	BigQuery BigQueryConfig
	PubSub   PubSubConfig
}

type DatabaseConfig struct {
	Driver       string `validate:"oneof=sqlite3 postgres mysql bigquery"`
	Host         string
	Port         int
	User         string
	Password     string
	Name         string `validate:"required"`
	Path         string
	SSLMode      string
	CreateTables bool
}

// SourceConfig selects the upstream course API and how it is fetched.
type SourceConfig struct {
	Kind           string `validate:"oneof=devhub deptlist"`
	URL            string `validate:"required,url"`
	CoursesPerDept int    `validate:"gte=0"`
	CacheDir       string
}

// ImportConfig holds the normalization and load settings.
type ImportConfig struct {
	Threshold     int    `validate:"gt=0"`
	Term          string `validate:"required"`
	SchoolsFile   string
	Workers       int `validate:"gte=1"`
	CourseWorkers int `validate:"gte=1"`
}

type LogConfig struct {
	Level  string
	Format string
}

type BigQueryConfig struct {
	Project string
	Dataset string
}

// PubSubConfig enables the refresh event when Project is set.
type PubSubConfig struct {
	Project string
	Topic   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Database = DatabaseConfig{
		Driver:       v.GetString("DB_DRIVER"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		Path:         v.GetString("DB_PATH"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		CreateTables: v.GetBool("DB_CREATE_TABLES"),
	}

	if cfg.Database.Port == 0 {
		cfg.Database.Port = defaultPorts[cfg.Database.Driver]
	}
	cfg.Source = SourceConfig{
		Kind:           strings.ToLower(v.GetString("SOURCE")),
		URL:            strings.TrimRight(v.GetString("SOURCE_URL"), "/"),
		CoursesPerDept: v.GetInt("COURSES_PER_DEPT"),
		CacheDir:       v.GetString("CACHE_DIR"),
	}

	cfg.Import = ImportConfig{
		Threshold:     v.GetInt("COURSE_NUMBER_THRESHOLD"),
		Term:          v.GetString("CATALOG_TERM"),
		SchoolsFile:   v.GetString("SCHOOLS_FILE"),
		Workers:       v.GetInt("WORKERS"),
		CourseWorkers: v.GetInt("COURSE_WORKERS"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.BigQuery = BigQueryConfig{
		Project: v.GetString("BIGQUERY_PROJECT"),
		Dataset: v.GetString("BIGQUERY_DATASET"),
	}

	cfg.PubSub = PubSubConfig{
		Project: v.GetString("PUBSUB_PROJECT"),
		Topic:   v.GetString("PUBSUB_TOPIC"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags and the cross-field rules that tags can't express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.Wrap(err, apperrors.CodeConfig, "invalid configuration")
	}
	if c.Database.Driver == "bigquery" && (c.BigQuery.Project == "" || c.BigQuery.Dataset == "") {
		return apperrors.New(apperrors.CodeConfig, "BIGQUERY_PROJECT and BIGQUERY_DATASET are required for the bigquery driver")
	}
	if c.Database.Driver == "sqlite3" && c.Database.Path == "" {
		return apperrors.New(apperrors.CodeConfig, "DB_PATH is required for the sqlite3 driver")
	}
	return nil
}

// DSN builds the data source name handed to database/sql for the configured driver.
func (d DatabaseConfig) DSN() string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", d.User, d.Password, d.Host, d.Port, d.Name)
	default:
		return d.Path
	}
}

// defaultPorts applies when DB_PORT is unset.
var defaultPorts = map[string]int{
	"postgres": 5432,
	"mysql":    3306,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("DB_DRIVER", "sqlite3")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "hooscheds")
	v.SetDefault("DB_PATH", "hooscheds.db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_CREATE_TABLES", true)

	v.SetDefault("SOURCE", SourceDeptList)
	v.SetDefault("SOURCE_URL", "http://localhost:8000")
	v.SetDefault("COURSES_PER_DEPT", 0)
	v.SetDefault("CACHE_DIR", "")

	v.SetDefault("COURSE_NUMBER_THRESHOLD", 6000)
	v.SetDefault("CATALOG_TERM", "Fall 2022")
	v.SetDefault("SCHOOLS_FILE", "")
	v.SetDefault("WORKERS", 4)
	v.SetDefault("COURSE_WORKERS", 4)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("BIGQUERY_PROJECT", "")
	v.SetDefault("BIGQUERY_DATASET", "hooscheds")
	v.SetDefault("PUBSUB_PROJECT", "")
	v.SetDefault("PUBSUB_TOPIC", "catalog-refreshed")
}
