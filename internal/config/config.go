package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMinio    = "minio"
)

type Config struct {
	Server struct {
		Port         int      `yaml:"port"`
		MaxBodyBytes int64    `yaml:"maxBodyBytes"`
		CORSOrigins  []string `yaml:"corsOrigins"`
		RateLimit    struct {
			Capacity        int `yaml:"capacity"`
			RefillPerSecond int `yaml:"refillPerSecond"`
		} `yaml:"rateLimit"`
	} `yaml:"server"`

	Database struct {
		Driver              string `yaml:"driver"`
		Host                string `yaml:"host"`
		Port                int    `yaml:"port"`
		User                string `yaml:"user"`
		Password            string `yaml:"password"`
		Name                string `yaml:"name"`
		SSLMode             string `yaml:"sslMode"`
		WriteTimeoutSeconds int    `yaml:"writeTimeoutSeconds"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Linter struct {
		Mode           string   `yaml:"mode"`
		Command        []string `yaml:"command"`
		Image          string   `yaml:"image"`
		WorkDir        string   `yaml:"workDir"`
		TimeoutSeconds int      `yaml:"timeoutSeconds"`
	} `yaml:"linter"`
}

// Load reads the yaml config file and fills in defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 1 << 20
	}
	if c.Server.RateLimit.Capacity == 0 {
		c.Server.RateLimit.Capacity = 30
	}
	if c.Server.RateLimit.RefillPerSecond == 0 {
		c.Server.RateLimit.RefillPerSecond = 1
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMySQL
	}
	if c.Database.Port == 0 {
		switch c.Database.Driver {
		case DriverPostgres:
			c.Database.Port = 5432
		default:
			c.Database.Port = 3306
		}
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.WriteTimeoutSeconds == 0 {
		c.Database.WriteTimeoutSeconds = 5
	}
	if c.Linter.Mode == "" {
		c.Linter.Mode = "local"
	}
	if c.Linter.TimeoutSeconds == 0 {
		c.Linter.TimeoutSeconds = 30
	}
}

// Validate checks the values that cannot be defaulted
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres:
		if c.Database.Host == "" || c.Database.Name == "" {
			return fmt.Errorf("database.host and database.name are required for driver %s", c.Database.Driver)
		}
	case DriverMinio:
		if c.Minio.Endpoint == "" || c.Minio.BucketName == "" {
			return fmt.Errorf("minio.endpoint and minio.bucketName are required for driver minio")
		}
	default:
		return fmt.Errorf("unsupported database.driver: %s", c.Database.Driver)
	}
	if c.Server.RateLimit.Capacity <= 0 || c.Server.RateLimit.RefillPerSecond <= 0 {
		return fmt.Errorf("server.rateLimit.capacity and server.rateLimit.refillPerSecond must be positive")
	}
	if c.Linter.Mode != "local" && c.Linter.Mode != "docker" {
		return fmt.Errorf("unsupported linter.mode: %s", c.Linter.Mode)
	}
	return nil
}

// Helper to build the MySQL DSN
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper to build the lib/pq connection URL
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.Name,
		RawQuery: url.Values{"sslmode": []string{c.Database.SSLMode}}.Encode(),
	}
	return u.String()
}

func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Database.WriteTimeoutSeconds) * time.Second
}

func (c *Config) LinterTimeout() time.Duration {
	return time.Duration(c.Linter.TimeoutSeconds) * time.Second
}
