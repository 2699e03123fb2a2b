package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverMySQL = "mysql"
	DriverMongo = "mongo"

	defaultJWTTTL          = 5 * time.Hour
	defaultShutdownTimeout = 10 * time.Second
)

var ErrJWTSecretRequired = errors.New("JWT_SECRET must be set")

type Config struct {
	Port     string
	Env      string
	LogLevel string

	StoreDriver    string
	DatabaseDSN    string
	MongoURI       string
	MongoDatabase  string
	MigrateOnStart bool

	JWTSecret string
	JWTTTL    time.Duration

	HashAlgorithm     string
	Argon2MemoryKiB   uint32
	Argon2Iterations  uint32
	Argon2Parallelism uint8
	BcryptCost        int

	ShutdownTimeout time.Duration
}

// Load reads the process configuration from the environment. It is called
// once at startup; the returned value is passed explicitly from then on.
func Load() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", DriverMySQL)),
		DatabaseDSN:   getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/cohort_tools?parseTime=true"),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "cohort-tools-api"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		HashAlgorithm: strings.ToLower(getEnv("HASH_ALGORITHM", "argon2id")),
	}

	var err error
	if cfg.MigrateOnStart, err = getEnvBool("MIGRATE_ON_START", true); err != nil {
		return Config{}, err
	}
	if cfg.JWTTTL, err = getEnvDuration("JWT_TTL", defaultJWTTTL); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return Config{}, err
	}

	memory, err := getEnvUint("ARGON2_MEMORY_KIB", 64*1024, 32)
	if err != nil {
		return Config{}, err
	}
	iterations, err := getEnvUint("ARGON2_ITERATIONS", 3, 32)
	if err != nil {
		return Config{}, err
	}
	parallelism, err := getEnvUint("ARGON2_PARALLELISM", 2, 8)
	if err != nil {
		return Config{}, err
	}
	cfg.Argon2MemoryKiB = uint32(memory)
	cfg.Argon2Iterations = uint32(iterations)
	cfg.Argon2Parallelism = uint8(parallelism)

	cost, err := getEnvUint("BCRYPT_COST", 12, 8)
	if err != nil {
		return Config{}, err
	}
	cfg.BcryptCost = int(cost)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return ErrJWTSecretRequired
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	switch c.StoreDriver {
	case DriverMySQL:
		if c.DatabaseDSN == "" {
			return errors.New("DATABASE_DSN must be set when STORE_DRIVER=mysql")
		}
	case DriverMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			return errors.New("MONGODB_URI and MONGODB_DATABASE must be set when STORE_DRIVER=mongo")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// Address returns the listen address for http.Server.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvUint(key string, fallback uint64, bits int) (uint64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseUint(v, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
