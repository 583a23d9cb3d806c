package tracker

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/cache"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/database"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/queue"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/storage"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/vault"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

type AppConfig struct {
	// App
	AppHTTPHost string `env:"APP_HTTP_HOST"`
	AppHTTPPort int    `env:"APP_HTTP_PORT"`
	AppKey      string `env:"APP_KEY"`
	AppURL      string `env:"APP_URL"`
	// App Drivers
	AppDriverStorage  string `env:"APP_DRIVER_STORAGE"`
	AppDriverDatabase string `env:"APP_DRIVER_DATABASE"`
	AppDriverCache    string `env:"APP_DRIVER_CACHE"`
	AppDriverQueue    string `env:"APP_DRIVER_QUEUE"`
	// Services
	AmazonS3AccessKeyID     string `env:"AMAZON_S3_ACCESS_KEY_ID"`
	AmazonS3AccessKeySecret string `env:"AMAZON_S3_ACCESS_KEY_SECRET"`
	AmazonS3Bucket          string `env:"AMAZON_S3_BUCKET"`
	AmazonS3Endpoint        string `env:"AMAZON_S3_ENDPOINT"`
	AmazonS3Region          string `env:"AMAZON_S3_REGION"`
	DatabaseLogQueries      bool   `env:"DATABASE_LOG_QUERIES"`
	LocalStoragePath        string `env:"LOCAL_STORAGE_PATH"`
	MySQLHost               string `env:"MYSQL_HOST"`
	MySQLName               string `env:"MYSQL_NAME"`
	MySQLPass               string `env:"MYSQL_PASS"`
	MySQLPort               int    `env:"MYSQL_PORT"`
	MySQLUser               string `env:"MYSQL_USER"`
	PostgresHost            string `env:"POSTGRES_HOST"`
	PostgresName            string `env:"POSTGRES_NAME"`
	PostgresPass            string `env:"POSTGRES_PASS"`
	PostgresPort            int    `env:"POSTGRES_PORT"`
	PostgresSSLMode         string `env:"POSTGRES_SSL_MODE"`
	PostgresUser            string `env:"POSTGRES_USER"`
	RabbitMQHost            string `env:"RABBITMQ_HOST"`
	RabbitMQPass            string `env:"RABBITMQ_PASS"`
	RabbitMQPort            int    `env:"RABBITMQ_PORT"`
	RabbitMQUser            string `env:"RABBITMQ_USER"`
	RedisHost               string `env:"REDIS_HOST"`
	RedisNumber             int    `env:"REDIS_NUMBER"`
	RedisPass               string `env:"REDIS_PASS"`
	RedisPort               int    `env:"REDIS_PORT"`
	RedisUser               string `env:"REDIS_USER"`
	SQLitePath              string `env:"SQLITE_PATH"`
}

func NewConfig() AppConfig {
	return AppConfig{
		AppDriverCache:    "memory",
		AppDriverDatabase: "sqlite",
		AppDriverQueue:    "memory",
		AppDriverStorage:  "local",
		AppHTTPHost:       "0.0.0.0",
		AppHTTPPort:       2291,
		AppURL:            "http://127.0.0.1:2291",
		LocalStoragePath:  "storage",
		MySQLHost:         "127.0.0.1",
		MySQLPort:         3306,
		PostgresHost:      "127.0.0.1",
		PostgresPort:      5432,
		RabbitMQHost:      "127.0.0.1",
		RabbitMQPort:      5672,
		RedisHost:         "127.0.0.1",
		RedisPort:         6379,
		SQLitePath:        "database.sqlite",
	}
}

// LoadConfig starts from NewConfig and overlays, in increasing priority, the
// given dotenv files found on fs and the process environment. Missing files
// are skipped.
func LoadConfig(fs afero.Fs, dotEnvFiles ...string) (AppConfig, error) {
	config := NewConfig()

	v := viper.New()
	v.AutomaticEnv()

	fileValues := map[string]string{}
	for _, dotEnvFile := range dotEnvFiles {
		values, err := readDotEnv(fs, dotEnvFile)
		if err != nil {
			return AppConfig{}, err
		}

		for key, value := range values {
			fileValues[key] = value
		}
	}

	value := reflect.ValueOf(&config).Elem()
	for i := range value.NumField() {
		field := value.Type().Field(i)
		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		key := strings.ToLower(envName)
		v.SetDefault(key, value.Field(i).Interface())
		if fileValue, found := fileValues[envName]; found {
			v.SetDefault(key, fileValue)
		}

		switch field.Type.Kind() {
		case reflect.String:
			value.Field(i).SetString(v.GetString(key))
		case reflect.Int:
			value.Field(i).SetInt(int64(v.GetInt(key)))
		case reflect.Bool:
			value.Field(i).SetBool(v.GetBool(key))
		default:
			return AppConfig{}, fmt.Errorf("unsupported config field %s", field.Name)
		}
	}

	return config, nil
}

func readDotEnv(fs afero.Fs, path string) (map[string]string, error) {
	file, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}

		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	values, err := godotenv.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return values, nil
}

func (config AppConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", config.AppHTTPHost, config.AppHTTPPort)
}

func (config AppConfig) Vault() (vault.Vault, error) {
	switch len(config.AppKey) {
	case 16, 24, 32:
		return vault.New([]byte(config.AppKey)), nil
	}

	return vault.Vault{}, fmt.Errorf("APP_KEY must be 16, 24 or 32 bytes, got %d", len(config.AppKey))
}

// Storage builds the configured storage driver. Local storage serves its
// signed links under AppURL + StoragePath.
func (config AppConfig) Storage() (storage.Driver, error) {
	switch config.AppDriverStorage {
	case "local":
		storageVault, err := config.Vault()
		if err != nil {
			return nil, err
		}

		driver, err := storage.NewDriverLocal(
			afero.NewBasePathFs(afero.NewOsFs(), config.LocalStoragePath),
			storageVault,
		)
		if err != nil {
			return nil, err
		}
		driver.BaseEndpoint = strings.TrimSuffix(config.AppURL, "/") + strings.TrimSuffix(StoragePath, "/")

		return driver, nil
	case "s3":
		return storage.NewDriverS3(storage.S3Config{
			Endpoint:        config.AmazonS3Endpoint,
			Region:          config.AmazonS3Region,
			Bucket:          config.AmazonS3Bucket,
			AccessKeyID:     config.AmazonS3AccessKeyID,
			AccessKeySecret: config.AmazonS3AccessKeySecret,
		})
	}

	return nil, fmt.Errorf("invalid storage driver: %s", config.AppDriverStorage)
}

func (config AppConfig) Database(configFuncs ...database.ServiceConfigFunc) (*database.Service, error) {
	switch config.AppDriverDatabase {
	case "sqlite":
		return database.New(
			database.NewDriverSQLite(config.SQLitePath),
			configFuncs...,
		)
	case "postgres":
		return database.New(
			database.NewDriverPostgres(database.DriverPostgresConfig{
				Host:    config.PostgresHost,
				Port:    config.PostgresPort,
				User:    config.PostgresUser,
				Pass:    config.PostgresPass,
				Name:    config.PostgresName,
				SSLMode: config.PostgresSSLMode,
			}),
			configFuncs...,
		)
	case "mysql":
		return database.New(
			database.NewDriverMySQL(database.DriverMySQLConfig{
				Host: config.MySQLHost,
				Port: config.MySQLPort,
				User: config.MySQLUser,
				Pass: config.MySQLPass,
				Name: config.MySQLName,
			}),
			configFuncs...,
		)
	}

	return nil, fmt.Errorf("invalid database driver: %s", config.AppDriverDatabase)
}

// Cache builds the configured cache driver. The memory driver sweeps expired
// keys until ctx is done.
func (config AppConfig) Cache(ctx context.Context) (cache.Driver, error) {
	switch config.AppDriverCache {
	case "memory":
		return cache.NewDriverMemory(ctx)
	case "redis":
		return cache.NewDriverRedis(cache.DriverRedisConfig{
			Host:   config.RedisHost,
			Number: config.RedisNumber,
			Pass:   config.RedisPass,
			Port:   config.RedisPort,
			User:   config.RedisUser,
		})
	}

	return nil, fmt.Errorf("invalid cache driver: %s", config.AppDriverCache)
}

func (config AppConfig) Queue() (queue.Driver, error) {
	switch config.AppDriverQueue {
	case "memory":
		return queue.NewDriverMemory()
	case "rabbitmq":
		return queue.NewDriverRabbitMQ(queue.DriverRabbitMQConfig{
			Host: config.RabbitMQHost,
			Pass: config.RabbitMQPass,
			Port: config.RabbitMQPort,
			User: config.RabbitMQUser,
		})
	}

	return nil, fmt.Errorf("invalid queue driver: %s", config.AppDriverQueue)
}
