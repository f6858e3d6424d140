package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	ImageHost     ImageHostConfig
	Upload        UploadConfig
	Export        ExportConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DEALERHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"DEALERHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DEALERHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DEALERHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DEALERHUB_DB_DSN"`
	Driver string `envconfig:"DEALERHUB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DEALERHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"DEALERHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DEALERHUB_DB_USER"`
	LegacyPassword string `envconfig:"DEALERHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"DEALERHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"DEALERHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DEALERHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DEALERHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DEALERHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DEALERHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DEALERHUB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DEALERHUB_REDIS_ADDR"`
	Password     string        `envconfig:"DEALERHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"DEALERHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DEALERHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DEALERHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DEALERHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DEALERHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DEALERHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"DEALERHUB_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"DEALERHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"DEALERHUB_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"DEALERHUB_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DEALERHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DEALERHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DEALERHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DEALERHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DEALERHUB_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"DEALERHUB_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"DEALERHUB_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"DEALERHUB_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DEALERHUB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DEALERHUB_AUTO_MIGRATE" default:"false"`
}

type ImageHostConfig struct {
	BaseURL        string        `envconfig:"DEALERHUB_IMAGE_HOST_BASE_URL" default:"https://api.imgbb.com/1"`
	APIKey         string        `envconfig:"DEALERHUB_IMAGE_HOST_API_KEY" required:"true"`
	ExpirationSecs int           `envconfig:"DEALERHUB_IMAGE_HOST_EXPIRATION_SECONDS" default:"0"`
	RequestTimeout time.Duration `envconfig:"DEALERHUB_IMAGE_HOST_REQUEST_TIMEOUT" default:"30s"`
}

type UploadConfig struct {
	GalleryMaxMB    int `envconfig:"DEALERHUB_UPLOAD_GALLERY_MAX_MB" default:"32"`
	AttachmentMaxMB int `envconfig:"DEALERHUB_UPLOAD_ATTACHMENT_MAX_MB" default:"10"`
}

type ExportConfig struct {
	PageSize int `envconfig:"DEALERHUB_EXPORT_PAGE_SIZE" default:"100"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
