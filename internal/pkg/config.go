package pkg

import (
	"os"
	"strconv"
	"strings"
)

// Config 全部来自环境变量；main 里先 godotenv.Load 再取
type Config struct {
	Addr     string
	MySQLDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTAccessSecret  string
	JWTRefreshSecret string

	SweepKey string // 到期清扫端点的共享密钥

	SMTP  SMTPConfig
	Kafka KafkaConfig
	OSS   OSSConfig
}

func LoadConfig() Config {
	return Config{
		Addr:     envOr("APP_ADDR", ":8080"),
		MySQLDSN: envOr("MYSQL_DSN", "user:password@tcp(127.0.0.1:3306)/atelier?charset=utf8mb4&parseTime=True"),

		RedisAddr:     envOr("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		JWTAccessSecret:  os.Getenv("JWT_ACCESS_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),

		SweepKey: envOr("SWEEP_KEY", "dev-sweep-key"),

		SMTP: SMTPConfig{
			Host:     envOr("SMTP_HOST", "smtp.example.com"),
			Port:     envInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     envOr("SMTP_FROM", "NoReply <no-reply@example.com>"),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(envOr("KAFKA_BROKERS", "127.0.0.1:9092"), ","),
			Topic:   envOr("KAFKA_TOPIC", "atelier-events"),
		},
		OSS: OSSConfig{
			Endpoint:  envOr("OSS_ENDPOINT", "127.0.0.1:9000"),
			AccessKey: os.Getenv("OSS_ACCESS_KEY"),
			SecretKey: os.Getenv("OSS_SECRET_KEY"),
			Bucket:    envOr("OSS_BUCKET", "atelier-attachments"),
			UseSSL:    envBool("OSS_USE_SSL", false),
		},
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
