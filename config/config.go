package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	AppName string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTAccessSecret   string
	JWTAccessTTLHours int

	// ✅ Redis Config
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ✅ Kafka Config
	KafkaBrokers   []string
	KafkaHitsTopic string

	// ✅ Statistics service
	StatsURL         string
	ViewCacheTTLSecs int

	// Seeded admin account
	AdminEmail    string
	AdminPassword string
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	accessTTL, _ := strconv.Atoi(os.Getenv("JWT_ACCESS_TTL_HOURS"))
	if accessTTL == 0 {
		accessTTL = 12
	}
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	viewTTL, _ := strconv.Atoi(os.Getenv("VIEW_CACHE_TTL_SECONDS"))
	if viewTTL == 0 {
		viewTTL = 60
	}

	brokers := strings.Split(os.Getenv("KAFKA_BROKERS"), ",")
	if len(brokers) == 1 && brokers[0] == "" {
		brokers = []string{"localhost:9092"}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	appName := os.Getenv("APP_NAME")
	if appName == "" {
		appName = "main_server"
	}
	hitsTopic := os.Getenv("KAFKA_HITS_TOPIC")
	if hitsTopic == "" {
		hitsTopic = "endpoint-hits"
	}

	return &Config{
		Port:    port,
		AppName: appName,

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		JWTAccessSecret:   os.Getenv("JWT_ACCESS_SECRET"),
		JWTAccessTTLHours: accessTTL,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		KafkaBrokers:   brokers,
		KafkaHitsTopic: hitsTopic,

		StatsURL:         os.Getenv("STATS_URL"),
		ViewCacheTTLSecs: viewTTL,

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}
