package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI         string
	DBName           string
	JWTSecret        string
	OrderPrefix      string
	KafkaBrokers     []string
	KafkaOrdersTopic string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:         getEnvOrDefault("MONGO_URI", ""),
		DBName:           getEnvOrDefault("DB_NAME", "chatstore"),
		JWTSecret:        getEnvOrDefault("JWT_SECRET", ""),
		OrderPrefix:      getEnvOrDefault("ORDER_PREFIX", "HV"),
		KafkaBrokers:     splitCSV(getEnvOrDefault("KAFKA_BROKERS", "")),
		KafkaOrdersTopic: getEnvOrDefault("KAFKA_TOPIC_ORDERS", "storefront.orders"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
