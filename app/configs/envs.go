package configs

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ENV struct {
	AppEnv   string
	AppURL   string
	Port     string
	LogLevel string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	AppAuthKey string
	AppEncKey  string
	TokenTTL   time.Duration

	MidtransServerKey  string
	MidtransClientKey  string
	MidtransProduction bool
	PaymentSecret      string
	PaymentCurrency    string

	ShiprocketBaseURL  string
	ShiprocketEmail    string
	ShiprocketPassword string
	ShiprocketTokenTTL time.Duration

	EmailHost     string
	EmailPort     string
	EmailUsername string
	EmailPassword string
	EmailFrom     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	QuoteCacheTTL time.Duration

	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

func (e ENV) IsProduction() bool {
	return e.AppEnv == "production"
}

func LoadEnv() ENV {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_URL", "http://localhost:8080")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("TOKEN_TTL", "168h")
	v.SetDefault("PAYMENT_CURRENCY", "IDR")
	v.SetDefault("SHIPROCKET_BASE_URL", "https://apiv2.shiprocket.in")
	v.SetDefault("SHIPROCKET_TOKEN_TTL", "168h")
	v.SetDefault("EMAIL_PORT", "587")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("QUOTE_CACHE_TTL", "10m")
	v.SetDefault("MONGO_DATABASE", "marketplace")
	v.SetDefault("MONGO_COLLECTION", "order_audit")

	env := ENV{
		AppEnv:   v.GetString("APP_ENV"),
		AppURL:   v.GetString("APP_URL"),
		Port:     v.GetString("APP_PORT"),
		LogLevel: v.GetString("LOG_LEVEL"),

		DBHost:     v.GetString("DB_HOST"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBPort:     v.GetString("DB_PORT"),

		AppAuthKey: v.GetString("APP_AUTH_KEY"),
		AppEncKey:  v.GetString("APP_ENC_KEY"),
		TokenTTL:   v.GetDuration("TOKEN_TTL"),

		MidtransServerKey:  v.GetString("MIDTRANS_SERVER_KEY"),
		MidtransClientKey:  v.GetString("MIDTRANS_CLIENT_KEY"),
		MidtransProduction: v.GetBool("MIDTRANS_PRODUCTION"),
		PaymentSecret:      v.GetString("PAYMENT_SIGNATURE_SECRET"),
		PaymentCurrency:    v.GetString("PAYMENT_CURRENCY"),

		ShiprocketBaseURL:  v.GetString("SHIPROCKET_BASE_URL"),
		ShiprocketEmail:    v.GetString("SHIPROCKET_EMAIL"),
		ShiprocketPassword: v.GetString("SHIPROCKET_PASSWORD"),
		ShiprocketTokenTTL: v.GetDuration("SHIPROCKET_TOKEN_TTL"),

		EmailHost:     v.GetString("EMAIL_HOST"),
		EmailPort:     v.GetString("EMAIL_PORT"),
		EmailUsername: v.GetString("EMAIL_USERNAME"),
		EmailPassword: v.GetString("EMAIL_PASSWORD"),
		EmailFrom:     v.GetString("EMAIL_FROM"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		QuoteCacheTTL: v.GetDuration("QUOTE_CACHE_TTL"),

		MongoURI:        v.GetString("MONGO_URI"),
		MongoDatabase:   v.GetString("MONGO_DATABASE"),
		MongoCollection: v.GetString("MONGO_COLLECTION"),
	}
	if env.EmailFrom == "" {
		env.EmailFrom = env.EmailUsername
	}
	return env
}
