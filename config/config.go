package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	// All variables
	GO_ENV       string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	PORT         int
	// JWT Configuration
	JWT_SECRET             string
	JWT_ISSUER             string
	JWT_ACCESS_TTL_MINUTES int
	JWT_REFRESH_TTL_HOURS  int
	// Redis Configuration
	REDIS_URL string
	// SMTP Configuration
	SMTP_HOST     string
	SMTP_PORT     string
	SMTP_USERNAME string
	SMTP_PASSWORD string
	SMTP_FROM     string
	// Application
	APP_URL         string
	ALLOWED_ORIGINS string
	CRON_ENABLED    bool
	ADMIN_EMAIL     string
	ADMIN_PASSWORD  string
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	// Database defaults
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	accessTTL, err := strconv.Atoi(os.Getenv("JWT_ACCESS_TTL_MINUTES"))
	if err != nil || accessTTL <= 0 {
		accessTTL = 30
	}

	refreshTTL, err := strconv.Atoi(os.Getenv("JWT_REFRESH_TTL_HOURS"))
	if err != nil || refreshTTL <= 0 {
		refreshTTL = 24 * 7
	}

	cronEnabled, err := strconv.ParseBool(os.Getenv("CRON_ENABLED"))
	if err != nil {
		cronEnabled = true
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      dbHost,
		DB_PORT:      dbPort,
		DB_SSL_MODE:  os.Getenv("DB_SSL_MODE"),
		PORT:         port,
		// JWT
		JWT_SECRET:             os.Getenv("JWT_SECRET"),
		JWT_ISSUER:             os.Getenv("JWT_ISSUER"),
		JWT_ACCESS_TTL_MINUTES: accessTTL,
		JWT_REFRESH_TTL_HOURS:  refreshTTL,
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// SMTP
		SMTP_HOST:     os.Getenv("SMTP_HOST"),
		SMTP_PORT:     os.Getenv("SMTP_PORT"),
		SMTP_USERNAME: os.Getenv("SMTP_USERNAME"),
		SMTP_PASSWORD: os.Getenv("SMTP_PASSWORD"),
		SMTP_FROM:     os.Getenv("SMTP_FROM"),
		// Application
		APP_URL:         os.Getenv("APP_URL"),
		ALLOWED_ORIGINS: os.Getenv("ALLOWED_ORIGINS"),
		CRON_ENABLED:    cronEnabled,
		ADMIN_EMAIL:     os.Getenv("ADMIN_EMAIL"),
		ADMIN_PASSWORD:  os.Getenv("ADMIN_PASSWORD"),
	}

	return envVariables, nil
}
