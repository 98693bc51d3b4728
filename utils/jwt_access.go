package utils

import (
	"log"
	"os"
	"strconv"
)

var (
	JWTSecretKey               string
	JWTExpirationTime          int64
	RefreshTokenExpirationTime int64
)

// InitJWT loads the signing key and token lifetimes, exiting when any is
// missing. The test environment gets safe defaults so suites run without
// a .env file.
func InitJWT() {
	if os.Getenv("GO_ENV") == "test" {
		setDefaultEnv("JWT_SECRET_KEY", "test_secret_key")
		setDefaultEnv("JWT_EXPIRATION_TIME", "3600")
		setDefaultEnv("REFRESH_TOKEN_EXPIRATION_TIME", "604800")
	}

	JWTSecretKey = os.Getenv("JWT_SECRET_KEY")
	if JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY not set")
	}

	JWTExpirationTime = requiredEnvSeconds("JWT_EXPIRATION_TIME")
	RefreshTokenExpirationTime = requiredEnvSeconds("REFRESH_TOKEN_EXPIRATION_TIME")
}

func setDefaultEnv(key, value string) {
	if os.Getenv(key) == "" {
		os.Setenv(key, value)
	}
}

func requiredEnvSeconds(key string) int64 {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("%s not set", key)
	}
	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Fatalf("%s is not a number of seconds: %v", key, err)
	}
	return seconds
}
