// Package config loads application configuration from environment
// variables.  A .env file in the working directory is read first when
// present; real environment variables take precedence over it.
package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the core runtime values.  Each field corresponds to an
// environment variable.
type Config struct {
	Env                  string         // APP_ENV (dev, prod)
	Port                 string         // APP_PORT
	DBUser               string         // DB_USER
	DBPass               string         // DB_PASS (optional)
	DBHost               string         // DB_HOST
	DBPort               string         // DB_PORT
	DBName               string         // DB_NAME
	DBBootstrap          bool           // DB_BOOTSTRAP creates the tables on startup
	JWTSecret            string         // JWT_SECRET signs operator tokens
	AccessTTLMin         int            // ACCESS_TOKEN_TTL_MIN
	AdminUser            string         // ADMIN_USER
	AdminPasswordHash    string         // ADMIN_PASSWORD_HASH (bcrypt), gates reset and menu edits
	OperatorUser         string         // OPERATOR_USER
	OperatorPasswordHash string         // OPERATOR_PASSWORD_HASH (bcrypt, optional)
	SnapshotTTL          time.Duration  // SNAPSHOT_CACHE_TTL, 0 disables the in-process cache
	LegacyTZ             *time.Location // LEGACY_TIMEZONE, zone of stored timestamps that carry no offset
}

// Load reads configuration values and returns a Config.  Missing
// required variables stop the program with a fatal log message.
func Load() Config {
	LoadDotEnv(".env")
	return Config{
		Env:                  must("APP_ENV"),
		Port:                 must("APP_PORT"),
		DBUser:               must("DB_USER"),
		DBPass:               os.Getenv("DB_PASS"),
		DBHost:               must("DB_HOST"),
		DBPort:               must("DB_PORT"),
		DBName:               must("DB_NAME"),
		DBBootstrap:          envBool("DB_BOOTSTRAP", true),
		JWTSecret:            must("JWT_SECRET"),
		AccessTTLMin:         envInt("ACCESS_TOKEN_TTL_MIN", 60),
		AdminUser:            envStr("ADMIN_USER", "admin"),
		AdminPasswordHash:    must("ADMIN_PASSWORD_HASH"),
		OperatorUser:         envStr("OPERATOR_USER", "operator"),
		OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
		SnapshotTTL:          envDur("SNAPSHOT_CACHE_TTL", 60*time.Second),
		LegacyTZ:             envLocation("LEGACY_TIMEZONE", time.Local),
	}
}

// LoadDotEnv loads path into the environment without overriding
// variables that are already set.  A missing file is not an error.
func LoadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: could not read %s: %v", path, err)
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if dur, err := time.ParseDuration(os.Getenv(k)); err == nil {
		return dur
	}
	return d
}

func envLocation(k string, d *time.Location) *time.Location {
	name := os.Getenv(k)
	if name == "" {
		return d
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("config: %s=%q: %v, using %s", k, name, err, d)
		return d
	}
	return loc
}
