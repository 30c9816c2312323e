package config // package config loads application configuration from environment variables

import (
	"time"

	"github.com/joho/godotenv" // optional .env file support for local development
)

// defaultJWTSecret is the development fallback signing secret used when
// JWT_SECRET is not set.  Any non-training deployment must override it.
const defaultJWTSecret = "training-secret-key-minimum-256-bits-for-hs256-algorithm"

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable; defaults are chosen so the service starts
// with no environment at all.
type Config struct {
	Env        string        // application environment (e.g. "dev", "prod")
	Port       string        // HTTP port to listen on
	JWTSecret  string        // secret used to sign access tokens
	AccessTTL  time.Duration // access token time-to-live
	BcryptCost int           // bcrypt cost for password hashing
	SeedUsers  bool          // load the default dev users at startup
}

// Load reads configuration from the environment.  A .env file in the
// working directory is merged in first when present; real environment
// variables win over file entries.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Env:        envStr("APP_ENV", "dev"),
		Port:       envStr("APP_PORT", "8080"),
		JWTSecret:  envStr("JWT_SECRET", defaultJWTSecret),
		AccessTTL:  envDur("ACCESS_TOKEN_TTL", time.Hour),
		BcryptCost: envInt("BCRYPT_COST", 10),
		SeedUsers:  envBool("SEED_USERS", true),
	}
}
