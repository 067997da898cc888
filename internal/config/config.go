// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
)

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string

	// Config is the path to the Config file.
	Config string

	// AllowedOrigin is the origin permitted by the CORS middleware.
	AllowedOrigin string

	// SessionTTLMinutes is how long a login session stays valid.
	SessionTTLMinutes int

	// BcryptCost is the cost factor for password hashing.
	BcryptCost int

	// MaxBodyBytes caps the size of incoming request bodies.
	MaxBodyBytes int64
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Address, "a", "localhost:3000", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	flag.StringVar(&options.AllowedOrigin, "origin", "http://localhost:5173", "allowed CORS origin")
	flag.IntVar(&options.SessionTTLMinutes, "session-ttl", 24*60, "session lifetime in minutes")
	flag.IntVar(&options.BcryptCost, "bcrypt-cost", 10, "bcrypt cost factor")
	flag.Int64Var(&options.MaxBodyBytes, "max-body", 10<<20, "max request body size in bytes")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Address = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if origin := os.Getenv("ALLOWED_ORIGIN"); origin != "" {
		options.AllowedOrigin = origin
	}

	return options
}
