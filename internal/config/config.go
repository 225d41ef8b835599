package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Auth       AuthConfig       `toml:"auth"`
	Query      QueryConfig      `toml:"query"`
	Normalizer NormalizerConfig `toml:"normalizer"`
	Cache      CacheConfig      `toml:"cache"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type AuthConfig struct {
	JWTSecret      string `toml:"jwt_secret"`
	TokenExpiryMin int    `toml:"token_expiry_min"`
}

// QueryConfig tunes assertion selection and edge derivation.
type QueryConfig struct {
	// EdgeLimit caps assertion selection before predicate post-filtering
	// and ranking.
	EdgeLimit int `toml:"edge_limit"`
	// CurrentVersion is the data-release tag evidence must carry to appear
	// in query results.
	CurrentVersion int `toml:"current_version"`
	// XrefPrefixes are the identifier namespaces treated as external
	// cross-references (matched by CURIE prefix) rather than internal ids.
	XrefPrefixes []string `toml:"xref_prefixes"`
}

type NormalizerConfig struct {
	URL            string `toml:"url"`
	TimeoutSec     int    `toml:"timeout_sec"`
	RequestsPerSec int    `toml:"requests_per_sec"`
}

type CacheConfig struct {
	LookupTTLSec  int `toml:"lookup_ttl_sec"`
	OptionsTTLSec int `toml:"options_ttl_sec"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Database: DatabaseConfig{
			Path: "data/assertions.db",
		},
		Auth: AuthConfig{
			JWTSecret:      "change-me-in-production",
			TokenExpiryMin: 1440, // 24h
		},
		Query: QueryConfig{
			EdgeLimit:      500,
			CurrentVersion: 2,
			XrefPrefixes:   []string{"UniProtKB"},
		},
		Normalizer: NormalizerConfig{
			URL:            "https://nodenormalization-sri.renci.org/get_normalized_nodes",
			TimeoutSec:     10,
			RequestsPerSec: 5,
		},
		Cache: CacheConfig{
			LookupTTLSec:  30,
			OptionsTTLSec: 600,
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
