// config.go

package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string   `yaml:"addr"`
	DBPath        string   `yaml:"db_path"`
	CatalogPath   string   `yaml:"catalog_path"`
	StoreName     string   `yaml:"store_name"`
	WhatsAppPhone string   `yaml:"whatsapp_phone"`
	AllowOrigins  []string `yaml:"allow_origins"`
}

func (c *Config) defaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.DBPath == "" {
		c.DBPath = "divine.db"
	}
	if c.CatalogPath == "" {
		c.CatalogPath = "data.json"
	}
	if c.StoreName == "" {
		c.StoreName = "Divine Collections"
	}
	if c.WhatsAppPhone == "" {
		c.WhatsAppPhone = "2348164473941"
	}
	if len(c.AllowOrigins) == 0 {
		c.AllowOrigins = []string{"https://www.divinecollections.ng"}
	}
}

// LoadConfig reads the optional yaml file, then lets environment
// variables override it, then fills defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, err
		}
	}
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CATALOG_PATH"); v != "" {
		cfg.CatalogPath = v
	}
	if v := os.Getenv("STORE_NAME"); v != "" {
		cfg.StoreName = v
	}
	if v := os.Getenv("WHATSAPP_PHONE"); v != "" {
		cfg.WhatsAppPhone = v
	}
	cfg.defaults()
	return &cfg, nil
}
