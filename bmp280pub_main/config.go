package main

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	NATS struct {
		URL     string `yaml:"url"`     // e.g. nats://127.0.0.1:4222
		Subject string `yaml:"subject"` // e.g. bmp280.readings
	} `yaml:"nats"`

	I2C struct {
		Bus     int `yaml:"bus"`
		Address int `yaml:"address"`
	} `yaml:"i2c"`

	Publish struct {
		Interval time.Duration `yaml:"interval"` // e.g. 1s
	} `yaml:"publish"`
}

func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, err
		}
	}

	if cfg.NATS.URL == "" {
		cfg.NATS.URL = "nats://127.0.0.1:4222"
	}
	if cfg.NATS.Subject == "" {
		cfg.NATS.Subject = "bmp280.readings"
	}
	if cfg.I2C.Bus == 0 {
		cfg.I2C.Bus = 1
	}
	if cfg.I2C.Address == 0 {
		cfg.I2C.Address = 0x77
	}
	if cfg.Publish.Interval == 0 {
		cfg.Publish.Interval = time.Second
	}

	return &cfg, nil
}
