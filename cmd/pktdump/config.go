package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	packetstream "packetstream-go"
)

type config struct {
	Input       string
	MaxBodyLen  uint32
	Level       zerolog.Level
	BodyPreview int
}

type fileConfig struct {
	Input       string `toml:"input"`
	MaxBodyLen  int64  `toml:"max_body_len"`
	LogLevel    string `toml:"log_level"`
	BodyPreview int    `toml:"body_preview"`
}

func defaultConfig() config {
	return config{
		Input:       "-",
		MaxBodyLen:  packetstream.DefaultMaxBodyLen,
		Level:       zerolog.InfoLevel,
		BodyPreview: 0,
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load pktdump config: %w", err)
	}

	if meta.IsDefined("input") {
		in := strings.TrimSpace(raw.Input)
		if in != "" {
			cfg.Input = in
		}
	}

	if meta.IsDefined("max_body_len") {
		if raw.MaxBodyLen < 0 || raw.MaxBodyLen > math.MaxUint32 {
			return config{}, fmt.Errorf("max_body_len out of range: %d", raw.MaxBodyLen)
		}
		cfg.MaxBodyLen = uint32(raw.MaxBodyLen)
	}

	if meta.IsDefined("log_level") {
		level, err := zerolog.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return config{}, fmt.Errorf("parse log_level: %w", err)
		}
		cfg.Level = level
	}

	if meta.IsDefined("body_preview") {
		if raw.BodyPreview < 0 {
			return config{}, fmt.Errorf("body_preview must not be negative: %d", raw.BodyPreview)
		}
		cfg.BodyPreview = raw.BodyPreview
	}

	return cfg, nil
}
