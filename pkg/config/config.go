// Package config は、CLIのデフォルト値を上書きするYAML設定ファイルを読み込みます。
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config は設定ファイルの内容です。省略した項目はゼロ値 (ポインタの場合は nil) になり、
// CLIのデフォルト値がそのまま使われます。
type Config struct {
	URL           string `yaml:"url"`
	FeedURL       string `yaml:"feed_url"`
	Limit         int    `yaml:"limit"`
	Timeout       int    `yaml:"timeout"` // 秒
	MaxRetries    *int   `yaml:"max_retries"`
	ImplicitTbody *bool  `yaml:"implicit_tbody"`
	Log           Log    `yaml:"log"`
}

// Log はログ出力の設定です。
type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load は path のYAMLファイルを読み込み、検証します。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました (%s): %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("設定ファイルのパースに失敗しました (%s): %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("設定ファイルが不正です (%s): %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("limit には0以上の値を指定してください: %d", c.Limit)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout には0以上の値を指定してください: %d", c.Timeout)
	}
	if c.MaxRetries != nil && *c.MaxRetries < 0 {
		return fmt.Errorf("max_retries には0以上の値を指定してください: %d", *c.MaxRetries)
	}
	return nil
}
