package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	ModeTerminal = "terminal"
	ModeScript   = "script"
)

type Config struct {
	LogLevel   string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	LogFile    string   `yaml:"log-file" env:"LOG_FILE" env-default:""`
	Mode       string   `yaml:"mode" env:"MODE" env-default:"terminal"`
	ScriptPath string   `yaml:"script-path" env:"SCRIPT_PATH" env-default:""`
	Debug      bool     `yaml:"debug" env:"DEBUG" env-default:"false"`
	Board      Board    `yaml:"board"`
	Players    []Player `yaml:"players"`
}

type Board struct {
	Rows      int `yaml:"rows" env:"BOARD_ROWS" env-default:"3"`
	Columns   int `yaml:"columns" env:"BOARD_COLUMNS" env-default:"3"`
	RunLength int `yaml:"run-length" env:"BOARD_RUN_LENGTH" env-default:"3"`
}

type Player struct {
	Piece string `yaml:"piece"`
	Name  string `yaml:"name"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	if len(config.Players) == 0 {
		config.Players = DefaultPlayers()
	}

	return config
}

// DefaultPlayers are X and O, X moving first.
func DefaultPlayers() []Player {
	return []Player{
		{Piece: "X"},
		{Piece: "O"},
	}
}
