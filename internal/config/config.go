package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host     string   `koanf:"host"`
	Frontend Frontend `koanf:"frontend"`
	Board    Board    `koanf:"board"`
	Feed     Feed     `koanf:"feed"`
	Database Database `koanf:"db"`
}

type Frontend struct {
	Enabled bool `koanf:"enabled"`
}

type Board struct {
	// WindowDays is how many consecutive days the weekly pattern is
	// materialized for, starting today.
	WindowDays int `koanf:"windowdays"`
	// PageSeconds is how long one announcement page stays visible before
	// the rotation advances.
	PageSeconds int `koanf:"pageseconds"`
}

type Feed struct {
	// URL of the remote live departures feed. Empty disables the feed and
	// the board shows the personal schedule only.
	URL string `koanf:"url"`
	// RefreshSeconds between feed fetches.
	RefreshSeconds int `koanf:"refreshseconds"`
}

type Database struct {
	Path string `koanf:"path"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host: "http://localhost:7000",
		Frontend: Frontend{
			Enabled: true,
		},
		Board: Board{
			WindowDays:  7,
			PageSeconds: 16,
		},
		Feed: Feed{
			RefreshSeconds: 60,
		},
		Database: Database{
			Path: "trackboard.db",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "TRACKBOARD_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "TRACKBOARD_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
