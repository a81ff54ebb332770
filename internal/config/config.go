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

const envPrefix = "AVAILSHARE_"

type Application struct {
	// Host is the public origin share links are built on.
	Host      string `koanf:"host"`
	Listen    string `koanf:"listen"`
	SharePath string `koanf:"sharepath"`
	Grid      Grid   `koanf:"grid"`
}

type Grid struct {
	DragThreshold float64 `koanf:"dragthreshold"`
	VerticalRatio float64 `koanf:"verticalratio"`
	CoreStart     int     `koanf:"corestart"`
	CoreEnd       int     `koanf:"coreend"`
}

func Defaults() Application {
	return Application{
		Host:      "http://localhost:8181",
		Listen:    ":8181",
		SharePath: "/",
		Grid: Grid{
			DragThreshold: 8,
			VerticalRatio: 1.5,
			CoreStart:     7 * 60,
			CoreEnd:       19 * 60,
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
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

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
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

	if app.Grid.CoreStart < 0 || app.Grid.CoreEnd > 24*60 || app.Grid.CoreStart >= app.Grid.CoreEnd {
		log.Warnf("invalid core hours %d-%d, using defaults", app.Grid.CoreStart, app.Grid.CoreEnd)
		app.Grid.CoreStart, app.Grid.CoreEnd = Defaults().Grid.CoreStart, Defaults().Grid.CoreEnd
	}
	return app, nil
}
