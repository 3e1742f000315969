package registry

import (
	"fmt"
	"os"

	"github.com/gofrs/uuid"
	"github.com/pelletier/go-toml"
)

type Configuration struct {
	Registry struct {
		Owner       string `toml:"owner"`
		Name        string `toml:"name"`
		Symbol      string `toml:"symbol"`
		BaseURI     string `toml:"base-uri"`
		AllowRemint bool   `toml:"allow-remint"`
	} `toml:"registry"`
}

func Setup(path string) (*Configuration, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf Configuration
	err = toml.Unmarshal(f, &conf)
	if err != nil {
		return nil, err
	}
	if _, err := uuid.FromString(conf.Registry.Owner); err != nil {
		return nil, fmt.Errorf("invalid registry owner %s", conf.Registry.Owner)
	}
	if conf.Registry.Name == "" || conf.Registry.Symbol == "" {
		return nil, fmt.Errorf("registry name and symbol required")
	}
	return &conf, nil
}
