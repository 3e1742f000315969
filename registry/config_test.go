package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[registry]
owner = "57d8c27f-9f22-4d7f-a202-1c4f1c8e2c8b"
name = "Pandora Box"
symbol = "PB"
base-uri = "ipfs://hash/"
allow-remint = false
`
	err := os.WriteFile(path, []byte(data), 0644)
	if err != nil {
		t.Fatalf("write config: %v", err)
	}
	conf, err := Setup(path)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if conf.Registry.Owner != "57d8c27f-9f22-4d7f-a202-1c4f1c8e2c8b" {
		t.Fatalf("owner: %s", conf.Registry.Owner)
	}
	if conf.Registry.Name != "Pandora Box" || conf.Registry.Symbol != "PB" {
		t.Fatalf("collection: %s %s", conf.Registry.Name, conf.Registry.Symbol)
	}
	if conf.Registry.BaseURI != "ipfs://hash/" || conf.Registry.AllowRemint {
		t.Fatalf("options: %s %t", conf.Registry.BaseURI, conf.Registry.AllowRemint)
	}

	invalid := []string{
		"[registry]\nowner = \"not-a-uuid\"\nname = \"N\"\nsymbol = \"S\"\n",
		"[registry]\nowner = \"57d8c27f-9f22-4d7f-a202-1c4f1c8e2c8b\"\nsymbol = \"S\"\n",
	}
	for i, data := range invalid {
		err = os.WriteFile(path, []byte(data), 0644)
		if err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := Setup(path); err == nil {
			t.Fatalf("invalid config %d accepted", i)
		}
	}
}
