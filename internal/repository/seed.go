package repository

import (
	"fmt"
	"os"

	"digital-key-store/internal/model"

	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Products []*model.Product `yaml:"products"`
}

// LoadSeed reads the initial inventory from a YAML file of the form
//
//	products:
//	  - id: key_1day
//	    name: 1 Day
//	    price: 5
//	    keys: [1D-AAAA-0001, 1D-AAAA-0002]
//
// An empty path yields the built-in sample inventory.
func LoadSeed(path string) (model.Inventory, error) {
	if path == "" {
		return model.SampleInventory(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	inventory := model.Inventory{}
	for _, p := range seed.Products {
		if p == nil || p.ID == "" {
			return nil, fmt.Errorf("seed file %s: product without id", path)
		}
		if _, dup := inventory[p.ID]; dup {
			return nil, fmt.Errorf("seed file %s: duplicate product %q", path, p.ID)
		}
		if p.Keys == nil {
			p.Keys = []string{}
		}
		inventory[p.ID] = p
	}
	return inventory, nil
}
