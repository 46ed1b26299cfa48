package storage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vyrodovalexey/restadmin/internal/model"
)

// SeedData is the content of a seed file.
//
// Example:
//
//	products:
//	  - id: 1
//	    title: Shoe
//	    images: https://img.example/shoe.png
//	    price: 50
//	users:
//	  - firstName: Ada
//	    lastName: Lovelace
//	    email: ada@example.com
//	    username: ada
//	    phone: "+44 20 7946 0000"
type SeedData struct {
	Products []model.Product `yaml:"products"`
	Users    []model.User    `yaml:"users"`
}

// LoadSeedFile reads seed records from a YAML file.
func LoadSeedFile(path string) (*SeedData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	return ParseSeed(data)
}

// ParseSeed decodes seed records from YAML.
func ParseSeed(data []byte) (*SeedData, error) {
	var seed SeedData
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed data: %w", err)
	}
	return &seed, nil
}

// Apply seeds both collections.
func (d *SeedData) Apply(products *MemoryStorage[model.Product], users *MemoryStorage[model.User]) {
	products.Seed(d.Products...)
	users.Seed(d.Users...)
}
