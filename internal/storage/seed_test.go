package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const testSeed = `
products:
  - id: 1
    title: Shoe
    images: https://img.example/shoe.png
    price: 50
users:
  - id: 3
    firstName: Ada
    lastName: Lovelace
    email: ada@example.com
    username: ada
    phone: "+44 20 7946 0000"
`

func TestLoadSeedFile(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(testSeed), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	products := NewProductStorage()
	users := NewUserStorage()

	// Act
	seed, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("LoadSeedFile() error = %v", err)
	}
	seed.Apply(products, users)

	// Assert
	p, err := products.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get(product 1) error = %v", err)
	}
	if p.Title != "Shoe" || p.Price != 50 {
		t.Errorf("product = %+v", *p)
	}
	u, err := users.Get(context.Background(), 3)
	if err != nil {
		t.Fatalf("Get(user 3) error = %v", err)
	}
	if u.FirstName != "Ada" || u.Phone != "+44 20 7946 0000" {
		t.Errorf("user = %+v", *u)
	}
}

func TestLoadSeedFile_Errors(t *testing.T) {
	// Missing file
	if _, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadSeedFile() expected error for missing file")
	}

	// Malformed YAML
	if _, err := ParseSeed([]byte("products: [unterminated")); err == nil {
		t.Error("ParseSeed() expected error for malformed YAML")
	}
}
