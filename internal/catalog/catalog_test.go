package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.Len(t, c.Packages, 4)

	tests := []struct {
		id    string
		cat   Category
		price int
	}{
		{"foam-wash", SUV, 499},
		{"gold-steam", Hatchback, 899},
		{"gold-steam", Sedan, 999},
		{"platinum-steam", SUV, 1899},
		{"teflon-coating", Sedan, 4999},
	}

	for _, tt := range tests {
		t.Run(tt.id+"/"+string(tt.cat), func(t *testing.T) {
			price, ok := c.Price(tt.id, tt.cat)
			require.True(t, ok)
			assert.Equal(t, tt.price, price)
		})
	}

	gold, ok := c.Lookup("gold-steam")
	require.True(t, ok)
	assert.True(t, gold.Popular)

	_, ok = c.Price("ceramic", SUV)
	assert.False(t, ok)
}

func TestFormatPrice(t *testing.T) {
	c := Default()
	assert.Equal(t, "₹499", c.FormatPrice(499))
	assert.Equal(t, "₹4,999", c.FormatPrice(4999))
	assert.Equal(t, "₹1,234,567", c.FormatPrice(1234567))
	assert.Equal(t, "₹0", c.FormatPrice(0))
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    Category
		wantErr bool
	}{
		{"hatchback", Hatchback, false},
		{"Sedan", Sedan, false},
		{"mini-suv", Sedan, false},
		{"SUV", SUV, false},
		{"truck", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `currency: "$"
packages:
  - id: quick-rinse
    name: Quick Rinse
    features: [Rinse, Dry]
    prices:
      Hatchback: 15
      "Sedan / Mini-SUV": 18
      SUV: 1200
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "$", c.Currency)
	require.Len(t, c.Packages, 1)

	price, ok := c.Price("quick-rinse", SUV)
	require.True(t, ok)
	assert.Equal(t, "$1,200", c.FormatPrice(price))
}

func TestParseRejectsIncompleteCatalog(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "packages: []"},
		{"missing id", "packages:\n  - name: X\n    prices: {Hatchback: 1, \"Sedan / Mini-SUV\": 1, SUV: 1}\n"},
		{"missing price", "packages:\n  - id: x\n    prices: {Hatchback: 1}\n"},
		{"duplicate", "packages:\n  - id: x\n    prices: {Hatchback: 1, \"Sedan / Mini-SUV\": 1, SUV: 1}\n  - id: x\n    prices: {Hatchback: 1, \"Sedan / Mini-SUV\": 1, SUV: 1}\n"},
		{"bad yaml", "packages: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}
