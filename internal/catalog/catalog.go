package catalog

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is the vehicle size class used for pricing.
type Category string

const (
	Hatchback Category = "Hatchback"
	Sedan     Category = "Sedan / Mini-SUV"
	SUV       Category = "SUV"
)

// Categories in display order.
var Categories = []Category{Hatchback, Sedan, SUV}

// ParseCategory matches a category by name or by a short alias.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hatchback", "hatch":
		return Hatchback, nil
	case "sedan", "mini-suv", "sedan / mini-suv":
		return Sedan, nil
	case "suv":
		return SUV, nil
	}
	return "", fmt.Errorf("unknown vehicle category: %s", s)
}

// Package is one service offering.
type Package struct {
	ID       string           `yaml:"id"`
	Name     string           `yaml:"name"`
	Features []string         `yaml:"features"`
	Prices   map[Category]int `yaml:"prices"`
	Popular  bool             `yaml:"popular,omitempty"`
}

// Catalog is the set of packages on offer.
type Catalog struct {
	Currency string    `yaml:"currency"`
	Packages []Package `yaml:"packages"`
}

// Default returns the packages advertised on the site.
func Default() *Catalog {
	return &Catalog{
		Currency: "₹",
		Packages: []Package{
			{
				ID:   "foam-wash",
				Name: "Foam Wash",
				Features: []string{
					"Exterior Foam Wash",
					"Vacuuming",
					"Dashboard Polishing",
					"Wheel Dressing",
				},
				Prices: map[Category]int{Hatchback: 499, Sedan: 499, SUV: 499},
			},
			{
				ID:   "gold-steam",
				Name: "Gold Steam Wash",
				Features: []string{
					"Exterior Steam Wash",
					"Interior Steam Cleaning",
					"Vacuuming",
					"Dashboard Polishing",
					"Wheel Dressing",
					"Deodorizing",
					"Vehicle Body Polishing",
					"A/c Vents Steam & Sanitizing",
				},
				Prices:  map[Category]int{Hatchback: 899, Sedan: 999, SUV: 999},
				Popular: true,
			},
			{
				ID:   "platinum-steam",
				Name: "Platinum Steam Wash",
				Features: []string{
					"Exterior Steam Wash",
					"Interior Steam Cleaning",
					"Vacuuming",
					"Dashboard Polishing",
					"Wheel Dressing",
					"Deodorizing",
					"Vehicle Body Polishing",
					"A/c Vents Steam & Sanitizing",
					"Seat & Roof Shampooing",
				},
				Prices: map[Category]int{Hatchback: 1699, Sedan: 1799, SUV: 1899},
			},
			{
				ID:   "teflon-coating",
				Name: "Teflon Coating",
				Features: []string{
					"Exterior Teflon Coating",
					"Waxing",
					"Exterior Steam Wash",
					"Interior Steam Cleaning",
					"Vacuuming",
					"Dashboard Polishing",
					"Wheel Dressing",
					"Deodorizing",
					"Vehicle Body Polishing",
					"A/c Vents Steam & Sanitizing",
				},
				Prices: map[Category]int{Hatchback: 4499, Sedan: 4999, SUV: 5999},
			},
		},
	}
}

// Load reads a catalog from a YAML file. An empty path yields Default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	return Parse(data)
}

// Parse decodes and checks a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	if c.Currency == "" {
		c.Currency = Default().Currency
	}
	return &c, nil
}

func (c *Catalog) check() error {
	if len(c.Packages) == 0 {
		return errors.New("catalog has no packages")
	}
	seen := make(map[string]bool, len(c.Packages))
	for i, p := range c.Packages {
		if p.ID == "" {
			return fmt.Errorf("package %d: missing id", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("package %s: duplicate id", p.ID)
		}
		seen[p.ID] = true
		for _, cat := range Categories {
			if _, ok := p.Prices[cat]; !ok {
				return fmt.Errorf("package %s: no price for %s", p.ID, cat)
			}
		}
	}
	return nil
}

// Lookup finds a package by id.
func (c *Catalog) Lookup(id string) (Package, bool) {
	for _, p := range c.Packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

// Price returns the price of a package for a vehicle category.
func (c *Catalog) Price(id string, cat Category) (int, bool) {
	p, ok := c.Lookup(id)
	if !ok {
		return 0, false
	}
	price, ok := p.Prices[cat]
	return price, ok
}

// FormatPrice renders an amount with the catalog currency and thousands separators.
func (c *Catalog) FormatPrice(amount int) string {
	return c.Currency + groupThousands(amount)
}

func groupThousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
