package domain

import (
	_ "embed"
	"encoding/json"
)

//go:embed seed.json
var seedJSON []byte

// SeedDataset returns a fresh copy of the starter directory content.
func SeedDataset() *Dataset {
	var ds Dataset
	if err := json.Unmarshal(seedJSON, &ds); err != nil {
		panic("domain: embedded seed is invalid: " + err.Error())
	}
	if len(ds.Categories) == 0 {
		ds.Categories = DefaultCategories()
	}
	return &ds
}
