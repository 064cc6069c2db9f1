// Package rates embeds the static regional rate table and derives the
// deterministic baseline estimate used when the model collaborator is
// unavailable.
package rates

import (
	_ "embed"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/buildwise/costplan/internal/model"
)

//go:embed rates.yaml
var ratesYAML []byte

// CityMultiplier scales base rates for a metro area.
type CityMultiplier struct {
	City       string  `yaml:"city"`
	Region     string  `yaml:"region"`
	Multiplier float64 `yaml:"multiplier"`
}

// riskEntry mirrors the YAML risk shape.
type riskEntry struct {
	Risk       string `yaml:"risk"`
	Impact     string `yaml:"impact"`
	Mitigation string `yaml:"mitigation"`
}

// Table is the parsed static rate table.
type Table struct {
	CurrencySymbol     string                            `yaml:"currency_symbol"`
	BaseRates          map[model.ProjectType]float64     `yaml:"base_rates"`
	QualityMultipliers map[model.Quality]float64         `yaml:"quality_multipliers"`
	Splits             map[string]float64                `yaml:"splits"`
	ContingencyPercent float64                           `yaml:"contingency_percent"`
	FloorComplexity    float64                           `yaml:"floor_complexity"`
	CityMultipliers    []CityMultiplier                  `yaml:"city_multipliers"`
	Tips               map[model.ProjectType][]string    `yaml:"tips"`
	Risks              map[model.ProjectType][]riskEntry `yaml:"risks"`
}

var table = mustLoad()

func mustLoad() *Table {
	t, err := Parse(ratesYAML)
	if err != nil {
		panic(err)
	}
	return t
}

// Parse decodes a rate table from YAML.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrap(err, "rates: parse table")
	}
	if t.CurrencySymbol == "" {
		t.CurrencySymbol = "$"
	}
	return &t, nil
}

// Default returns the embedded rate table.
func Default() *Table {
	return table
}

// CityFactor returns the regional multiplier for a "City, Region" location
// string. Matching is case-insensitive on the city name; unknown cities
// get a neutral 1.0.
func (t *Table) CityFactor(location string) float64 {
	city := location
	if idx := strings.Index(location, ","); idx >= 0 {
		city = location[:idx]
	}
	city = strings.TrimSpace(strings.ToLower(city))
	for _, cm := range t.CityMultipliers {
		if strings.ToLower(cm.City) == city {
			return cm.Multiplier
		}
	}
	return 1.0
}

// TipsFor returns the canned efficiency tips for a project type.
func (t *Table) TipsFor(pt model.ProjectType) []string {
	return t.Tips[pt]
}

// RisksFor returns the canned risk list for a project type.
func (t *Table) RisksFor(pt model.ProjectType) []model.RiskItem {
	entries := t.Risks[pt]
	out := make([]model.RiskItem, len(entries))
	for i, e := range entries {
		out[i] = model.RiskItem{
			Risk:       e.Risk,
			Impact:     model.Impact(e.Impact),
			Mitigation: e.Mitigation,
		}
	}
	return out
}
