package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/iwvelando/max-profit-solver/pkg/constants"
)

const (
	legacyGlobalSection     = "Global"
	legacyObjectivesSection = "Objectives"
)

// ParseLegacyFile opens path and parses it with ParseLegacy.
func ParseLegacyFile(path string) (*Configuration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()
	return ParseLegacy(f)
}

// ParseLegacy reads the sectioned key/value input format:
//
//	[Global]
//	global_budget = 0, 5000
//
//	[Objectives]
//	maximize_profit = 1
//
//	[Widget]
//	product_name = Widget
//	cost_range = 10, 12
//
// Blank lines and lines starting with # or ; are skipped. Any section other
// than Global and Objectives describes one product, named by product_name
// or, when absent, by the section header. Unknown keys are ignored. The
// returned configuration is not yet normalized.
func ParseLegacy(r io.Reader) (*Configuration, error) {
	conf := &Configuration{}
	scanner := bufio.NewScanner(r)

	var (
		section string
		product *ProductConfig
		lineNo  int
	)
	flush := func() {
		if product == nil {
			return
		}
		if product.Name == "" {
			product.Name = section
		}
		conf.Products = append(conf.Products, *product)
		product = nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}

		if line[0] == '[' && line[len(line)-1] == ']' {
			flush()
			section = strings.TrimSpace(line[1 : len(line)-1])
			if section != legacyGlobalSection && section != legacyObjectivesSection {
				product = &ProductConfig{}
			}
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: invalid config line: %q", lineNo, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		var err error
		switch {
		case section == legacyGlobalSection:
			err = parseLegacyGlobal(&conf.Global, key, value)
		case section == legacyObjectivesSection:
			var obj ObjectiveConfig
			obj, err = parseLegacyObjective(key, value)
			if err == nil {
				conf.Objectives = append(conf.Objectives, obj)
			}
		case product != nil:
			err = parseLegacyProduct(product, key, value)
		default:
			err = fmt.Errorf("key %q outside of any section", key)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading legacy config: %w", err)
	}
	flush()

	return conf, nil
}

func parseLegacyGlobal(g *GlobalConfig, key, value string) error {
	var target *Range
	switch key {
	case "global_budget":
		target = &g.Budget
	case "global_profit":
		target = &g.Profit
	case "global_man_hours":
		target = &g.ManHours
	default:
		return nil
	}
	r, err := ParseRange(value)
	if err != nil {
		return err
	}
	*target = r
	return nil
}

func parseLegacyObjective(key, value string) (ObjectiveConfig, error) {
	direction, name, ok := strings.Cut(key, "_")
	if !ok {
		return ObjectiveConfig{}, fmt.Errorf("invalid objective key: %q", key)
	}
	if direction != constants.DirectionMaximize && direction != constants.DirectionMinimize {
		return ObjectiveConfig{}, fmt.Errorf("invalid objective type: %q", direction)
	}
	rank, err := strconv.Atoi(value)
	if err != nil {
		return ObjectiveConfig{}, fmt.Errorf("invalid rank for objective %q: %w", key, err)
	}
	return ObjectiveConfig{Name: name, Direction: direction, Rank: rank}, nil
}

func parseLegacyProduct(p *ProductConfig, key, value string) error {
	var target *Range
	switch key {
	case "product_name":
		p.Name = value
		return nil
	case "cost_range":
		target = &p.Cost
	case "profit_range":
		target = &p.Profit
	case "demand_range":
		target = &p.Demand
	case "budget_range":
		target = &p.Budget
	case "man_hour_per_unit":
		target = &p.ManHourPerUnit
	case "total_man_hours":
		target = &p.TotalManHours
	default:
		return nil
	}
	r, err := ParseRange(value)
	if err != nil {
		return err
	}
	*target = r
	return nil
}
