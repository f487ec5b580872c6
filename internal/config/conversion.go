package config

import (
	"github.com/iwvelando/max-profit-solver/pkg/domain"
)

// Catalog converts the product list to a domain catalog keyed by name.
func (c *Configuration) Catalog() domain.Catalog {
	catalog := make(domain.Catalog, len(c.Products))
	for _, p := range c.Products {
		catalog[p.Name] = p.ToProduct()
	}
	return catalog
}

// ToProduct converts a product configuration to a domain product.
func (p ProductConfig) ToProduct() domain.Product {
	return domain.Product{
		Name:           p.Name,
		Cost:           p.Cost.Interval(),
		Profit:         p.Profit.Interval(),
		Demand:         p.Demand.Interval(),
		Budget:         p.Budget.Interval(),
		ManHourPerUnit: p.ManHourPerUnit.Interval(),
		TotalManHours:  p.TotalManHours.Interval(),
	}
}

// GlobalConstraints converts the global section to domain constraints.
func (c *Configuration) GlobalConstraints() domain.GlobalConstraints {
	return domain.GlobalConstraints{
		Budget:   c.Global.Budget.Interval(),
		Profit:   c.Global.Profit.Interval(),
		ManHours: c.Global.ManHours.Interval(),
	}
}

// ObjectiveList converts the objectives in declaration order.
func (c *Configuration) ObjectiveList() []domain.Objective {
	objectives := make([]domain.Objective, 0, len(c.Objectives))
	for _, o := range c.Objectives {
		objectives = append(objectives, domain.Objective{Name: o.Name, Direction: o.Direction, Rank: o.Rank})
	}
	return objectives
}
