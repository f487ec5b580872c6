// Package domain defines the entities shared by every stage of the solve
// pipeline: products, global constraints and ranked objectives.
package domain

import (
	"fmt"
	"math"
	"sort"
)

// Interval is a closed range [Min, Max]. The ingest layer guarantees Min <= Max.
type Interval struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// NewInterval returns the interval [min, max].
func NewInterval(min, max float64) Interval {
	return Interval{Min: min, Max: max}
}

// Midpoint returns the arithmetic mean of the bounds.
func (i Interval) Midpoint() float64 {
	return (i.Min + i.Max) / 2
}

// Contains reports whether other lies entirely within i.
func (i Interval) Contains(other Interval) bool {
	return other.Min >= i.Min && other.Max <= i.Max
}

// StrictlyWider reports whether i contains other and extends beyond it on at
// least one side.
func (i Interval) StrictlyWider(other Interval) bool {
	return i.Contains(other) && (other.Min > i.Min || other.Max < i.Max)
}

// Add returns the bound-wise sum of two intervals.
func (i Interval) Add(other Interval) Interval {
	return Interval{Min: i.Min + other.Min, Max: i.Max + other.Max}
}

// String renders the interval as [min, max].
func (i Interval) String() string {
	return fmt.Sprintf("[%g, %g]", i.Min, i.Max)
}

// LaborCap converts a declared man-hour maximum into a row upper bound. A
// non-positive maximum means the cap is unset.
func LaborCap(max float64) float64 {
	if max <= 0 {
		return math.Inf(1)
	}
	return max
}

// Product holds the declared ranges of a single product line.
type Product struct {
	Name           string
	Cost           Interval
	Profit         Interval // percent
	Demand         Interval
	Budget         Interval
	ManHourPerUnit Interval
	TotalManHours  Interval
}

// RealisticBudget is the spend implied by the product's own cost and demand.
func (p Product) RealisticBudget() Interval {
	return Interval{Min: p.Cost.Min * p.Demand.Min, Max: p.Cost.Max * p.Demand.Max}
}

// RealisticLabor is the man-hour usage implied by the product's own labor
// rate and demand.
func (p Product) RealisticLabor() Interval {
	return Interval{Min: p.ManHourPerUnit.Min * p.Demand.Min, Max: p.ManHourPerUnit.Max * p.Demand.Max}
}

// GlobalConstraints are economy-wide caps that apply across all products.
type GlobalConstraints struct {
	Budget   Interval
	Profit   Interval
	ManHours Interval
}

// Objective is a ranked goal. Lower rank means higher priority.
type Objective struct {
	Name      string
	Direction string
	Rank      int
}

// Catalog maps product names to products.
type Catalog map[string]Product

// Names returns the product names in sorted order. Every per-product loop in
// the pipeline uses this order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Products returns the products ordered by name.
func (c Catalog) Products() []Product {
	names := c.Names()
	products := make([]Product, 0, len(names))
	for _, name := range names {
		products = append(products, c[name])
	}
	return products
}
