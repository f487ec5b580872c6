package lpmodel

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/iwvelando/max-profit-solver/pkg/domain"
	"github.com/iwvelando/max-profit-solver/pkg/objective"
	"github.com/iwvelando/max-profit-solver/pkg/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func widget() domain.Product {
	return domain.Product{
		Name:           "Widget",
		Cost:           domain.NewInterval(10, 12),
		Profit:         domain.NewInterval(20, 30),
		Demand:         domain.NewInterval(100, 200),
		Budget:         domain.NewInterval(1000, 2400),
		ManHourPerUnit: domain.NewInterval(1, 2),
		TotalManHours:  domain.NewInterval(0, 400),
	}
}

func widgetGlobal() domain.GlobalConstraints {
	return domain.GlobalConstraints{
		Budget:   domain.NewInterval(1000, 2400),
		ManHours: domain.NewInterval(0, 400),
	}
}

func TestBuildWidgetScenario(t *testing.T) {
	m, err := Build(domain.Catalog{"Widget": widget()}, widgetGlobal(), objective.Weights{Profit: 1})
	require.NoError(t, err)

	require.Len(t, m.Columns, 1)
	col := m.Columns[0]
	assert.Equal(t, 11.0, col.AvgCost)
	assert.InDelta(t, 0.25, col.AvgProfitFraction, 1e-12)
	assert.Equal(t, 25.0, col.AvgProfitPercent)
	assert.Equal(t, 1.5, col.AvgManHour)

	assert.Equal(t, []float64{100}, m.Lower)
	assert.Equal(t, []float64{200}, m.Upper)
	assert.InDelta(t, 2.75, m.Objective[0], 1e-12)
	assert.Equal(t, solver.Maximize, m.Direction)

	require.Len(t, m.Rows, 4)
	assert.Equal(t, solver.Row{Name: "Widget/budget", Indices: []int{0}, Coefs: []float64{11}, Lower: 1000, Upper: 2400}, m.Rows[0])
	assert.Equal(t, solver.Row{Name: "Widget/labor", Indices: []int{0}, Coefs: []float64{1.5}, Lower: 0, Upper: 400}, m.Rows[1])
	assert.Equal(t, "global/budget", m.Rows[2].Name)
	assert.Equal(t, 2400.0, m.Rows[2].Upper)
	assert.Equal(t, "global/labor", m.Rows[3].Name)
	assert.Equal(t, 400.0, m.Rows[3].Upper)
}

func TestBuildAndSolveWidgetScenario(t *testing.T) {
	m, err := Build(domain.Catalog{"Widget": widget()}, widgetGlobal(), objective.Weights{Profit: 1})
	require.NoError(t, err)

	s, err := solver.NewSimplex()
	require.NoError(t, err)

	sol, err := s.Solve(context.Background(), m.Problem())
	require.NoError(t, err)
	require.NoError(t, m.CheckSolution(sol))

	units := sol.Values[0]
	assert.InDelta(t, 200, units, 1e-6)
	col := m.Columns[0]
	assert.InDelta(t, 550, units*col.AvgCost*col.AvgProfitFraction, 1e-6)
}

func TestBuildObjectiveCombinesWeights(t *testing.T) {
	weights := objective.Weights{Profit: 1, Resource: 0.5, Budget: 0.25}
	m, err := Build(domain.Catalog{"Widget": widget()}, widgetGlobal(), weights)
	require.NoError(t, err)

	// 1*(11*0.25) - 0.5*1.5 + 0.25*11
	assert.InDelta(t, 2.75-0.75+2.75, m.Objective[0], 1e-12)
}

func TestBuildUnsetLaborCapIsUnbounded(t *testing.T) {
	p := widget()
	p.TotalManHours = domain.NewInterval(0, 0)
	global := widgetGlobal()
	global.ManHours = domain.NewInterval(0, 0)

	m, err := Build(domain.Catalog{"Widget": p}, global, objective.Weights{Profit: 1})
	require.NoError(t, err)

	assert.True(t, math.IsInf(m.Rows[1].Upper, 1))
	assert.True(t, math.IsInf(m.Rows[3].Upper, 1))
}

func TestBuildIndexFollowsNameOrder(t *testing.T) {
	catalog := domain.Catalog{}
	for _, name := range []string{"Gamma", "Alpha", "Beta"} {
		p := widget()
		p.Name = name
		catalog[name] = p
	}

	m, err := Build(catalog, widgetGlobal(), objective.Weights{Profit: 1})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"Alpha": 0, "Beta": 1, "Gamma": 2}, m.Index)
	col, ok := m.Column("Beta")
	require.True(t, ok)
	assert.Equal(t, 1, col.Index)
	_, ok = m.Column("Delta")
	assert.False(t, ok)

	global := m.Rows[len(m.Rows)-2]
	assert.Equal(t, []int{0, 1, 2}, global.Indices)
	assert.Equal(t, []float64{11, 11, 11}, global.Coefs)
}

func TestBuildIsDeterministic(t *testing.T) {
	catalog := domain.Catalog{}
	for i, name := range []string{"e", "d", "c", "b", "a"} {
		p := widget()
		p.Name = name
		p.Cost = domain.NewInterval(float64(i+1), float64(i+3))
		p.ManHourPerUnit = domain.NewInterval(0.1*float64(i), 0.3*float64(i+1))
		catalog[name] = p
	}
	weights := objective.Weights{Profit: 1, Resource: 1.0 / 3, Budget: 1.0 / 7}

	first, err := Build(catalog, widgetGlobal(), weights)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Build(catalog, widgetGlobal(), weights)
		require.NoError(t, err)
		if diff := cmp.Diff(first.Problem(), again.Problem()); diff != "" {
			t.Fatalf("problem changed between builds (-first +again):\n%s", diff)
		}
	}
}

func TestBuildEmptyCatalog(t *testing.T) {
	_, err := Build(domain.Catalog{}, widgetGlobal(), objective.Weights{})
	assert.ErrorIs(t, err, ErrNoProducts)
}

func TestCheckSolution(t *testing.T) {
	m, err := Build(domain.Catalog{"Widget": widget()}, widgetGlobal(), objective.Weights{Profit: 1})
	require.NoError(t, err)

	assert.Error(t, m.CheckSolution(nil))
	assert.Error(t, m.CheckSolution(&solver.Solution{Values: []float64{1, 2}}))
	assert.Error(t, m.CheckSolution(&solver.Solution{Values: []float64{math.NaN()}}))
	assert.NoError(t, m.CheckSolution(&solver.Solution{Values: []float64{150}}))
}
