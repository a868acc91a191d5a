package metrics

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supermodeler/modeler"
	"supermodeler/validators"
)

func newRegistry(t *testing.T) (*modeler.Registry, *Collector, *prometheus.Registry) {
	t.Helper()

	promReg := prometheus.NewRegistry()
	collector := NewCollector(Config{Namespace: "test"}, promReg)
	reg := modeler.New(modeler.WithObserver(collector))

	_, err := reg.DefineModel("Point", modeler.Schema{
		Validate: true,
		Properties: []modeler.Property{
			{Name: "x", Validation: []modeler.Constraint{{Kind: "presence"}}},
		},
	})
	require.NoError(t, err)
	_, err = reg.DefineMap("Raw", "Point", modeler.Rules{modeler.From("x", "px")})
	require.NoError(t, err)

	return reg, collector, promReg
}

func TestCollector_RecordsOutcomes(t *testing.T) {
	reg, c, _ := newRegistry(t)

	_, err := reg.Create("Point", map[string]any{"x": 1})
	require.NoError(t, err)
	_, err = reg.Create("Point", nil)
	require.Error(t, err)
	_, err = reg.Create("Missing", nil)
	require.Error(t, err)

	_, err = reg.MapAll([]map[string]any{{"px": 1}, {"px": 2}}, "Raw", "Point")
	require.NoError(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(c.constructions.WithLabelValues(OpCreate, "Point", "", StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.constructions.WithLabelValues(OpCreate, "Point", "", StatusInvalid)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.constructions.WithLabelValues(OpCreate, UnknownName, "", StatusNotFound)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.constructions.WithLabelValues(OpMap, "Point", "Raw", StatusSuccess)), 0)
}

func TestCollector_Exposition(t *testing.T) {
	reg, _, promReg := newRegistry(t)

	_, err := reg.Map(map[string]any{"px": 3}, "Raw", "Point")
	require.NoError(t, err)

	expected := `
# HELP test_constructions_total Total number of model constructions
# TYPE test_constructions_total counter
test_constructions_total{model="Point",operation="map",source="Raw",status="success"} 1
`
	require.NoError(t, testutil.GatherAndCompare(promReg, strings.NewReader(expected), "test_constructions_total"))

	n, err := testutil.GatherAndCount(promReg, "test_construction_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCollector_NotFoundNamesShareOneSeries(t *testing.T) {
	reg, c, promReg := newRegistry(t)

	for _, name := range []string{"A", "B", "C"} {
		_, err := reg.Create(name, nil)
		require.ErrorIs(t, err, modeler.ErrNotFound)

		_, err = reg.Map(map[string]any{}, name, "Point")
		require.ErrorIs(t, err, modeler.ErrNotFound)
	}

	assert.InDelta(t, 3, testutil.ToFloat64(c.constructions.WithLabelValues(OpCreate, UnknownName, "", StatusNotFound)), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(c.constructions.WithLabelValues(OpMap, UnknownName, UnknownName, StatusNotFound)), 0)

	n, err := testutil.GatherAndCount(promReg, "test_constructions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNewCollector_NilRegisterer(t *testing.T) {
	c := NewCollector(Config{}, nil)
	c.ObserveCreate("A", 0, nil)

	assert.InDelta(t, 1, testutil.ToFloat64(c.constructions.WithLabelValues(OpCreate, "A", "", StatusSuccess)), 0)
}

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: StatusSuccess},
		{err: fmt.Errorf("wrapped: %w", &modeler.ValidationError{Field: "x", Message: "x is empty"}), want: StatusInvalid},
		{err: &modeler.NotFoundError{Kind: "model", Name: "A"}, want: StatusNotFound},
		{err: errors.New("boom"), want: StatusError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.err))
	}
}

func TestStatus_CustomValidationErrorIsInvalid(t *testing.T) {
	promReg := prometheus.NewRegistry()
	c := NewCollector(Config{Namespace: "test"}, promReg)

	errCustom := errors.New("custom")
	reg := modeler.New(
		modeler.WithObserver(c),
		modeler.WithValidators(validators.Default()),
		modeler.WithValidationError(func(_, msg string) error { return fmt.Errorf("%w: %s", errCustom, msg) }),
	)

	_, err := reg.DefineModel("P", modeler.Schema{
		Validate:   true,
		Properties: []modeler.Property{{Name: "x", Validation: []modeler.Constraint{{Kind: "presence"}}}},
	})
	require.NoError(t, err)

	_, err = reg.Create("P", nil)
	require.ErrorIs(t, err, errCustom)

	assert.InDelta(t, 1, testutil.ToFloat64(c.constructions.WithLabelValues(OpCreate, "P", "", StatusInvalid)), 0)
}
