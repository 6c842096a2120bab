package decision

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmehdipour/credit-decision/internal/apperr"
	"github.com/jmehdipour/credit-decision/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGenerator struct {
	calls int
	store *memDecisions
	err   error
}

func (g *countingGenerator) DecideFor(ctx context.Context, identifier string, _ Trigger) (*model.Decision, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	at := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	d := model.Decision{ID: "GEN", CompanyID: identifier, DecidedAt: &at, Label: model.LabelRejected}
	return &d, g.store.Append(ctx, d)
}

func at(day int) *time.Time {
	t := time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC)
	return &t
}

var catalogResolver = fakeResolver{companies: map[string]model.Company{
	"A": {ID: "A"},
	"B": {ID: "B"},
	"C": {ID: "C"},
}}

func TestList_UnfilteredReturnsNewestCompanyFirst(t *testing.T) {
	store := &memDecisions{rows: []model.Decision{
		{ID: "a1", CompanyID: "A", DecidedAt: at(1)},
		{ID: "a2", CompanyID: "A", DecidedAt: at(2)},
		{ID: "b1", CompanyID: "B", DecidedAt: at(5)},
	}}
	c := NewCatalog(store, catalogResolver, &countingGenerator{store: store}, nil)

	got, err := c.List(context.Background(), "", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b1", got[0].ID)

	got, err = c.List(context.Background(), "", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b1", got[0].ID)
	assert.Equal(t, "a2", got[1].ID, "company's current decision, deduplicated")
}

func TestList_NilTimestampsLastAndBlankCompanyPassesThrough(t *testing.T) {
	store := &memDecisions{rows: []model.Decision{
		{ID: "undated", CompanyID: "C"},
		{ID: "orphan", CompanyID: " ", DecidedAt: at(9)},
		{ID: "a1", CompanyID: "A", DecidedAt: at(3)},
	}}
	c := NewCatalog(store, catalogResolver, &countingGenerator{store: store}, nil)

	got, err := c.List(context.Background(), "", 50)
	require.NoError(t, err)
	ids := make([]string, 0, len(got))
	for _, d := range got {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"orphan", "a1", "undated"}, ids)

	got, err = c.List(context.Background(), "", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "orphan", got[0].ID, "blank company counts toward the limit")
}

func TestList_FilteredGeneratesOnce(t *testing.T) {
	store := &memDecisions{}
	gen := &countingGenerator{store: store}
	c := NewCatalog(store, catalogResolver, gen, nil)

	got, err := c.List(context.Background(), "C", 50)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "GEN", got[0].ID)

	got, err = c.List(context.Background(), "C", 50)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, gen.calls)
}

func TestList_FilteredGenerationFailureReturnsEmpty(t *testing.T) {
	store := &memDecisions{}
	gen := &countingGenerator{store: store, err: &apperr.UpstreamError{Op: "score", StatusCode: 500}}
	c := NewCatalog(store, catalogResolver, gen, nil)

	got, err := c.List(context.Background(), "B", 50)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.Equal(t, 1, gen.calls)
}

func TestList_FilterResolutionErrorPropagates(t *testing.T) {
	store := &memDecisions{}
	c := NewCatalog(store, catalogResolver, &countingGenerator{store: store}, nil)

	_, err := c.List(context.Background(), "unknown", 50)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestGetOrGenerate_ExistingSkipsGeneration(t *testing.T) {
	store := &memDecisions{rows: []model.Decision{{ID: "a1", CompanyID: "A", DecidedAt: at(1)}}}
	gen := &countingGenerator{store: store}
	c := NewCatalog(store, catalogResolver, gen, nil)

	d, err := c.GetOrGenerate(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, "a1", d.ID)
	assert.Zero(t, gen.calls)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 1, ClampLimit(0))
	assert.Equal(t, 1, ClampLimit(-5))
	assert.Equal(t, 50, ClampLimit(50))
	assert.Equal(t, 200, ClampLimit(1000))
}
