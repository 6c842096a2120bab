package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/jmehdipour/credit-decision/internal/apperr"
	"github.com/jmehdipour/credit-decision/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompanies struct {
	byID    map[string]model.Company
	byTaxID map[string]model.Company
	err     error
	calls   []string
}

func newFakeCompanies(cs ...model.Company) *fakeCompanies {
	f := &fakeCompanies{byID: map[string]model.Company{}, byTaxID: map[string]model.Company{}}
	for _, c := range cs {
		f.byID[c.ID] = c
		if c.TaxID != nil {
			f.byTaxID[*c.TaxID] = c
		}
	}
	return f
}

func (f *fakeCompanies) GetByID(_ context.Context, id string) (*model.Company, error) {
	f.calls = append(f.calls, "id:"+id)
	if f.err != nil {
		return nil, f.err
	}
	if c, ok := f.byID[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakeCompanies) GetByTaxID(_ context.Context, taxID string) (*model.Company, error) {
	f.calls = append(f.calls, "tax:"+taxID)
	if f.err != nil {
		return nil, f.err
	}
	if c, ok := f.byTaxID[taxID]; ok {
		return &c, nil
	}
	return nil, nil
}

func strPtr(s string) *string { return &s }

func TestResolve_AllFormsReturnSameCompany(t *testing.T) {
	digits := newFakeCompanies(model.Company{ID: "CNPJ_00042", TaxID: strPtr("00000000000042")})
	masked := newFakeCompanies(model.Company{ID: "CNPJ_12345", TaxID: strPtr("ab.123/x")})
	upperTax := newFakeCompanies(model.Company{ID: "CNPJ_77777", TaxID: strPtr("AB-77")})

	tests := []struct {
		name       string
		companies  *fakeCompanies
		identifier string
		wantID     string
	}{
		{"canonical id", digits, "CNPJ_00042", "CNPJ_00042"},
		{"canonical id lowercase padded", digits, "  cnpj_00042 ", "CNPJ_00042"},
		{"exact tax id", masked, "ab.123/x", "CNPJ_12345"},
		{"uppercase tax id", upperTax, "ab-77", "CNPJ_77777"},
		{"padded 14 digit tax id", digits, "42", "CNPJ_00042"},
		{"masked tax id", digits, "00.000.000/0000-42", "CNPJ_00042"},
		{"five digit suffix", masked, "9912345", "CNPJ_12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(tt.companies)
			c, err := svc.Resolve(context.Background(), tt.identifier)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, c.ID)
		})
	}
}

func TestResolve_EarlierFormWins(t *testing.T) {
	tests := []struct {
		name       string
		companies  []model.Company
		identifier string
		wantID     string
	}{
		{
			name: "canonical id beats tax id",
			companies: []model.Company{
				{ID: "CNPJ_00001", TaxID: strPtr("11111111111111")},
				{ID: "CNPJ_00002", TaxID: strPtr("CNPJ_00001")},
			},
			identifier: "CNPJ_00001",
			wantID:     "CNPJ_00001",
		},
		{
			name: "exact tax id beats uppercase tax id",
			companies: []model.Company{
				{ID: "CNPJ_00003", TaxID: strPtr("ab-1")},
				{ID: "CNPJ_00004", TaxID: strPtr("AB-1")},
			},
			identifier: "ab-1",
			wantID:     "CNPJ_00003",
		},
		{
			name: "padded tax id beats suffix id",
			companies: []model.Company{
				{ID: "CNPJ_00005", TaxID: strPtr("00000000012345")},
				{ID: "CNPJ_12345", TaxID: strPtr("99999999999999")},
			},
			identifier: "12345",
			wantID:     "CNPJ_00005",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(newFakeCompanies(tt.companies...)).Resolve(context.Background(), tt.identifier)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, c.ID)
		})
	}
}

func TestResolve_LookupOrder(t *testing.T) {
	f := newFakeCompanies()

	_, err := New(f).Resolve(context.Background(), " ab-42 ")
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, []string{
		"id:AB-42",
		"tax:ab-42",
		"tax:AB-42",
		"tax:00000000000042",
		"id:CNPJ_00042",
	}, f.calls)
}

func TestResolve_BlankIsInvalidInput(t *testing.T) {
	svc := New(newFakeCompanies())
	for _, in := range []string{"", "   ", "\t"} {
		_, err := svc.Resolve(context.Background(), in)
		assert.True(t, errors.Is(err, apperr.ErrInvalidInput), "input %q", in)
	}
}

func TestResolve_UnmatchedIsNotFound(t *testing.T) {
	svc := New(newFakeCompanies(model.Company{ID: "CNPJ_00001", TaxID: strPtr("00000000000001")}))

	_, err := svc.Resolve(context.Background(), "ACME")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Contains(t, err.Error(), "ACME")
}

func TestResolve_RepositoryErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	f := newFakeCompanies()
	f.err = boom

	_, err := New(f).Resolve(context.Background(), "CNPJ_00001")
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, apperr.ErrNotFound))
}

func TestResolveID(t *testing.T) {
	svc := New(newFakeCompanies(model.Company{ID: "CNPJ_00007", TaxID: strPtr("00000000000007")}))
	id, err := svc.ResolveID(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "CNPJ_00007", id)
}
