package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() CreateWarrantyInput {
	return CreateWarrantyInput{
		Type:        "Garantia de Execução",
		Beneficiary: "Prefeitura de Campinas",
		Value:       "1500.50",
		StartDate:   "2024-01-01",
		EndDate:     "2024-12-31",
		Description: "  obra ponte  ",
	}
}

func TestDraft_Valid(t *testing.T) {
	w, err := validInput().Draft()
	require.NoError(t, err)
	assert.True(t, w.Value.Equal(decimal.RequireFromString("1500.50")))
	assert.Equal(t, "2024-01-01", w.StartDate.String())
	assert.Equal(t, "2024-12-31", w.EndDate.String())
	assert.Equal(t, StatusPending, w.Status)
	require.NotNil(t, w.Description)
	assert.Equal(t, "obra ponte", *w.Description)
}

func TestDraft_IgnoresInjectedStatus(t *testing.T) {
	for _, s := range []string{"issued", "confirmed", "rejected", "bogus"} {
		in := validInput()
		in.Status = s
		w, err := in.Draft()
		require.NoError(t, err)
		assert.Equal(t, StatusPending, w.Status)
	}
}

func TestDraft_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*CreateWarrantyInput)
		field string
	}{
		{"missing type", func(in *CreateWarrantyInput) { in.Type = "  " }, "type"},
		{"missing beneficiary", func(in *CreateWarrantyInput) { in.Beneficiary = "" }, "beneficiary"},
		{"missing value", func(in *CreateWarrantyInput) { in.Value = "" }, "value"},
		{"non numeric value", func(in *CreateWarrantyInput) { in.Value = "abc" }, "value"},
		{"zero value", func(in *CreateWarrantyInput) { in.Value = "0" }, "value"},
		{"negative value", func(in *CreateWarrantyInput) { in.Value = "-10" }, "value"},
		{"too many decimals", func(in *CreateWarrantyInput) { in.Value = "1.005" }, "value"},
		{"value overflows column", func(in *CreateWarrantyInput) { in.Value = "1e15" }, "value"},
		{"value at upper bound", func(in *CreateWarrantyInput) { in.Value = "1000000000000" }, "value"},
		{"bad start", func(in *CreateWarrantyInput) { in.StartDate = "2024-02-30" }, "startDate"},
		{"bad end", func(in *CreateWarrantyInput) { in.EndDate = "31/12/2024" }, "endDate"},
		{"end before start", func(in *CreateWarrantyInput) { in.EndDate = "2023-12-31" }, "endDate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mut(&in)
			_, err := in.Draft()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestDraft_SameDayAllowed(t *testing.T) {
	in := validInput()
	in.EndDate = in.StartDate
	_, err := in.Draft()
	assert.NoError(t, err)
}

func TestCheckWritable(t *testing.T) {
	w := &Warranty{
		Status:    StatusPending,
		Value:     decimal.Zero,
		StartDate: NewDate(2024, 1, 1),
		EndDate:   NewDate(2024, 1, 1),
	}
	assert.NoError(t, w.CheckWritable())

	w.Value = decimal.NewFromInt(-1)
	assert.ErrorIs(t, w.CheckWritable(), ErrValidation)

	w.Value = MaxValue
	assert.ErrorIs(t, w.CheckWritable(), ErrValidation)

	w.Value = decimal.Zero
	w.Status = "archived"
	assert.ErrorIs(t, w.CheckWritable(), ErrValidation)
}

func TestValidate_SignUp(t *testing.T) {
	in := SignUpInput{Email: "not-an-email", Password: "secret1", FullName: "Ana"}
	err := Validate(in)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "email", ve.Field)

	in = SignUpInput{Email: "ana@example.com", Password: "secret1"}
	err = Validate(in)
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "fullName", ve.Field)
}

func TestSignUpInput_Profile(t *testing.T) {
	in := SignUpInput{Email: " Ana@Example.COM ", FullName: " Ana ", CompanyName: " "}
	in.Normalize()
	p := in.Profile()
	assert.Equal(t, "ana@example.com", p.Email)
	assert.Equal(t, "Ana", p.FullName)
	assert.Nil(t, p.CompanyName)
	assert.Nil(t, p.Phone)
}

func TestDraft_ValueScale(t *testing.T) {
	in := validInput()
	in.Value = "1500.500"
	w, err := in.Draft()
	require.NoError(t, err)
	assert.True(t, w.Value.Equal(decimal.RequireFromString("1500.50")))

	in.Value = "999999999999.99"
	_, err = in.Draft()
	assert.NoError(t, err)
}
