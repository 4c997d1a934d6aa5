// internal/request/contract_test.go
package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/July173/autogestionFrontWeb-sub002/internal/i18n"
	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
)

func TestIsContractModality(t *testing.T) {
	catalog := []models.Modality{
		{ID: 1, Name: "Contrato de Aprendizaje"},
		{ID: 2, Name: "Pasantía"},
		{ID: 3, Name: "CONTRÁTO laboral"},
		{ID: 4, Name: "Vínculo formativo"},
	}

	assert.True(t, IsContractModality(1, catalog))
	assert.True(t, IsContractModality(3, catalog), "case and accent insensitive")
	assert.False(t, IsContractModality(2, catalog))
	assert.False(t, IsContractModality(4, catalog))
	assert.False(t, IsContractModality(0, catalog))
	assert.False(t, IsContractModality(99, catalog))
}

func TestContractDatesRequireModality(t *testing.T) {
	var c Contract
	assert.ErrorIs(t, c.SetDates(date(t, "2025-01-15"), nil), ErrContractNotRequired)

	c.SetRequired(true)
	require.NoError(t, c.SetDates(date(t, "2025-01-15"), date(t, "2025-07-10")))
	w := c.Window()
	assert.True(t, w.Required)
	assert.Equal(t, "2025-01-15", FormatDate(w.StartDate))
	assert.Equal(t, "2025-07-10", FormatDate(w.EndDate))
}

func TestContractDroppingRequirementClearsDates(t *testing.T) {
	var c Contract
	c.SetRequired(true)
	require.NoError(t, c.SetDates(date(t, "2025-01-15"), date(t, "2025-07-10")))

	c.SetRequired(false)
	w := c.Window()
	assert.False(t, w.Required)
	assert.Nil(t, w.StartDate)
	assert.Nil(t, w.EndDate)
}

func TestContractLiveIssue(t *testing.T) {
	var c Contract
	assert.Equal(t, "", c.Issue(), "not required")

	c.SetRequired(true)
	assert.Equal(t, "", c.Issue(), "nothing entered yet")

	require.NoError(t, c.SetDates(date(t, "2025-01-15"), nil))
	assert.Equal(t, i18n.KeyValidationContractEnd, c.Issue())

	require.NoError(t, c.SetDates(date(t, "2025-01-15"), date(t, "2025-06-30")))
	assert.Equal(t, i18n.KeyValidationContractMonth, c.Issue())

	require.NoError(t, c.SetDates(date(t, "2025-01-15"), date(t, "2025-07-01")))
	assert.Equal(t, "", c.Issue())
}
