// internal/request/payload_test.go
package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
)

func TestBuildPayloadSelectMode(t *testing.T) {
	payload := BuildPayload(completeDraft())

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"enterprise": {"id": 9},
		"boss": {"id": 90},
		"human_talent": {"id": 91},
		"request": {"apprentice": 7, "ficha": 50, "sede": 100, "modality_productive_stage": 2}
	}`, string(body))
}

func TestBuildPayloadCreateMode(t *testing.T) {
	d := completeDraft()
	d.Enterprise = models.PartyResolution[models.Enterprise]{
		Mode:    models.PartyModeCreate,
		Display: models.Enterprise{ID: 9, Name: "Nueva SAS", NIT: "901000111", Location: "Cali", Email: "hola@nueva.co"},
	}
	d.Boss = models.PartyResolution[models.Boss]{
		Mode:    models.PartyModeCreate,
		Display: models.Boss{Name: "Ana", Phone: "310-293-6537", Email: "ana@nueva.co", Position: "Líder"},
	}

	payload := BuildPayload(d)
	assert.True(t, payload.Enterprise.IsNew())
	assert.False(t, payload.HumanTalent.IsNew())

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"enterprise": {"name_enterprise": "Nueva SAS", "nit_enterprise": "901000111", "locate": "Cali", "email_enterprise": "hola@nueva.co"},
		"boss": {"name_boss": "Ana", "phone_number": "3102936537", "email_boss": "ana@nueva.co", "position": "Líder"},
		"human_talent": {"id": 91},
		"request": {"apprentice": 7, "ficha": 50, "sede": 100, "modality_productive_stage": 2}
	}`, string(body))
	assert.Equal(t, "310-293-6537", d.Boss.Display.Phone, "the draft itself is not modified")
}

func TestBuildPayloadContractDates(t *testing.T) {
	d := completeDraft()
	d.Contract = models.ContractWindow{
		Required:  true,
		StartDate: date(t, "2025-01-15"),
		EndDate:   date(t, "2025-07-10"),
	}
	body := BuildPayload(d).Request
	assert.Equal(t, "2025-01-15", body.ContractStart)
	assert.Equal(t, "2025-07-10", body.ContractEnd)

	d.Contract.Required = false
	body = BuildPayload(d).Request
	assert.Empty(t, body.ContractStart)
	assert.Empty(t, body.ContractEnd)
}
