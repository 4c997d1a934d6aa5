// internal/request/contract.go
package request

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
)

// ContractTerm is matched against modality names. The backend exposes no type
// code for the apprenticeship-contract modality, only its name.
const ContractTerm = "contrato"

// IsContractModality reports whether the modality with the given id is an
// apprenticeship-contract modality. The match is a case and accent
// insensitive substring match on the modality name.
func IsContractModality(modalityID int64, catalog []models.Modality) bool {
	if modalityID == 0 {
		return false
	}
	for _, m := range catalog {
		if m.ID == modalityID {
			return strings.Contains(foldName(m.Name), ContractTerm)
		}
	}
	return false
}

func foldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Contract holds the contract window of a draft.
type Contract struct {
	window models.ContractWindow
}

func (c *Contract) Window() models.ContractWindow {
	return c.window
}

// SetRequired applies the requirement derived from the modality. Dropping the
// requirement clears both dates in the same call.
func (c *Contract) SetRequired(required bool) {
	c.window.Required = required
	if !required {
		c.window.StartDate = nil
		c.window.EndDate = nil
	}
}

// SetDates stores the contract window. Both values are dates; the clock part
// is dropped.
func (c *Contract) SetDates(start, end *time.Time) error {
	if !c.window.Required {
		return ErrContractNotRequired
	}
	c.window.StartDate = dateOnlyPtr(start)
	c.window.EndDate = dateOnlyPtr(end)
	return nil
}

// Issue returns the live validation key of the window, "" when valid or not
// required, and "" while nothing has been entered yet.
func (c *Contract) Issue() string {
	if !c.window.Required || (c.window.StartDate == nil && c.window.EndDate == nil) {
		return ""
	}
	return ValidateContractEnd(c.window.StartDate, c.window.EndDate)
}

func (c *Contract) reset() {
	c.window = models.ContractWindow{}
}

func dateOnlyPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := DateOnly(*t)
	return &d
}
