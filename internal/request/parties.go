// internal/request/parties.go
package request

import (
	"context"

	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
)

// PartySource loads enterprises and their contacts from the backend.
type PartySource interface {
	LoadEnterprises(ctx context.Context) ([]models.Enterprise, error)
	LoadBossesByEnterprise(ctx context.Context, enterpriseID int64) ([]models.Boss, error)
	LoadHumanTalentByEnterprise(ctx context.Context, enterpriseID int64) ([]models.HumanTalent, error)
}

// Party is the select-existing-or-create-new engine of one party.
type Party[T models.PartyRecord] struct {
	kind  models.PartyKind
	state models.PartyResolution[T]
}

func NewParty[T models.PartyRecord](kind models.PartyKind) *Party[T] {
	return &Party[T]{
		kind:  kind,
		state: models.PartyResolution[T]{Mode: models.PartyModeSelect},
	}
}

func (p *Party[T]) Kind() models.PartyKind {
	return p.kind
}

// State returns the current resolution. Catalog is shared and must not be
// modified.
func (p *Party[T]) State() models.PartyResolution[T] {
	return p.state
}

// SetMode switches between select and create. Any switch empties the display
// fields and the selected id at once, so neither typed values nor a previous
// selection survive it.
func (p *Party[T]) SetMode(mode models.PartyMode) (bool, error) {
	if !mode.Valid() {
		return false, ErrWrongPartyMode
	}
	if mode == p.state.Mode {
		return false, nil
	}
	var zero T
	p.state.Mode = mode
	p.state.SelectedID = 0
	p.state.Display = zero
	return true, nil
}

// Select picks a catalog entry in select mode and derives the display fields
// from it. Zero clears the selection.
func (p *Party[T]) Select(id int64) (bool, error) {
	if p.state.Mode != models.PartyModeSelect {
		return false, ErrWrongPartyMode
	}
	var zero T
	if id == 0 {
		changed := p.state.SelectedID != 0
		p.state.SelectedID = 0
		p.state.Display = zero
		return changed, nil
	}
	record, ok := p.find(id)
	if !ok {
		return false, ErrInvalidSelection
	}
	changed := p.state.SelectedID != id
	p.state.SelectedID = id
	p.state.Display = record
	return changed, nil
}

// SetFields stores user-entered attributes in create mode.
func (p *Party[T]) SetFields(fields T) error {
	if p.state.Mode != models.PartyModeCreate {
		return ErrWrongPartyMode
	}
	p.state.Display = withoutIDs(fields)
	return nil
}

// SetCatalog replaces the catalog. A selection missing from the new catalog is
// dropped; a present one refreshes its display fields.
func (p *Party[T]) SetCatalog(list []T) {
	p.state.Catalog = list
	if p.state.Mode != models.PartyModeSelect || p.state.SelectedID == 0 {
		return
	}
	if record, ok := p.find(p.state.SelectedID); ok {
		p.state.Display = record
		return
	}
	var zero T
	p.state.SelectedID = 0
	p.state.Display = zero
}

// invalidate drops the catalog and everything derived from it. Values typed in
// create mode are kept.
func (p *Party[T]) invalidate() {
	p.state.Catalog = nil
	if p.state.Mode == models.PartyModeSelect {
		var zero T
		p.state.SelectedID = 0
		p.state.Display = zero
	}
}

func (p *Party[T]) reset() {
	p.state = models.PartyResolution[T]{Mode: models.PartyModeSelect, Catalog: p.state.Catalog}
}

func (p *Party[T]) find(id int64) (T, bool) {
	for _, record := range p.state.Catalog {
		if record.RecordID() == id {
			return record, true
		}
	}
	var zero T
	return zero, false
}

func withoutIDs[T models.PartyRecord](record T) T {
	switch v := any(&record).(type) {
	case *models.Enterprise:
		v.ID = 0
	case *models.Boss:
		v.ID = 0
		v.EnterpriseID = 0
	case *models.HumanTalent:
		v.ID = 0
		v.EnterpriseID = 0
	}
	return record
}

// ContactTicket identifies one load of the contacts of an enterprise.
type ContactTicket struct {
	EnterpriseID int64
	seq          uint64
}

// Parties ties the three party engines together. Boss and human-talent
// catalogs are scoped to the selected enterprise.
type Parties struct {
	Enterprise  *Party[models.Enterprise]
	Boss        *Party[models.Boss]
	HumanTalent *Party[models.HumanTalent]

	contactSeq uint64
	contactErr error
}

func NewParties() *Parties {
	return &Parties{
		Enterprise:  NewParty[models.Enterprise](models.PartyEnterprise),
		Boss:        NewParty[models.Boss](models.PartyBoss),
		HumanTalent: NewParty[models.HumanTalent](models.PartyHumanTalent),
	}
}

// SetEnterpriseMode switches the enterprise mode. Any switch invalidates the
// dependent contact catalogs.
func (ps *Parties) SetEnterpriseMode(mode models.PartyMode) error {
	changed, err := ps.Enterprise.SetMode(mode)
	if err != nil {
		return err
	}
	if changed {
		ps.invalidateContacts()
	}
	return nil
}

// SelectEnterprise selects an enterprise. When the selection changes, the boss
// and human-talent catalogs and selections are cleared and a ticket for
// loading the new contacts is returned.
func (ps *Parties) SelectEnterprise(id int64) (ContactTicket, bool, error) {
	changed, err := ps.Enterprise.Select(id)
	if err != nil {
		return ContactTicket{}, false, err
	}
	if !changed {
		return ContactTicket{}, false, nil
	}
	ps.invalidateContacts()
	if id == 0 {
		return ContactTicket{}, false, nil
	}
	return ContactTicket{EnterpriseID: id, seq: ps.contactSeq}, true, nil
}

// BeginContactReload issues a ticket to reload the contacts of the selected
// enterprise.
func (ps *Parties) BeginContactReload() (ContactTicket, bool) {
	id := ps.Enterprise.state.SelectedID
	if ps.Enterprise.state.Mode != models.PartyModeSelect || id == 0 {
		return ContactTicket{}, false
	}
	ps.contactSeq++
	return ContactTicket{EnterpriseID: id, seq: ps.contactSeq}, true
}

// ApplyContacts stores the contacts loaded for t. Results of an enterprise
// that is no longer selected are discarded with ErrStaleResponse.
func (ps *Parties) ApplyContacts(t ContactTicket, bosses []models.Boss, talents []models.HumanTalent, err error) error {
	if t.seq != ps.contactSeq || t.EnterpriseID != ps.Enterprise.state.SelectedID {
		return ErrStaleResponse
	}
	if err != nil {
		ps.Boss.SetCatalog(nil)
		ps.HumanTalent.SetCatalog(nil)
		ps.contactErr = &ReferenceLoadError{Catalog: models.CatalogContacts, Err: err}
		return ps.contactErr
	}
	ps.contactErr = nil
	ps.Boss.SetCatalog(scopeBosses(bosses, t.EnterpriseID))
	ps.HumanTalent.SetCatalog(scopeTalents(talents, t.EnterpriseID))
	return nil
}

// ContactErr is the retryable error of the last contact load, if any.
func (ps *Parties) ContactErr() error {
	return ps.contactErr
}

func (ps *Parties) invalidateContacts() {
	ps.contactSeq++
	ps.contactErr = nil
	ps.Boss.invalidate()
	ps.HumanTalent.invalidate()
}

func (ps *Parties) reset() {
	ps.Enterprise.reset()
	ps.Boss.reset()
	ps.HumanTalent.reset()
	ps.invalidateContacts()
}

func scopeBosses(list []models.Boss, enterpriseID int64) []models.Boss {
	out := make([]models.Boss, 0, len(list))
	for _, b := range list {
		if b.EnterpriseID == 0 || b.EnterpriseID == enterpriseID {
			out = append(out, b)
		}
	}
	return out
}

func scopeTalents(list []models.HumanTalent, enterpriseID int64) []models.HumanTalent {
	out := make([]models.HumanTalent, 0, len(list))
	for _, h := range list {
		if h.EnterpriseID == 0 || h.EnterpriseID == enterpriseID {
			out = append(out, h)
		}
	}
	return out
}
