// cmd/requestctl/draftfile.go
package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
)

// draftFile is the YAML form of a request draft:
//
//	apprentice: {id: 7, first_name: Ana, last_name: Ruiz}
//	selection: {regional_id: 1, center_id: 2, headquarters_id: 3, program_id: 4, cohort_id: 5, modality_id: 6}
//	contract: {start: 2024-01-15, end: 2024-07-15}
//	enterprise: {mode: select, id: 9}
//	boss: {mode: create, fields: {name: Luis, phone: "3001234567", email: l@x.co, position: Lead}}
type draftFile struct {
	Apprentice  models.Apprentice             `yaml:"apprentice"`
	Selection   models.SelectionState         `yaml:"selection"`
	Contract    contractFile                  `yaml:"contract"`
	Enterprise  partyFile[models.Enterprise]  `yaml:"enterprise"`
	Boss        partyFile[models.Boss]        `yaml:"boss"`
	HumanTalent partyFile[models.HumanTalent] `yaml:"human_talent"`
}

type contractFile struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type partyFile[T models.PartyRecord] struct {
	Mode   models.PartyMode `yaml:"mode"`
	ID     int64            `yaml:"id"`
	Fields T                `yaml:"fields"`
}

func (p partyFile[T]) mode() (models.PartyMode, error) {
	if p.Mode == "" {
		return models.PartyModeSelect, nil
	}
	if !p.Mode.Valid() {
		return "", fmt.Errorf("unknown party mode %q", p.Mode)
	}
	return p.Mode, nil
}

func readDraftFile(path string) (*draftFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read draft file: %w", err)
	}
	return parseDraftFile(data)
}

func parseDraftFile(data []byte) (*draftFile, error) {
	var f draftFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("invalid draft file: %w", err)
	}
	if f.Apprentice.ID <= 0 {
		return nil, errors.New("invalid draft file: apprentice.id is required")
	}
	return &f, nil
}

// state converts the file into the replayable draft input.
func (f *draftFile) state() (models.SnapshotState, error) {
	entMode, err := f.Enterprise.mode()
	if err != nil {
		return models.SnapshotState{}, fmt.Errorf("enterprise: %w", err)
	}
	bossMode, err := f.Boss.mode()
	if err != nil {
		return models.SnapshotState{}, fmt.Errorf("boss: %w", err)
	}
	talentMode, err := f.HumanTalent.mode()
	if err != nil {
		return models.SnapshotState{}, fmt.Errorf("human_talent: %w", err)
	}

	s := models.SnapshotState{
		Selection:      f.Selection,
		EnterpriseMode: entMode,
		BossMode:       bossMode,
		TalentMode:     talentMode,
		ContractStart:  f.Contract.Start,
		ContractEnd:    f.Contract.End,
	}
	if entMode == models.PartyModeCreate {
		s.EnterpriseFields = f.Enterprise.Fields
	} else {
		s.EnterpriseID = f.Enterprise.ID
	}
	if bossMode == models.PartyModeCreate {
		s.BossFields = f.Boss.Fields
	} else {
		s.BossID = f.Boss.ID
	}
	if talentMode == models.PartyModeCreate {
		s.TalentFields = f.HumanTalent.Fields
	} else {
		s.TalentID = f.HumanTalent.ID
	}
	return s, nil
}
