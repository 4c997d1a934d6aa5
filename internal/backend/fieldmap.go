// internal/backend/fieldmap.go
package backend

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
)

// Backend versions disagree on key spellings. Each field below is read from
// the first key present in its list, most specific first and generic last.
// Missing text fields map to "", missing references to 0 and a missing active
// flag to true. The mappers never fail except on a missing record id.
var (
	keysID       = []string{"id", "pk"}
	keysName     = []string{"name"}
	keysActive   = []string{"active", "is_active"}
	keysRegional = []string{"regional_id", "regional"}
	keysCenter   = []string{"center_id", "center"}
	keysProgram  = []string{"program_id", "program"}
	keysFile     = []string{"file_number", "number_ficha", "ficha", "code"}
	keysEntID    = []string{"enterprise_id", "enterprise"}
	keysEntName  = []string{"name_enterprise", "name"}
	keysEntNIT   = []string{"nit_enterprise", "nit"}
	keysEntLoc   = []string{"locate", "location", "address"}
	keysEntEmail = []string{"email_enterprise", "email"}
	keysBossName = []string{"name_boss", "first_name", "name"}
	keysBossMail = []string{"email_boss", "email"}
	keysBossPos  = []string{"position", "charge"}
	keysTalName  = []string{"name_human_talent", "first_name", "name"}
	keysTalMail  = []string{"email_human_talent", "email"}
	keysPhone    = []string{"phone_number", "phone"}
	keysLastName = []string{"last_name", "second_last_name"}
)

func mapRegional(r record) (models.Regional, error) {
	id, err := recordID(r)
	return models.Regional{ID: id, Name: stringField(r, keysName...), Active: boolField(r, true, keysActive...)}, err
}

func mapCenter(r record) (models.Center, error) {
	id, err := recordID(r)
	return models.Center{
		ID:         id,
		Name:       stringField(r, keysName...),
		RegionalID: refField(r, keysRegional...),
		Active:     boolField(r, true, keysActive...),
	}, err
}

func mapHeadquarters(r record) (models.Headquarters, error) {
	id, err := recordID(r)
	return models.Headquarters{
		ID:       id,
		Name:     stringField(r, keysName...),
		CenterID: refField(r, keysCenter...),
		Active:   boolField(r, true, keysActive...),
	}, err
}

func mapProgram(r record) (models.Program, error) {
	id, err := recordID(r)
	return models.Program{ID: id, Name: stringField(r, keysName...), Active: boolField(r, true, keysActive...)}, err
}

func mapCohort(r record) (models.Cohort, error) {
	id, err := recordID(r)
	return models.Cohort{
		ID:         id,
		FileNumber: stringField(r, keysFile...),
		ProgramID:  refField(r, keysProgram...),
		Active:     boolField(r, true, keysActive...),
	}, err
}

func mapModality(r record) (models.Modality, error) {
	id, err := recordID(r)
	return models.Modality{ID: id, Name: stringField(r, keysName...), Active: boolField(r, true, keysActive...)}, err
}

func mapEnterprise(r record) (models.Enterprise, error) {
	id, err := recordID(r)
	return models.Enterprise{
		ID:       id,
		Name:     stringField(r, keysEntName...),
		NIT:      stringField(r, keysEntNIT...),
		Location: stringField(r, keysEntLoc...),
		Email:    stringField(r, keysEntEmail...),
	}, err
}

func mapBoss(r record) (models.Boss, error) {
	id, err := recordID(r)
	return models.Boss{
		ID:           id,
		EnterpriseID: refField(r, keysEntID...),
		Name:         personName(r, keysBossName),
		Phone:        stringField(r, keysPhone...),
		Email:        stringField(r, keysBossMail...),
		Position:     stringField(r, keysBossPos...),
	}, err
}

func mapHumanTalent(r record) (models.HumanTalent, error) {
	id, err := recordID(r)
	return models.HumanTalent{
		ID:           id,
		EnterpriseID: refField(r, keysEntID...),
		Name:         personName(r, keysTalName),
		Email:        stringField(r, keysTalMail...),
		Phone:        stringField(r, keysPhone...),
	}, err
}

// personName appends the last name only when the name came from first_name.
func personName(r record, keys []string) string {
	for _, key := range keys {
		name, ok := text(r[key])
		if !ok || name == "" {
			continue
		}
		if key == "first_name" {
			if last := stringField(r, keysLastName...); last != "" {
				return name + " " + last
			}
		}
		return name
	}
	return ""
}

func recordID(r record) (int64, error) {
	for _, key := range keysID {
		if id, ok := toInt(r[key]); ok && id > 0 {
			return id, nil
		}
	}
	return 0, &fieldError{field: "id", err: errMissingID}
}

// stringField returns the first non-empty text value among keys.
func stringField(r record, keys ...string) string {
	for _, key := range keys {
		if s, ok := text(r[key]); ok && s != "" {
			return s
		}
	}
	return ""
}

// refField returns the first positive id among keys. A nested object
// contributes its own id.
func refField(r record, keys ...string) int64 {
	for _, key := range keys {
		v := r[key]
		if obj, ok := v.(map[string]any); ok {
			v = obj["id"]
		}
		if id, ok := toInt(v); ok && id > 0 {
			return id
		}
	}
	return 0
}

func boolField(r record, def bool, keys ...string) bool {
	for _, key := range keys {
		switch v := r[key].(type) {
		case bool:
			return v
		case string:
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return n != 0
			}
		}
	}
	return def
}

func text(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

func toInt(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		if f, err := t.Float64(); err == nil && f == float64(int64(f)) {
			return int64(f), true
		}
	case float64:
		if t == float64(int64(t)) {
			return int64(t), true
		}
	case int64:
		return t, true
	case int:
		return int64(t), true
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
