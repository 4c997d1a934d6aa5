// internal/models/catalog.go
package models

type Regional struct {
	ID     int64  `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Active bool   `json:"active" yaml:"active"`
}

type Center struct {
	ID         int64  `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	RegionalID int64  `json:"regional_id" yaml:"regional_id"`
	Active     bool   `json:"active" yaml:"active"`
}

type Headquarters struct {
	ID       int64  `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	CenterID int64  `json:"center_id" yaml:"center_id"`
	Active   bool   `json:"active" yaml:"active"`
}

type Program struct {
	ID     int64  `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Active bool   `json:"active" yaml:"active"`
}

// Cohort is a training group ("ficha") of one program.
type Cohort struct {
	ID         int64  `json:"id" yaml:"id"`
	FileNumber string `json:"file_number" yaml:"file_number"`
	ProgramID  int64  `json:"program_id" yaml:"program_id"`
	Active     bool   `json:"active" yaml:"active"`
}

// Modality is a productive-stage category.
type Modality struct {
	ID     int64  `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Active bool   `json:"active" yaml:"active"`
}

// Catalogs is the option universe of one reference-data load.
type Catalogs struct {
	Regionals    []Regional     `json:"regionals"`
	Centers      []Center       `json:"centers"`
	Headquarters []Headquarters `json:"headquarters"`
	Programs     []Program      `json:"programs"`
	Modalities   []Modality     `json:"modalities"`
}

// SelectOption is one entry of a select as rendered by a client.
type SelectOption struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// Select is the renderable state of a dependent select.
type Select struct {
	Options  []SelectOption `json:"options"`
	Selected int64          `json:"selected,omitempty"`
	Disabled bool           `json:"disabled"`
}
