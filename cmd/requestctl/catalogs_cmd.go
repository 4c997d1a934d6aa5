// cmd/requestctl/catalogs_cmd.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
	"github.com/July173/autogestionFrontWeb-sub002/internal/request"
)

type catalogReport struct {
	Ready        bool                                        `yaml:"ready"`
	Statuses     map[models.CatalogKind]models.CatalogStatus `yaml:"statuses"`
	Regionals    []option                                    `yaml:"regionals"`
	Centers      []option                                    `yaml:"centers"`
	Headquarters []option                                    `yaml:"headquarters"`
	Programs     []option                                    `yaml:"programs"`
	Modalities   []option                                    `yaml:"modalities"`
	Cohorts      []option                                    `yaml:"cohorts,omitempty"`
	Enterprises  []option                                    `yaml:"enterprises,omitempty"`
}

type option struct {
	ID     int64  `yaml:"id"`
	Name   string `yaml:"name"`
	Parent int64  `yaml:"parent,omitempty"`
}

func newCatalogsCmd(global *globalOptions) *cobra.Command {
	var (
		programID   int64
		enterprises bool
	)

	cmd := &cobra.Command{
		Use:   "catalogs [--program <id>] [--enterprises]",
		Short: "Print the reference catalogs as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := global.context(cmd.Context())
			client := global.client()

			ref := request.NewReferenceData(client)
			loadErr := ref.Load(ctx)

			c := ref.Catalogs()
			report := catalogReport{Ready: ref.Ready(), Statuses: ref.Statuses()}
			for _, r := range c.Regionals {
				report.Regionals = append(report.Regionals, option{ID: r.ID, Name: r.Name})
			}
			for _, ct := range c.Centers {
				report.Centers = append(report.Centers, option{ID: ct.ID, Name: ct.Name, Parent: ct.RegionalID})
			}
			for _, h := range c.Headquarters {
				report.Headquarters = append(report.Headquarters, option{ID: h.ID, Name: h.Name, Parent: h.CenterID})
			}
			for _, p := range c.Programs {
				report.Programs = append(report.Programs, option{ID: p.ID, Name: p.Name})
			}
			for _, m := range c.Modalities {
				report.Modalities = append(report.Modalities, option{ID: m.ID, Name: m.Name})
			}

			if programID > 0 {
				cohorts, err := ref.LoadCohorts(ctx, programID)
				if err != nil {
					return fmt.Errorf("failed to load cohorts of program %d: %w", programID, err)
				}
				for _, co := range cohorts {
					report.Cohorts = append(report.Cohorts, option{ID: co.ID, Name: co.FileNumber, Parent: co.ProgramID})
				}
			}
			if enterprises {
				list, err := client.LoadEnterprises(ctx)
				if err != nil {
					return fmt.Errorf("failed to load enterprises: %w", err)
				}
				for _, e := range list {
					report.Enterprises = append(report.Enterprises, option{ID: e.ID, Name: e.Name})
				}
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(report); err != nil {
				return err
			}
			if err := enc.Close(); err != nil {
				return err
			}
			return loadErr
		},
	}

	cmd.Flags().Int64Var(&programID, "program", 0, "also list the cohorts of this program")
	cmd.Flags().BoolVar(&enterprises, "enterprises", false, "also list the enterprises")
	return cmd
}
