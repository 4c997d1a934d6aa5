// cmd/requestctl/submit_cmd.go
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/July173/autogestionFrontWeb-sub002/internal/config"
	"github.com/July173/autogestionFrontWeb-sub002/internal/i18n"
	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
	"github.com/July173/autogestionFrontWeb-sub002/internal/request"
	"github.com/July173/autogestionFrontWeb-sub002/internal/services"
)

type submitOptions struct {
	DraftPath string
	PDFPath   string
	Yes       bool
}

type submitReport struct {
	State       models.SubmissionState `yaml:"state"`
	RequestID   *int64                 `yaml:"request_id,omitempty"`
	PDFUploaded bool                   `yaml:"pdf_uploaded"`
	Message     string                 `yaml:"message,omitempty"`
}

var errNotSubmitted = errors.New("request was not submitted")

func newSubmitCmd(global *globalOptions) *cobra.Command {
	var opts submitOptions

	cmd := &cobra.Command{
		Use:   "submit --draft <file.yaml> --pdf <file.pdf> [--yes]",
		Short: "Validate a draft file and submit it with its PDF",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(opts.DraftPath) == "" {
				return errors.New("--draft is required")
			}
			if strings.TrimSpace(opts.PDFPath) == "" {
				return errors.New("--pdf is required")
			}
			return runSubmit(cmd, global, opts)
		},
	}

	cmd.Flags().StringVar(&opts.DraftPath, "draft", "", "YAML draft file")
	cmd.Flags().StringVar(&opts.PDFPath, "pdf", "", "supporting PDF (at most 1 MiB)")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func runSubmit(cmd *cobra.Command, global *globalOptions, opts submitOptions) error {
	ctx := global.context(cmd.Context())
	stderr := cmd.ErrOrStderr()
	lang := global.Lang

	file, err := readDraftFile(opts.DraftPath)
	if err != nil {
		return err
	}
	state, err := file.state()
	if err != nil {
		return err
	}
	pdf, err := os.ReadFile(opts.PDFPath)
	if err != nil {
		return fmt.Errorf("failed to read PDF: %w", err)
	}

	cfg := &config.Config{
		I18n:    config.I18nConfig{DefaultLocale: lang},
		Storage: config.StorageConfig{Folder: "requestctl"},
	}
	notifications := services.NewNotificationService(cfg)
	storage, err := services.NewStorageService(cfg)
	if err != nil {
		return err
	}
	client := global.client()

	ref := request.NewReferenceData(client)
	if err := ref.Load(ctx); err != nil {
		var rle *request.ReferenceLoadError
		if errors.As(err, &rle) {
			printNotification(stderr, notifications.ForLoadError(lang, rle))
		}
	}

	d := request.NewDraft(uuid.New(), file.Apprentice, ref, client)
	if err := d.Restore(ctx, state); err != nil {
		fmt.Fprintf(stderr, "warning: %v\n", err)
	}

	declared := mime.TypeByExtension(strings.ToLower(filepath.Ext(opts.PDFPath)))
	att, key, err := storage.Stage(ctx, opts.PDFPath, declared, pdf)
	if err != nil {
		return err
	}
	if key != "" {
		return errors.New(i18n.T(lang, key))
	}
	if _, err := d.Attach(*att); err != nil {
		return err
	}

	if issues := request.Audit(d.Snapshot()); len(issues) > 0 {
		fmt.Fprintln(stderr, i18n.T(lang, i18n.KeyValidationMissingFields, notifications.FieldList(lang, issues)))
		return errNotSubmitted
	}

	if err := d.RequestSubmit(); err != nil {
		return err
	}
	if !opts.Yes {
		prompt := notifications.ConfirmPrompt(lang)
		if !confirm(cmd.InOrStdin(), stderr, prompt) {
			_ = d.Dismiss()
			return errNotSubmitted
		}
	}

	out, err := d.Confirm(context.WithoutCancel(ctx), client, storage)
	if err != nil {
		return err
	}
	printNotification(stderr, notifications.ForOutcome(lang, out))
	if _, err := d.Acknowledge(); err != nil {
		return err
	}
	storage.Discard(ctx, att)

	report := submitReport{
		State:       out.State,
		RequestID:   out.Result.RequestID,
		PDFUploaded: out.Result.PDFUploaded,
		Message:     out.BackendMessage,
	}
	if err := yaml.NewEncoder(cmd.OutOrStdout()).Encode(report); err != nil {
		return err
	}
	if out.State != models.SubmissionSucceeded {
		return errNotSubmitted
	}
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt models.Notification) bool {
	fmt.Fprintf(out, "%s\n%s [y/N]: ", prompt.Title, prompt.Message)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "s", "si", "sí":
		return true
	}
	return false
}

func printNotification(w io.Writer, n models.Notification) {
	fmt.Fprintf(w, "[%s] %s: %s\n", n.Type, n.Title, n.Message)
}
