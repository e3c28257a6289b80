package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"quality-audit/internal/export"
	"quality-audit/internal/i18n"
	"quality-audit/internal/service"

	"github.com/spf13/cobra"
)

// exportCmd 从存储中读取全部记录并导出，不经过会话
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored records to xlsx, csv or pdf",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")
		lang, _ := cmd.Flags().GetString("lang")
		submissionID, _ := cmd.Flags().GetString("submission-id")

		switch format {
		case export.FormatXLSX, export.FormatCSV, export.FormatPDF:
		default:
			return fmt.Errorf("unsupported format %q (xlsx|csv|pdf)", format)
		}
		if l := i18n.Normalize(lang); l != "" {
			lang = l
		} else {
			lang = i18n.LangEN
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		batch, err := a.svc.Batch(cmd.Context(), nil, service.SourceRemote, submissionID)
		if err != nil {
			return fmt.Errorf("load records: %w", err)
		}

		var art service.Artifact
		if format == export.FormatPDF {
			art, err = a.svc.ExportReport(batch, lang)
		} else {
			art, err = a.svc.ExportTable(batch, format, lang)
		}
		if err != nil {
			return err
		}

		if out == "" {
			out = art.Filename
		} else if info, statErr := os.Stat(out); statErr == nil && info.IsDir() {
			out = filepath.Join(out, art.Filename)
		}
		if err := os.WriteFile(out, art.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}

		if notice := service.Notice(art, lang); notice != "" {
			cmd.PrintErrln(notice)
		}
		cmd.Printf("exported %d records to %s\n", art.Records, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("format", export.FormatXLSX, "Export format: xlsx, csv or pdf")
	exportCmd.Flags().String("out", "", "Output file or directory (default: generated name in the current directory)")
	exportCmd.Flags().String("lang", i18n.LangEN, "Header language: zh or en")
	exportCmd.Flags().String("submission-id", "", "Export only this submission")
}
