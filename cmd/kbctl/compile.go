package main

import (
	"fmt"
	"os"

	"agent-kb/internal/service"

	"github.com/spf13/cobra"
)

func newCompileCmd() *cobra.Command {
	var (
		file  string
		title string
	)
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Parse a legacy document and print the text it compiles to",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			text := string(data)
			if title == "" {
				title = documentTitle(text)
			}

			sections := service.ParseRawText(text)
			compiled := service.CompileRawText(service.NormalizeTitle(title), sections.Builtins, sections.Customs)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), compiled)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "legacy document to compile")
	cmd.Flags().StringVar(&title, "title", "", "knowledge base title (default: the document's # heading)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
