package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"agent-kb/internal/repository"
	"agent-kb/internal/service"
	"agent-kb/pkg/config"
	"agent-kb/pkg/logger"
	"agent-kb/pkg/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newImportCmd() *cobra.Command {
	var (
		businessID string
		file       string
		title      string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a legacy flat document as a business's knowledge base",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			text := string(data)
			if title == "" {
				title = documentTitle(text)
			}
			return importDocument(cmd.Context(), businessID, title, text, cmd)
		},
	}
	cmd.Flags().StringVarP(&businessID, "business", "b", "", "business id to import into")
	cmd.Flags().StringVarP(&file, "file", "f", "", "legacy document to import")
	cmd.Flags().StringVar(&title, "title", "", "knowledge base title (default: the document's # heading)")
	_ = cmd.MarkFlagRequired("business")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func importDocument(ctx context.Context, businessID, title, text string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return err
	}

	cache, closeCache, err := newImportCache(&cfg.Redis, appLogger)
	if err != nil {
		return err
	}
	defer closeCache()

	knowledgeService := service.NewKnowledgeService(repository.NewKnowledgeRepository(db, appLogger), cache, appLogger)
	return importText(ctx, knowledgeService, businessID, title, text, cmd.OutOrStdout())
}

// newImportCache connects to the API's Redis cache so an import evicts the
// business's cached record. It returns a nil cache when REDIS_URL is unset.
func newImportCache(cfg *config.RedisConfig, appLogger *zap.Logger) (service.KnowledgeCache, func(), error) {
	if cfg.URL == "" {
		return nil, func() {}, nil
	}
	cache, err := repository.NewKnowledgeCache(cfg.URL, cfg.CacheTTL, appLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect cache: %w", err)
	}
	return cache, func() { _ = cache.Close() }, nil
}

func importText(ctx context.Context, knowledgeService *service.KnowledgeService, businessID, title, text string, out io.Writer) error {
	kb, err := knowledgeService.Save(ctx, businessID, title, service.ParseRawText(text))
	if err != nil {
		return err
	}

	logger.Get().Info("Legacy document imported",
		zap.String("business_id", kb.BusinessID),
		zap.Int("custom_sections", len(kb.Sections.Customs)),
	)
	_, err = fmt.Fprintf(out, "imported %q for business %s (%d custom sections)\n",
		kb.Title, kb.BusinessID, len(kb.Sections.Customs))
	return err
}

// documentTitle returns the text of a leading "# " heading, if any.
func documentTitle(text string) string {
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
		return ""
	}
	return ""
}
