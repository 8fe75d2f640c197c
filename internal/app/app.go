// -----------------------------------------------------------------------
// Application container - wires configuration, storage, services, handlers
// -----------------------------------------------------------------------

package app

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/handlers"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/services/analyzer"
	"github.com/ternarybob/scrutor/internal/services/export"
	"github.com/ternarybob/scrutor/internal/services/extract"
	"github.com/ternarybob/scrutor/internal/services/llm"
	"github.com/ternarybob/scrutor/internal/services/report"
	"github.com/ternarybob/scrutor/internal/storage/badger"
)

// App holds all application dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage
	BadgerDB  *badger.BadgerDB
	KVStorage interfaces.KeyValueStorage

	// Services
	Extractor *extract.Extractor
	Client    interfaces.AnalysisClient
	Analyzer  interfaces.AnalyzerService
	Exporter  interfaces.Exporter

	// Handlers
	AnalyzeHandler *handlers.AnalyzeHandler
	ExportHandler  *handlers.ExportHandler
	KVHandler      *handlers.KVHandler
	APIHandler     *handlers.APIHandler
	PageHandler    *handlers.PageHandler
}

// New creates the application container. Storage opens first since credential
// resolution reads the settings store; everything else is stateless.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: config,
		Logger: logger,
	}

	badgerDB, err := badger.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}
	a.BadgerDB = badgerDB
	a.KVStorage = badger.NewKVStorage(badgerDB, logger)

	a.Extractor = extract.NewExtractor(logger)
	a.Client = llm.NewClient(config, a.KVStorage, logger)
	processor := report.NewProcessor(config.Analysis.ChecklistPrefix, config.Analysis.DefaultCompany)
	a.Analyzer = analyzer.NewService(a.Extractor, a.Client, processor, logger)
	a.Exporter = export.NewService(logger)

	a.AnalyzeHandler = handlers.NewAnalyzeHandler(a.Analyzer, config.Analysis.MaxUploadBytes, logger)
	a.ExportHandler = handlers.NewExportHandler(a.Exporter, logger)
	a.KVHandler = handlers.NewKVHandler(a.KVStorage, logger)
	a.APIHandler = handlers.NewAPIHandler(config, a.Client, logger)
	a.PageHandler = handlers.NewPageHandler(config.Pages.Dir, logger)

	logger.Info().
		Str("provider", string(config.LLM.DefaultProvider)).
		Str("storage", config.Storage.Badger.Path).
		Msg("Application initialized")

	return a, nil
}

// Close releases application resources in reverse dependency order
func (a *App) Close() error {
	var firstErr error

	if a.Client != nil {
		if err := a.Client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.BadgerDB != nil {
		if err := a.BadgerDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
