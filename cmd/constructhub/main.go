package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pelicanstate/constructhub/internal/assembly"
	"github.com/pelicanstate/constructhub/internal/catalog"
	"github.com/pelicanstate/constructhub/internal/cli"
	"github.com/pelicanstate/constructhub/internal/config"
	"github.com/pelicanstate/constructhub/internal/consultation"
	"github.com/pelicanstate/constructhub/internal/db"
	"github.com/pelicanstate/constructhub/internal/intelligence"
	"github.com/pelicanstate/constructhub/internal/knowledge"
	"github.com/pelicanstate/constructhub/internal/llm"
	"github.com/pelicanstate/constructhub/internal/planner"
	"github.com/pelicanstate/constructhub/internal/repository"
	"github.com/pelicanstate/constructhub/internal/scope"
	"github.com/pelicanstate/constructhub/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	v := viper.New()
	config.SetDefaults(v)

	app := &cli.App{
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	var database *sql.DB
	defer func() {
		if database != nil {
			database.Close()
		}
	}()

	var configPath string
	root := cli.NewRootCmd(app)
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default "+config.ConfigFile()+")")
	root.PersistentFlags().String("db", "", "SQLite database path")
	_ = v.BindPFlag("database.path", root.PersistentFlags().Lookup("db"))

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := config.ReadFile(v, configPath); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		database, err = wire(app, cfg)
		return err
	}

	return root.Execute()
}

// wire opens the database and builds every service the commands use.
func wire(app *cli.App, cfg *config.Config) (*sql.DB, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))

	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	workOrders := repository.NewSQLiteWorkOrderRepo(database)
	rates := repository.NewSQLiteLaborRateRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	observer := service.NewSlogUseCaseObserver(logger)

	library := catalog.Default()
	kb := knowledge.Default()
	analyzer := scope.NewAnalyzer(library, kb)
	p := planner.New(analyzer)
	builder := consultation.NewBuilder(library, kb)

	var research *intelligence.ResearchService
	if cfg.Research.Enabled {
		research, err = buildResearch(cfg, logger)
		if err != nil {
			database.Close()
			return nil, err
		}
	}

	app.Library = library
	app.Analyzer = analyzer
	app.Planner = p
	app.Tasks = service.NewTaskService(assembly.NewAssembler(rates), workOrders, uow, observer)
	app.Rates = service.NewRateService(rates, observer)
	app.ResearchEnabled = research != nil && len(research.Providers()) > 0
	app.NewSession = func() *service.IntakeSession {
		opts := []service.IntakeOption{service.WithObserver(observer)}
		if research != nil {
			opts = append(opts, service.WithResearch(research))
		}
		return service.NewIntakeSession(analyzer, builder, p, opts...)
	}
	return database, nil
}

// buildResearch creates the provider chain in configured order. Hosted
// providers without an API key are skipped.
func buildResearch(cfg *config.Config, logger *slog.Logger) (*intelligence.ResearchService, error) {
	var callObserver llm.Observer = llm.NoopObserver{}
	if cfg.Logging.LLMCalls {
		callObserver = llm.NewLogObserver(logger)
	}

	providers := make([]intelligence.ResearchProvider, 0, len(cfg.Research.Providers))
	for _, name := range cfg.Research.Providers {
		switch name {
		case config.ProviderAnthropic:
			if cfg.Anthropic.APIKey == "" {
				logger.Warn("research_provider_skipped", "provider", name, "reason", "missing api key")
				continue
			}
			providers = append(providers, intelligence.NewLLMProvider(name, llm.NewAnthropicClient(cfg.AnthropicClientConfig(), callObserver)))
		case config.ProviderOpenAI:
			if cfg.OpenAI.APIKey == "" {
				logger.Warn("research_provider_skipped", "provider", name, "reason", "missing api key")
				continue
			}
			providers = append(providers, intelligence.NewLLMProvider(name, llm.NewOpenAIClient(cfg.OpenAIClientConfig(), callObserver)))
		case config.ProviderOllama:
			providers = append(providers, intelligence.NewLLMProvider(name, llm.NewOllamaClient(cfg.OllamaClientConfig(), callObserver)))
		}
	}

	cache, err := intelligence.NewSnippetCache(cfg.Research.CacheCapacity, cfg.Research.CacheTTL, time.Now)
	if err != nil {
		return nil, fmt.Errorf("creating research cache: %w", err)
	}
	return intelligence.NewResearchService(providers,
		intelligence.WithCache(cache),
		intelligence.WithTimeout(cfg.Research.Timeout),
		intelligence.WithLogger(logger),
	), nil
}
