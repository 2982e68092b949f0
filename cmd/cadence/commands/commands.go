package commands

import (
	"context"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/cadence/internal/log"
	"github.com/slok/cadence/internal/model"
	"github.com/slok/cadence/internal/storage"
	storageio "github.com/slok/cadence/internal/storage/io"
	"github.com/slok/cadence/internal/storage/sqlite"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

//go:embed catalog.yaml
var defaultCatalogFS embed.FS

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug       bool
	NoLog       bool
	NoColor     bool
	LoggerType  string
	DBPath      string
	CatalogPath string

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	defaultDBPath := filepath.Join(homedir.HomeDir(), ".cadence", "cadence.db")
	app.Flag("db-path", "Path to the SQLite database file.").Envar("CADENCE_DB_PATH").Default(defaultDBPath).StringVar(&c.DBPath)
	app.Flag("catalog", "Path to a custom achievement catalog YAML file.").Envar("CADENCE_CATALOG").StringVar(&c.CatalogPath)

	return c
}

// newRepository opens the SQLite repository and seeds the achievement
// catalog. Seeding only inserts missing achievements, unlock state is never
// touched.
func newRepository(ctx context.Context, rootCmd *RootCommand) (storage.Repository, error) {
	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: rootCmd.DBPath,
		Logger: rootCmd.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}

	catalog, err := loadCatalog(ctx, rootCmd.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("could not load achievement catalog: %w", err)
	}
	if err := repo.SeedAchievements(ctx, catalog); err != nil {
		return nil, fmt.Errorf("could not seed achievement catalog: %w", err)
	}

	return repo, nil
}

func loadCatalog(ctx context.Context, path string) ([]model.Achievement, error) {
	if path == "" {
		return storageio.NewCatalogYAMLRepository(defaultCatalogFS).GetCatalog(ctx, "catalog.yaml")
	}

	dir, file := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	return storageio.NewCatalogYAMLRepository(os.DirFS(dir)).GetCatalog(ctx, file)
}
