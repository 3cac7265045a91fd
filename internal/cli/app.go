package cli

import (
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/simonbru/taxi/internal/aliases"
	"github.com/simonbru/taxi/internal/backends"
	"github.com/simonbru/taxi/internal/config"
	"github.com/simonbru/taxi/internal/files"
	"github.com/simonbru/taxi/internal/timesheet"
)

// App bundles the collaborators every command needs. It is built once
// in the root command's PersistentPreRunE, after the configuration has
// been read.
type App struct {
	Config   *config.Config
	Manager  *files.Manager
	Aliases  *aliases.Database
	Backends *backends.Registry

	// Now is the clock, swappable in tests.
	Now func() time.Time

	initialized bool
}

// Init wires the app from a loaded configuration. Calling it on an
// already initialized app is a no-op so tests can inject their own
// collaborators.
func (a *App) Init(cfg *config.Config) error {
	if a.initialized {
		return nil
	}

	manager, err := files.NewManager(cfg.File)
	if err != nil {
		return err
	}
	db, err := aliases.FromConfig(cfg.Aliases)
	if err != nil {
		return err
	}
	registry, err := backends.NewRegistry(cfg.Backends)
	if err != nil {
		return err
	}

	a.Config = cfg
	a.Manager = manager
	a.Aliases = db
	a.Backends = registry
	if a.Now == nil {
		a.Now = time.Now
	}
	a.initialized = true
	return nil
}

// Sheet is a timesheet loaded from disk, remembering where it came
// from so edits can be written back.
type Sheet struct {
	Path      string
	Timesheet *timesheet.Timesheet
}

// LoadSheet reads and parses the timesheet at path. A missing file
// yields an empty sheet.
func (a *App) LoadSheet(path string) (*Sheet, error) {
	contents, err := a.Manager.Load(path)
	if err != nil {
		return nil, err
	}

	collection, err := timesheet.NewEntriesCollection(contents)
	if err != nil {
		var perr *timesheet.ParseError
		if errors.As(err, &perr) {
			perr.File = path
		}
		return nil, err
	}
	a.applyAddDirection(collection)

	ts := timesheet.NewTimesheet(collection, a.Aliases)
	ts.Now = a.Now
	return &Sheet{Path: path, Timesheet: ts}, nil
}

// CurrentSheet loads the timesheet for today.
func (a *App) CurrentSheet() (*Sheet, error) {
	return a.LoadSheet(a.Manager.Path(a.Now()))
}

// SaveSheet writes the sheet back to where it was loaded from.
func (a *App) SaveSheet(s *Sheet) error {
	log.WithField("path", s.Path).Debug("saving timesheet")
	return a.Manager.Save(s.Path, s.Timesheet.Entries.ToLines())
}

// applyAddDirection decides where new date sections go. "auto" follows
// the chronological order already present in the file and falls back to
// top when the file does not reveal one.
func (a *App) applyAddDirection(c *timesheet.EntriesCollection) {
	switch a.Config.AutoAddDirection {
	case "bottom":
		c.AddDateToBottom = true
	case "top":
		c.AddDateToBottom = false
	default:
		topDown, err := c.IsTopDown()
		if err != nil {
			c.AddDateToBottom = false
			return
		}
		c.AddDateToBottom = topDown
	}
}

// today returns the current date at midnight UTC, the form used as
// date-section key.
func (a *App) today() time.Time {
	now := a.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
