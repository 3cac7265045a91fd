package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config is the typed view of the configuration file. Everything has a
// workable default so a fresh install runs without any file at all.
type Config struct {
	// File is the timesheet path template, with %Y, %y, %m and %d
	// substituted with the current date.
	File string
	// Editor is the command used by the edit command. Empty means
	// $VISUAL or $EDITOR.
	Editor string
	// AutoAddDirection controls where new date sections go: "auto"
	// follows the file's existing order, "top" and "bottom" force it.
	AutoAddDirection string
	// NbPreviousFiles is how many previous timesheets commit also
	// considers.
	NbPreviousFiles int
	// Regroup merges entries sharing alias and description before
	// pushing.
	Regroup bool
	// ProjectsDB is the path of the local project catalogue.
	ProjectsDB string
	// Backends maps backend names to their configuration URIs.
	Backends map[string]string
	// Aliases maps backend names to alias sections, each mapping an
	// alias to "project_id/activity_id".
	Aliases map[string]map[string]string
}

// Init wires the defaults and the config file location into viper. When
// cfgFile is empty the file is looked up at ~/.taxirc.yml.
func Init(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return err
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".taxirc")
		viper.SetConfigType("yml")
	}

	viper.SetEnvPrefix("taxi")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func setDefaults() {
	home, err := homedir.Dir()
	if err != nil {
		home = "."
	}
	viper.SetDefault("file", "")
	viper.SetDefault("editor", "")
	viper.SetDefault("auto_add", "auto")
	viper.SetDefault("nb_previous_files", 1)
	viper.SetDefault("regroup_entries", true)
	viper.SetDefault("projects_db", filepath.Join(home, ".taxi", "projects.db"))
}

// Load materializes the typed config from whatever viper has read.
func Load() (*Config, error) {
	cfg := &Config{
		File:             viper.GetString("file"),
		Editor:           viper.GetString("editor"),
		AutoAddDirection: viper.GetString("auto_add"),
		NbPreviousFiles:  viper.GetInt("nb_previous_files"),
		Regroup:          viper.GetBool("regroup_entries"),
		ProjectsDB:       viper.GetString("projects_db"),
		Backends:         viper.GetStringMapString("backends"),
		Aliases:          make(map[string]map[string]string),
	}

	switch cfg.AutoAddDirection {
	case "", "auto", "top", "bottom":
	default:
		return nil, fmt.Errorf("auto_add must be one of auto, top or bottom, got %q", cfg.AutoAddDirection)
	}

	for backend := range cfg.Backends {
		section := viper.GetStringMapString("aliases." + backend)
		if len(section) > 0 {
			cfg.Aliases[backend] = section
		}
	}

	return cfg, nil
}
