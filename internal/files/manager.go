package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644
)

// Manager centralizes where timesheets live on disk and how files are
// named. Paths come from a template whose %Y, %y, %m and %d tokens are
// substituted with the relevant date, so one file per month (or per
// year, or per day) all work with the same code.
type Manager struct {
	template string
}

// NewManager constructs a Manager from a path template. If template is
// empty, it falls back to TAXI_FILE or the default location determined
// by ResolveTemplate.
func NewManager(template string) (*Manager, error) {
	var err error
	if template == "" {
		template, err = ResolveTemplate()
		if err != nil {
			return nil, err
		}
	}
	template, err = ExpandPath(template)
	if err != nil {
		return nil, err
	}

	return &Manager{template: template}, nil
}

// Template returns the expanded path template.
func (m *Manager) Template() string {
	return m.template
}

// Path resolves the timesheet path for the supplied date. The file may
// not exist yet; callers can choose to create it.
func (m *Manager) Path(t time.Time) string {
	return expandDate(m.template, t)
}

// PreviousPaths returns the paths of the n timesheets preceding the one
// for the given date, most recent first. Stepping follows the template:
// a %m token steps by month, a year-only template steps by year. A
// template with no date tokens always maps to the same file, so there
// are no previous ones.
func (m *Manager) PreviousPaths(n int, from time.Time) []string {
	var step func(time.Time, int) time.Time
	switch {
	case strings.Contains(m.template, "%m") || strings.Contains(m.template, "%d"):
		step = func(t time.Time, i int) time.Time { return t.AddDate(0, -i, 0) }
	case strings.Contains(m.template, "%Y") || strings.Contains(m.template, "%y"):
		step = func(t time.Time, i int) time.Time { return t.AddDate(-i, 0, 0) }
	default:
		return nil
	}

	seen := map[string]bool{m.Path(from): true}
	var out []string
	for i := 1; i <= n; i++ {
		path := expandDate(m.template, step(from, i))
		if seen[path] {
			continue
		}
		seen[path] = true
		out = append(out, path)
	}
	return out
}

// Load reads the timesheet at path. A missing file is not an error; it
// yields empty contents so a new month starts from a blank sheet.
func (m *Manager) Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read timesheet: %w", err)
	}
	return string(data), nil
}

// Save writes the lines to path atomically, creating parent directories
// as needed. The file is written to a temp file in the same directory
// and renamed over the target so a crash never leaves a half-written
// timesheet.
func (m *Manager) Save(path string, lines []string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	temp, err := os.CreateTemp(dir, "taxi-*")
	if err != nil {
		return err
	}
	defer os.Remove(temp.Name())

	content := strings.Join(lines, "\n")
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	if _, err := temp.WriteString(content); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return err
	}

	mode := os.FileMode(filePermissions)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.Chmod(temp.Name(), mode); err != nil {
		return err
	}

	return os.Rename(temp.Name(), path)
}

// expandDate substitutes the strftime-style date tokens in template.
func expandDate(template string, t time.Time) string {
	r := strings.NewReplacer(
		"%Y", fmt.Sprintf("%04d", t.Year()),
		"%y", fmt.Sprintf("%02d", t.Year()%100),
		"%m", fmt.Sprintf("%02d", t.Month()),
		"%d", fmt.Sprintf("%02d", t.Day()),
	)
	return r.Replace(template)
}
