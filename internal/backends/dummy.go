package backends

import (
	"context"
	"net/url"

	log "github.com/sirupsen/logrus"

	"github.com/simonbru/taxi/internal/projects"
)

func init() {
	Register("dummy", newDummy)
}

// dummyBackend accepts every entry without talking to anything. It is
// useful for trying out the workflow and for aliases that should never
// leave the machine.
type dummyBackend struct {
	name string
}

func newDummy(name string, _ *url.URL) (Backend, error) {
	return &dummyBackend{name: name}, nil
}

func (d *dummyBackend) Name() string { return d.name }

func (d *dummyBackend) PushEntry(_ context.Context, entry Entry) error {
	log.WithFields(log.Fields{
		"backend":     d.name,
		"date":        entry.Date.Format("2006-01-02"),
		"hours":       entry.Hours,
		"description": entry.Description,
	}).Debug("discarding entry")
	return nil
}

func (d *dummyBackend) Projects(_ context.Context) ([]projects.Project, error) {
	return nil, nil
}
