package backends

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/simonbru/taxi/internal/projects"
)

func init() {
	Register("zebra", func(name string, u *url.URL) (Backend, error) {
		return newZebra(name, u, "https")
	})
	Register("zebra+http", func(name string, u *url.URL) (Backend, error) {
		return newZebra(name, u, "http")
	})
}

// zebraBackend talks to a Zebra-compatible timesheet server. The
// configuration URI carries the token and host:
// zebra://token@timesheets.example.com.
type zebraBackend struct {
	name    string
	baseURL string
	token   string
	client  *retryablehttp.Client
}

func newZebra(name string, u *url.URL, scheme string) (Backend, error) {
	if u.Host == "" {
		return nil, fmt.Errorf("backend %q: URI is missing a host", name)
	}
	token := ""
	if u.User != nil {
		token = u.User.Username()
	}

	client := retryablehttp.NewClient()
	client.Logger = stdlog.New(io.Discard, "", 0)
	client.RetryMax = 3

	return &zebraBackend{
		name:    name,
		baseURL: scheme + "://" + u.Host + strings.TrimSuffix(u.Path, "/"),
		token:   token,
		client:  client,
	}, nil
}

func (z *zebraBackend) Name() string { return z.name }

// PushEntry posts one timesheet line to the server.
func (z *zebraBackend) PushEntry(ctx context.Context, entry Entry) error {
	form := url.Values{
		"date":        {entry.Date.Format("2006-01-02")},
		"project_id":  {strconv.Itoa(entry.Mapping.ProjectID)},
		"activity_id": {strconv.Itoa(entry.Mapping.ActivityID)},
		"time":        {strconv.FormatFloat(entry.Hours, 'f', -1, 64)},
		"description": {entry.Description},
	}

	req, err := retryablehttp.NewRequestWithContext(
		ctx, "POST", z.baseURL+"/timesheets/", strings.NewReader(form.Encode()),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	z.authorize(req)

	resp, err := z.client.Do(req)
	if err != nil {
		return fmt.Errorf("push entry: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("push entry: read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		msg := gjson.GetBytes(body, "errors.0").Str
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("push entry rejected: %s", msg)
	}

	log.WithFields(log.Fields{
		"backend": z.name,
		"date":    entry.Date.Format("2006-01-02"),
		"hours":   entry.Hours,
	}).Debug("entry pushed")
	return nil
}

// Projects fetches the remote project catalogue.
func (z *zebraBackend) Projects(ctx context.Context) ([]projects.Project, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", z.baseURL+"/projects/", nil)
	if err != nil {
		return nil, err
	}
	z.authorize(req)

	resp, err := z.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch projects: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch projects: %s", resp.Status)
	}

	var out []projects.Project
	for _, item := range gjson.GetBytes(body, "projects").Array() {
		p := projects.Project{
			Backend: z.name,
			ID:      int(item.Get("id").Int()),
			Name:    item.Get("name").Str,
			Status:  item.Get("status").Str,
		}
		for _, act := range item.Get("activities").Array() {
			p.Activities = append(p.Activities, projects.Activity{
				ID:   int(act.Get("id").Int()),
				Name: act.Get("name").Str,
			})
		}
		out = append(out, p)
	}
	return out, nil
}

func (z *zebraBackend) authorize(req *retryablehttp.Request) {
	if z.token != "" {
		req.Header.Set("Authorization", "Token "+z.token)
	}
}
