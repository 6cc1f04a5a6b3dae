package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raphaelreyna/liquette/pkg/frontend"
	"github.com/raphaelreyna/liquette/pkg/log"
	"github.com/raphaelreyna/liquette/pkg/template"
)

func (c *Core) handleRequest(req *frontend.Request) {
	var (
		ctx = req.Context()
		j   = req.Job
		jd  = frontend.JobDone{
			JobID:       j.ID,
			RequestedAt: j.RequestedAt,
		}
	)

	ctx = log.WithLogger(ctx, log.Logger(ctx).With().Str("job", j.ID).Logger())

	if j.Timeout > 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, time.Duration(j.Timeout))
		defer cancel()
	}

	var target *url.URL
	if j.TargetURI != "" {
		var err error
		if target, err = j.GetTargetURL(); err != nil {
			log.Error(ctx, "error parsing target url", err)
			c.fail(req, &jd, err)
			return
		}
	}

	tmpl, err := c.template(ctx, j)
	if err != nil {
		log.Error(ctx, "error loading template", err)
		c.fail(req, &jd, err)
		return
	}

	contexts := j.Contexts
	if len(contexts) == 0 {
		contexts = []json.RawMessage{nil}
	}
	jd.Renders = make([]frontend.ContextRender, len(contexts))
	jd.StartedAt = time.Now()

	// each render writes only its own slot; a failed context does not
	// cancel the others.
	var g errgroup.Group
	g.SetLimit(c.workerCount)
	for idx, data := range contexts {
		idx, data := idx, data
		g.Go(func() error {
			jd.Renders[idx] = c.render(ctx, tmpl, idx, data, targetFor(target, idx, len(contexts)))
			return nil
		})
	}
	_ = g.Wait()
	jd.Duration = time.Since(jd.StartedAt)

	renderFailedCount := 0
	for _, cr := range jd.Renders {
		if cr.Status == frontend.StatusFailed {
			renderFailedCount++
		}
	}
	if renderFailedCount == len(jd.Renders) {
		jd.Status = frontend.StatusFailed
	} else if renderFailedCount > 0 {
		jd.Status = frontend.StatusPartial
	} else {
		jd.Status = frontend.StatusSuccess
	}

	jobsTotal.WithLabelValues(jd.Status).Inc()
	log.Info(ctx, "job done", nil,
		"status", jd.Status,
		"renders", len(jd.Renders),
		"duration", jd.Duration,
	)

	req.Done(&jd)
}

// template parses the job's template, reading it through storage when it is
// given by URI.
func (c *Core) template(ctx context.Context, j *frontend.Job) (*template.Template, error) {
	if j.Template != "" {
		return c.engine.Parse(j.ID, j.Template)
	}

	if c.storage == nil {
		return nil, errors.New("template uri given but no storage is configured")
	}

	u, err := j.GetTemplateURI()
	if err != nil {
		return nil, fmt.Errorf("error parsing template uri: %w", err)
	}

	src, err := c.storage.ReadBytes(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("error reading template: %w", err)
	}

	return c.engine.Parse(u.String(), string(src))
}

func (c *Core) render(ctx context.Context, tmpl *template.Template, idx int, data json.RawMessage, target *url.URL) (cr frontend.ContextRender) {
	start := time.Now()
	defer func() {
		cr.Duration = time.Since(start)
		if len(cr.Errors) > 0 {
			cr.Status = frontend.StatusFailed
		} else {
			cr.Status = frontend.StatusSuccess
		}
	}()

	bindings, err := template.Bindings(data)
	if err != nil {
		cr.Errors = append(cr.Errors, err.Error())
		return cr
	}

	out, err := tmpl.Execute(ctx, bindings)
	if err != nil {
		log.Error(ctx, "error rendering context", err, "contextIndex", idx)
		cr.Errors = append(cr.Errors, err.Error())
		return cr
	}
	cr.Output = out

	if target == nil {
		return cr
	}
	if c.storage == nil {
		cr.Errors = append(cr.Errors, "target uri given but no storage is configured")
		return cr
	}
	if err := c.storage.StoreBytes(ctx, []byte(out), target); err != nil {
		log.Error(ctx, "error storing output", err, "contextIndex", idx)
		cr.Errors = append(cr.Errors, err.Error())
		return cr
	}
	cr.ArtifactURL = target.String()

	return cr
}

// targetFor returns where the output of context idx of n goes. With more
// than one context the index is added to the file name: out.html becomes
// out-0.html, out-1.html and so on.
func targetFor(target *url.URL, idx, n int) *url.URL {
	if target == nil {
		return nil
	}

	u := *target
	if n > 1 {
		ext := path.Ext(u.Path)
		u.Path = u.Path[:len(u.Path)-len(ext)] + "-" + strconv.Itoa(idx) + ext
	}

	return &u
}

func (c *Core) fail(req *frontend.Request, jd *frontend.JobDone, err error) {
	jd.Status = frontend.StatusFailed
	if err != nil {
		jd.Error = err.Error()
	}
	jobsTotal.WithLabelValues(jd.Status).Inc()
	req.Done(jd)
}
