package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/raphaelreyna/liquette/cmd/liquette/pkg/config"
	"github.com/raphaelreyna/liquette/pkg/core"
	"github.com/raphaelreyna/liquette/pkg/frontend"
	"github.com/raphaelreyna/liquette/pkg/log"
	"github.com/raphaelreyna/liquette/pkg/storage"
)

func (c *Cmd) run(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	if err = c.validate(); err != nil {
		return fmt.Errorf("error validating render command: %w", err)
	}

	engine, err := config.EngineFrom(ctx)
	if err != nil {
		return err
	}

	contexts, err := readContexts(c.dataPath)
	if err != nil {
		return err
	}

	strg := storage.Storage{}
	if err := strg.RegisterStorageProvider(&storage.Local{}, storage.LocalScheme); err != nil {
		return err
	}

	// start the core using passed in args and flags
	stopFunc, err := core.Start(ctx, &core.Config{
		Engine:      engine,
		Ingresses:   []frontend.Ingress{c},
		Storage:     &strg,
		WorkerCount: c.workerCount,
	})
	defer func() {
		if e := stopFunc(ctx); e != nil {
			err = errors.Join(err, fmt.Errorf("error stopping core: %w", e))
		}
	}()
	if err != nil {
		return fmt.Errorf("error creating core: %w", err)
	}

	jobs := make([]*frontend.Job, len(args))
	for i, path := range args {
		if jobs[i], err = c.job(path, contexts); err != nil {
			return err
		}
	}

	// send every job to the core and wait for all of them
	results := make([]*frontend.JobDone, len(jobs))
	var g errgroup.Group
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			done := make(chan *frontend.JobDone, 1)
			req := frontend.NewRequest(ctx)
			req.Job = j
			req.Done = func(jd *frontend.JobDone) {
				done <- jd
			}

			select {
			case c.reqChan <- req:
			case <-ctx.Done():
				return ctx.Err()
			}

			select {
			case results[i] = <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := c.print(cmd.OutOrStdout(), results); err != nil {
		return err
	}

	var failed []string
	for _, jd := range results {
		if jd.Status != frontend.StatusSuccess {
			failed = append(failed, jd.JobID)
		}
	}
	if len(failed) > 0 {
		log.Warn(ctx, "some renders failed", nil, "jobs", failed)
		return fmt.Errorf("rendering failed for %s", strings.Join(failed, ", "))
	}

	return nil
}

// job turns a template path into a render job, reading the template through
// file storage and writing to the output directory when one was given.
func (c *Cmd) job(path string, contexts []json.RawMessage) (*frontend.Job, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("error resolving %s: %w", path, err)
	}

	j := frontend.Job{
		ID:          path,
		TemplateURI: fileURL(abs),
		Contexts:    contexts,
		RequestedAt: time.Now(),
	}

	if c.outDir != "" {
		out, err := filepath.Abs(c.outDir)
		if err != nil {
			return nil, fmt.Errorf("error resolving %s: %w", c.outDir, err)
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".html"
		j.TargetURI = fileURL(filepath.Join(out, name))
	}

	return &j, nil
}

func (c *Cmd) print(w io.Writer, results []*frontend.JobDone) error {
	if c.jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for _, jd := range results {
		if jd.Error != "" {
			fmt.Fprintf(w, "%s: %s\n", jd.JobID, jd.Error)
			continue
		}
		for idx, cr := range jd.Renders {
			switch {
			case len(cr.Errors) > 0:
				fmt.Fprintf(w, "%s[%d]: %s\n", jd.JobID, idx, strings.Join(cr.Errors, "; "))
			case cr.ArtifactURL != "":
				fmt.Fprintf(w, "%s[%d] -> %s\n", jd.JobID, idx, cr.ArtifactURL)
			default:
				fmt.Fprintln(w, cr.Output)
			}
		}
	}

	return nil
}

// readContexts reads a JSON object or a list of objects from path.
func readContexts(path string) ([]json.RawMessage, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading data: %w", err)
	}

	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("data must be a JSON object or a list of objects: %w", err)
	}

	return []json.RawMessage{data}, nil
}

func fileURL(path string) string {
	u := url.URL{Scheme: storage.LocalScheme, Path: filepath.ToSlash(path)}
	return u.String()
}
