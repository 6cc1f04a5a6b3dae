package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/raphaelreyna/liquette/pkg/frontend"
	"github.com/raphaelreyna/liquette/pkg/log"
)

const maxBodySize = 8 << 20

// handleRender queues the posted job and answers with its result.
func (s *Server) handleRender() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var job frontend.Job
		err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&job)
		switch {
		case errors.Is(err, io.EOF):
			s.respond(w, r, "received empty body", http.StatusBadRequest)
			return
		case err != nil:
			s.respond(w, r, "error while parsing json body: "+err.Error(), http.StatusBadRequest)
			return
		}

		if job.ID == "" {
			job.ID = uuid.NewString()
		}
		job.RequestedAt = time.Now()

		if err := job.Validate(); err != nil {
			s.respond(w, r, frontend.Rejected(&job, err), http.StatusBadRequest)
			return
		}

		ctx := log.WithLogger(r.Context(), *hlog.FromRequest(r))
		done := make(chan *frontend.JobDone, 1)
		req := frontend.NewRequest(ctx)
		req.Job = &job
		req.Done = func(jd *frontend.JobDone) {
			done <- jd
		}

		select {
		case s.reqChan <- req:
		case <-ctx.Done():
			s.respond(w, r, "request cancelled", http.StatusServiceUnavailable)
			return
		}

		select {
		case jd := <-done:
			code := http.StatusOK
			if jd.Status == frontend.StatusFailed {
				code = http.StatusUnprocessableEntity
			}
			s.respond(w, r, jd, code)
		case <-ctx.Done():
			s.respond(w, r, "request cancelled", http.StatusServiceUnavailable)
		}
	}
}
