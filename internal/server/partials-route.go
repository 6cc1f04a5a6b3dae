package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/raphaelreyna/liquette/pkg/partials"
)

// handlePartials lists the partial references found in the posted template.
func (s *Server) handlePartials() http.HandlerFunc {
	type request struct {
		Template string `json:"template"`
	}
	type response struct {
		References []partials.Reference `json:"references"`
		Matches    map[string][]string  `json:"matches"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
			s.respond(w, r, "error while parsing json body: "+err.Error(), http.StatusBadRequest)
			return
		}

		resp := response{
			References: partials.FindReferences(req.Template),
			Matches:    make(map[string][]string, len(partials.Kinds)),
		}
		if resp.References == nil {
			resp.References = []partials.Reference{}
		}
		for _, k := range partials.Kinds {
			if m := partials.Find(k, req.Template); m != nil {
				resp.Matches[k.String()] = m
			}
		}

		s.respond(w, r, resp, http.StatusOK)
	}
}
