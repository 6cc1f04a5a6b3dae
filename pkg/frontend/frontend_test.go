package frontend_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/raphaelreyna/liquette/pkg/frontend"
	"github.com/raphaelreyna/liquette/pkg/log"
	"github.com/raphaelreyna/liquette/pkg/test"
)

func TestStart(t *testing.T) {
	ctx := context.Background()
	h := test.MockHandler{}
	ti := test.MockIngress{
		RequestsQueue: []*frontend.Request{
			test.RandomRequest(ctx, nil, "", ""),
			test.RandomRequest(ctx, nil, "", ""),
		},
	}
	h.Add(len(ti.RequestsQueue))

	stopFunc, err := frontend.Start(ctx, h.Handle, &ti)
	if err != nil {
		t.Fatalf("error starting frontend: %v", err)
	}

	doneChan := make(chan struct{})
	go func() {
		h.Wait()
		close(doneChan)
	}()
	timeout := time.After(1 * time.Second)
	select {
	case <-timeout:
		t.Fatalf("timed out waiting for requests to be handled")
	case <-doneChan:
	}

	if err = stopFunc(ctx); err != nil {
		t.Fatalf("error stopping frontend: %v", err)
	}
	if ti.StoppedAt == nil {
		t.Fatalf("expected ingress to be stopped")
	}

	receivedRequests := make(map[*frontend.Request]struct{})
	for _, req := range h.ReceivedRequests {
		receivedRequests[req] = struct{}{}
	}

	for _, req := range ti.RequestsQueue {
		if _, ok := receivedRequests[req]; !ok {
			t.Fatalf("expected request %v to be handled, but it was not", req)
		}
	}
}

func TestStartRejectsInvalidRequests(t *testing.T) {
	var logs bytes.Buffer
	ctx := log.WithLogger(context.Background(), zerolog.New(&logs))
	h := test.MockHandler{}

	done := make(chan *frontend.JobDone, 1)
	req := frontend.NewRequest(ctx)
	req.Job = &frontend.Job{ID: "no-template"}
	req.Done = func(jd *frontend.JobDone) { done <- jd }

	ti := test.MockIngress{RequestsQueue: []*frontend.Request{req}}
	stopFunc, err := frontend.Start(ctx, h.Handle, &ti)
	if err != nil {
		t.Fatalf("error starting frontend: %v", err)
	}
	defer stopFunc(ctx)

	select {
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for the rejection")
	case jd := <-done:
		if jd.Status != frontend.StatusFailed || jd.JobID != "no-template" || jd.Error == "" {
			t.Fatalf("unexpected job done: %+v", jd)
		}
	}

	if len(h.ReceivedRequests) != 0 {
		t.Fatalf("expected invalid request not to reach the handler")
	}
	if !strings.Contains(logs.String(), `"job":"no-template"`) {
		t.Fatalf("expected the rejection to be logged with its job id, got %q", logs.String())
	}
}

func TestJobValidate(t *testing.T) {
	cases := map[string]struct {
		job   frontend.Job
		valid bool
	}{
		"inline":       {frontend.Job{ID: "a", Template: "x"}, true},
		"uri":          {frontend.Job{ID: "a", TemplateURI: "file:///x.liquid"}, true},
		"no id":        {frontend.Job{Template: "x"}, false},
		"no template":  {frontend.Job{ID: "a"}, false},
		"both":         {frontend.Job{ID: "a", Template: "x", TemplateURI: "file:///x"}, false},
		"neg. timeout": {frontend.Job{ID: "a", Template: "x", Timeout: -1}, false},
	}

	for name, tc := range cases {
		err := tc.job.Validate()
		if tc.valid && err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
		}
		if !tc.valid && err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestDurationJSON(t *testing.T) {
	var j frontend.Job
	if err := json.Unmarshal([]byte(`{"id":"a","template":"x","timeout":"1.5s"}`), &j); err != nil {
		t.Fatal(err)
	}
	if time.Duration(j.Timeout) != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s, got %v", time.Duration(j.Timeout))
	}

	if err := json.Unmarshal([]byte(`{"timeout":"soon"}`), &j); err == nil {
		t.Fatalf("expected an invalid duration error")
	}

	b, err := json.Marshal(frontend.Job{ID: "a", Timeout: frontend.Duration(2 * time.Second)})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if m["timeout"] != "2s" {
		t.Fatalf("expected timeout 2s, got %v", m["timeout"])
	}
}
