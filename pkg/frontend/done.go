package frontend

import "time"

const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

type JobDone struct {
	JobID  string `json:"jobID,omitempty"`
	Status string `json:"status,omitempty"`

	Error string `json:"error,omitempty"`

	Renders []ContextRender `json:"renders,omitempty"`

	RequestedAt time.Time     `json:"requestedAt,omitempty"`
	StartedAt   time.Time     `json:"startedAt,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
}

type ContextRender struct {
	Status      string        `json:"status,omitempty"`
	Output      string        `json:"output,omitempty"`
	ArtifactURL string        `json:"artifactURL,omitempty"`
	Errors      []string      `json:"errors,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
}

// Rejected reports a job that failed before any render started.
func Rejected(j *Job, err error) *JobDone {
	jd := JobDone{Status: StatusFailed}
	if j != nil {
		jd.JobID = j.ID
		jd.RequestedAt = j.RequestedAt
	}
	if err != nil {
		jd.Error = err.Error()
	}
	return &jd
}
