package frontend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Job asks for one template to be rendered once per context.
type Job struct {
	ID string `json:"id"`

	// Exactly one of Template and TemplateURI must be set.
	Template    string `json:"template,omitempty"`
	TemplateURI string `json:"templateURI,omitempty"`

	RequestedAt time.Time `json:"requestedAt"`

	// The following fields are optional

	// Contexts are JSON objects, one render each. No contexts means a single
	// render with empty bindings.
	Contexts []json.RawMessage `json:"contexts,omitempty"`
	// TargetURI is where outputs are stored. With several contexts the
	// context index is added to the file name.
	TargetURI string `json:"targetURI,omitempty"`

	Timeout Duration `json:"timeout,omitempty"`
}

func (j *Job) GetTemplateURI() (*url.URL, error) {
	return url.Parse(j.TemplateURI)
}

func (j *Job) GetTargetURL() (*url.URL, error) {
	return url.Parse(j.TargetURI)
}

func (j *Job) Validate() error {
	if j.ID == "" {
		return fmt.Errorf("job id cannot be empty")
	}

	switch {
	case j.Template == "" && j.TemplateURI == "":
		return errors.New("job needs a template or a template uri")
	case j.Template != "" && j.TemplateURI != "":
		return errors.New("job template and template uri are mutually exclusive")
	}

	if j.Timeout < 0 {
		return fmt.Errorf("job timeout cannot be negative")
	}

	return nil
}

// Duration is a time.Duration that reads and writes JSON as a string such as
// "1.5s". Plain numbers are read as nanoseconds.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch x := v.(type) {
	case float64:
		*d = Duration(x)
	case string:
		pd, err := time.ParseDuration(x)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		*d = Duration(pd)
	default:
		return fmt.Errorf("invalid duration %s", b)
	}

	return nil
}
