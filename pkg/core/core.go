package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/raphaelreyna/liquette/pkg/frontend"
	"github.com/raphaelreyna/liquette/pkg/storage"
	"github.com/raphaelreyna/liquette/pkg/template"
)

const DefaultWorkerCount = 3

// Core ties together the frontend, the template engine and storage.
// It is responsible for handling requests from the frontend, rendering
// each of their contexts and storing the outputs.
type Core struct {
	engine  *template.Engine
	storage *storage.Storage

	ingresses []frontend.Ingress

	workerCount int

	stop func(context.Context) error
}

type Config struct {
	Engine *template.Engine

	Ingresses []frontend.Ingress
	// Storage resolves template and target URIs. Jobs using either fail
	// when it is nil.
	Storage *storage.Storage

	// WorkerCount is the number of contexts of a job rendered concurrently.
	// Anything less than 1 will be treated as DefaultWorkerCount.
	WorkerCount int
}

func (c *Config) validate() error {
	if c.Engine == nil {
		return errors.New("engine is required")
	}

	if len(c.Ingresses) == 0 {
		return errors.New("at least one ingress is required")
	}

	if c.WorkerCount < 1 {
		c.WorkerCount = DefaultWorkerCount
	}

	return nil
}

func NewCore(c *Config) (*Core, error) {
	err := c.validate()
	if err != nil {
		return nil, fmt.Errorf("invalid core config: %w", err)
	}

	return &Core{
		engine:      c.Engine,
		storage:     c.Storage,
		ingresses:   c.Ingresses,
		workerCount: c.WorkerCount,
	}, nil
}

// Start creates a core from c and starts it.
// It returns a function that can be used to stop it.
func Start(ctx context.Context, c *Config) (func(context.Context) error, error) {
	core, err := NewCore(c)
	if err != nil {
		return func(context.Context) error { return nil }, err
	}

	if err := core.Start(ctx); err != nil {
		return core.Stop, err
	}

	return core.Stop, nil
}

// Start starts the frontend using the given ingress(es) after registering itself as the handler.
func (c *Core) Start(ctx context.Context) error {
	stop, err := frontend.Start(ctx, c.handleRequest, c.ingresses...)
	c.stop = stop

	return err
}

func (c *Core) Stop(ctx context.Context) error {
	if c.stop == nil {
		return nil
	}

	return c.stop(ctx)
}
