package render

import (
	"context"

	"github.com/raphaelreyna/liquette/pkg/frontend"
)

func (c *Cmd) Start(context.Context) error {
	return nil
}

func (c *Cmd) Stop(context.Context) error {
	c.closeOnce.Do(func() { close(c.reqChan) })
	return nil
}

func (c *Cmd) RequestsChan() <-chan *frontend.Request {
	return c.reqChan
}
