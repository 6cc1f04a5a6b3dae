package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
)

type Provider interface {
	Delete(context.Context, *url.URL) error
	WriteCloser(context.Context, *url.URL) (io.WriteCloser, error)
	ReadCloser(context.Context, *url.URL) (io.ReadCloser, error)
}

func ReadBytes(ctx context.Context, p Provider, src *url.URL) (data []byte, err error) {
	r, err := p.ReadCloser(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("unable to open read closer: %w", err)
	}

	defer func() {
		if e := r.Close(); e != nil {
			err = errors.Join(err, fmt.Errorf("unable to close read closer: %w", e))
		}
	}()

	if data, err = io.ReadAll(r); err != nil {
		return nil, fmt.Errorf("unable to read contents: %w", err)
	}

	return data, nil
}

func StoreBytes(ctx context.Context, p Provider, src []byte, dst *url.URL) (err error) {
	w, err := p.WriteCloser(ctx, dst)
	if err != nil {
		return fmt.Errorf("unable to open write closer: %w", err)
	}

	defer func() {
		if e := w.Close(); e != nil {
			err = errors.Join(err, fmt.Errorf("unable to close write closer: %w", e))
		}
	}()

	if _, err = w.Write(src); err != nil {
		return fmt.Errorf("unable to write contents: %w", err)
	}

	return nil
}
