package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
)

var ErrUnknownScheme = errors.New("no storage provider for url scheme")

// Storage routes reads and writes to the provider registered for a URL's scheme.
type Storage struct {
	providers map[string]Provider
}

func (s *Storage) RegisterStorageProvider(p Provider, scheme ...string) error {
	if len(scheme) == 0 {
		return errors.New("no schemes provided")
	}

	if s.providers == nil {
		s.providers = make(map[string]Provider)
	}

	dups := make(map[string]struct{})
	for _, schemeName := range scheme {
		if schemeName == "" {
			return errors.New("empty scheme provided")
		}
		if _, found := s.providers[schemeName]; found {
			return fmt.Errorf("scheme %s already registered", schemeName)
		}
		if _, found := dups[schemeName]; found {
			return fmt.Errorf("duplicate scheme %s provided", schemeName)
		}
		dups[schemeName] = struct{}{}
	}

	for _, schemeName := range scheme {
		s.providers[schemeName] = p
	}

	return nil
}

func (s *Storage) provider(u *url.URL) (Provider, error) {
	if p := s.providers[u.Scheme]; p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownScheme, u.Scheme)
}

func (s *Storage) Delete(ctx context.Context, u *url.URL) error {
	provider, err := s.provider(u)
	if err != nil {
		return err
	}

	return provider.Delete(ctx, u)
}

func (s *Storage) WriteCloser(ctx context.Context, u *url.URL) (io.WriteCloser, error) {
	provider, err := s.provider(u)
	if err != nil {
		return nil, err
	}

	return provider.WriteCloser(ctx, u)
}

func (s *Storage) ReadCloser(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	provider, err := s.provider(u)
	if err != nil {
		return nil, err
	}

	return provider.ReadCloser(ctx, u)
}

func (s *Storage) ReadBytes(ctx context.Context, src *url.URL) ([]byte, error) {
	provider, err := s.provider(src)
	if err != nil {
		return nil, err
	}

	return ReadBytes(ctx, provider, src)
}

func (s *Storage) StoreBytes(ctx context.Context, src []byte, dst *url.URL) error {
	provider, err := s.provider(dst)
	if err != nil {
		return err
	}

	return StoreBytes(ctx, provider, src, dst)
}
