package storage_test

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/raphaelreyna/liquette/pkg/storage"
	"github.com/raphaelreyna/liquette/pkg/test"
)

func TestStoreAndRead(t *testing.T) {
	ctx := context.Background()
	provider1 := test.MockProvider{
		Data: make(map[string]*test.MockWriteCloser),
	}
	s := storage.Storage{}
	if err := s.RegisterStorageProvider(&provider1, "mock1"); err != nil {
		t.Fatal(err)
	}

	u := &url.URL{Scheme: "mock1", Host: "testing", Path: "/test1"}
	if err := s.StoreBytes(ctx, []byte("<p>hi</p>"), u); err != nil {
		t.Fatal(err)
	}

	data, err := s.ReadBytes(ctx, u)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<p>hi</p>" {
		t.Fatalf("expected stored bytes back, got %q", data)
	}

	if err := s.Delete(ctx, u); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ReadBytes(ctx, u); err == nil {
		t.Fatalf("expected an error reading a deleted url")
	}
}

func TestUnknownScheme(t *testing.T) {
	s := storage.Storage{}
	_, err := s.ReadBytes(context.Background(), &url.URL{Scheme: "s3", Path: "/x"})
	if !errors.Is(err, storage.ErrUnknownScheme) {
		t.Fatalf("expected ErrUnknownScheme, got %v", err)
	}
}

func TestRegisterStorageProvider(t *testing.T) {
	s := storage.Storage{}
	p := &test.MockProvider{}

	if err := s.RegisterStorageProvider(p); err == nil {
		t.Fatalf("expected an error without schemes")
	}
	if err := s.RegisterStorageProvider(p, "a", "a"); err == nil {
		t.Fatalf("expected an error for duplicate schemes")
	}
	if err := s.RegisterStorageProvider(p, "a", ""); err == nil {
		t.Fatalf("expected an error for an empty scheme")
	}
	if err := s.RegisterStorageProvider(p, "a", "b"); err != nil {
		t.Fatal(err)
	}
	if err := s.RegisterStorageProvider(p, "b"); err == nil {
		t.Fatalf("expected an error for an already registered scheme")
	}
}

func TestLocal(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := storage.Storage{}
	if err := s.RegisterStorageProvider(&storage.Local{Root: root}, storage.LocalScheme); err != nil {
		t.Fatal(err)
	}

	u, err := url.Parse("file:///out/page.html")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.StoreBytes(ctx, []byte("page"), u); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(root, "out", "page.html"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "page" {
		t.Fatalf("expected %q, got %q", "page", data)
	}

	escaped, _ := url.Parse("file:///../../out/page.html")
	data, err = s.ReadBytes(ctx, escaped)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "page" {
		t.Fatalf("expected the path to resolve inside the root, got %q", data)
	}
}
