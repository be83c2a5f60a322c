package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/kirillkom/support-assistant/internal/core/domain"
)

type storageFake struct {
	keys []string
	err  error
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.err != nil {
		return f.err
	}
	_, _ = io.Copy(io.Discard, data)
	f.keys = append(f.keys, key)
	return nil
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

type queueFake struct {
	published []string
	err       error
}

func (f *queueFake) PublishDocumentIngested(_ context.Context, documentID string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, documentID)
	return nil
}

func (f *queueFake) SubscribeDocumentIngested(context.Context, func(context.Context, string) error) error {
	return nil
}

func TestUploadPersistsAndPublishes(t *testing.T) {
	repo := newDocRepoFake()
	storage := &storageFake{}
	queue := &queueFake{}
	uc := NewIngestDocumentUseCase(repo, storage, queue)

	doc, err := uc.Upload(context.Background(), "price list.pdf", "application/pdf", strings.NewReader("%PDF"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.Status != domain.StatusUploaded {
		t.Fatalf("expected uploaded status, got %s", doc.Status)
	}
	if len(storage.keys) != 1 || !strings.HasSuffix(storage.keys[0], "price_list.pdf") {
		t.Fatalf("unexpected storage keys: %v", storage.keys)
	}
	if len(queue.published) != 1 || queue.published[0] != doc.ID {
		t.Fatalf("expected ingestion event for %s, got %v", doc.ID, queue.published)
	}
	if _, ok := repo.docs[doc.ID]; !ok {
		t.Fatalf("document metadata not persisted")
	}
}

func TestUploadStorageFailure(t *testing.T) {
	uc := NewIngestDocumentUseCase(newDocRepoFake(), &storageFake{err: errors.New("disk full")}, &queueFake{})
	if _, err := uc.Upload(context.Background(), "a.pdf", "application/pdf", strings.NewReader("x")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	storage := &storageFake{}
	queue := &queueFake{}
	uc := NewIngestDocumentUseCase(newDocRepoFake(), storage, queue)

	_, err := uc.Upload(context.Background(), "payload.exe", "application/octet-stream", strings.NewReader("MZ"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(storage.keys) != 0 {
		t.Fatalf("rejected upload must not reach storage, got keys %v", storage.keys)
	}
	if len(queue.published) != 0 {
		t.Fatalf("rejected upload must not publish, got %v", queue.published)
	}
}

func TestIsSupportedUpload(t *testing.T) {
	cases := []struct {
		filename string
		mimeType string
		want     bool
	}{
		{"guide.pdf", "application/pdf", true},
		{"notes.txt", "text/plain; charset=utf-8", true},
		{"readme.md", "", true},
		{"manual.PDF", "application/octet-stream", true},
		{"notes", "text/plain", true},
		{"payload.exe", "application/octet-stream", false},
		{"image.png", "image/png", false},
		{"archive.zip", "", false},
	}
	for _, tc := range cases {
		if got := isSupportedUpload(tc.filename, tc.mimeType); got != tc.want {
			t.Fatalf("isSupportedUpload(%q, %q) = %v, want %v", tc.filename, tc.mimeType, got, tc.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"weird name!.pdf":  "weird_name_.pdf",
		"../../escape.txt": "escape.txt",
		"":                 "document.bin",
		"ok-file_1.PDF":    "ok-file_1.PDF",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Fatalf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
