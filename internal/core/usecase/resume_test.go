package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/talentpool/talent-match/internal/core/domain"
)

type recordingCandidateStore struct {
	stubCandidateStore

	createdIDs []string
	createErr  map[string]error

	resumeTexts map[string]string
	updateErr   error
}

func (s *recordingCandidateStore) Create(_ context.Context, candidate *domain.Candidate) error {
	if err := s.createErr[candidate.Name]; err != nil {
		return err
	}
	s.createdIDs = append(s.createdIDs, candidate.ID)
	return nil
}

func (s *recordingCandidateStore) UpdateResumeText(_ context.Context, id, text string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if s.resumeTexts == nil {
		s.resumeTexts = map[string]string{}
	}
	s.resumeTexts[id] = text
	return nil
}

type stubQueue struct {
	published []string
	err       error
}

func (q *stubQueue) PublishEntityChanged(_ context.Context, kind domain.EntityKind, entityID string) error {
	if q.err != nil {
		return q.err
	}
	q.published = append(q.published, string(kind)+":"+entityID)
	return nil
}

func (q *stubQueue) SubscribeEntityChanged(context.Context, func(context.Context, domain.EntityKind, string) error) error {
	return nil
}

type stubExtractor struct {
	text string
	err  error
}

func (e *stubExtractor) Extract(context.Context, string, []byte) (string, error) {
	return e.text, e.err
}

type memoryArchive struct {
	files map[string][]byte
	err   error
}

func (a *memoryArchive) Save(_ context.Context, key string, data io.Reader) error {
	if a.err != nil {
		return a.err
	}
	content, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if a.files == nil {
		a.files = map[string][]byte{}
	}
	a.files[key] = content
	return nil
}

func (a *memoryArchive) Open(_ context.Context, key string) (io.ReadCloser, error) {
	content, ok := a.files[key]
	if !ok {
		return nil, errors.New("missing")
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func TestAttachResumeStoresTextArchivesAndEnqueues(t *testing.T) {
	store := &recordingCandidateStore{
		stubCandidateStore: stubCandidateStore{byID: map[string]domain.Candidate{
			"c1": {ID: "c1", Name: "Grace Hopper"},
		}},
	}
	queue := &stubQueue{}
	archive := &memoryArchive{}
	uc := NewResumeUseCase(store, &stubExtractor{text: "Go engineer in Berlin"}, archive, queue, nil)

	err := uc.AttachResume(context.Background(), "c1", "resume.pdf", []byte("%PDF raw"))
	if err != nil {
		t.Fatalf("AttachResume: %v", err)
	}
	if store.resumeTexts["c1"] != "Go engineer in Berlin" {
		t.Fatalf("resume text not stored: %q", store.resumeTexts["c1"])
	}
	if string(archive.files["c1.pdf"]) != "%PDF raw" {
		t.Fatalf("original file not archived: %v", archive.files)
	}
	if len(queue.published) != 1 || queue.published[0] != "candidate:c1" {
		t.Fatalf("reindex not enqueued: %v", queue.published)
	}
}

func TestAttachResumeUnknownCandidate(t *testing.T) {
	store := &recordingCandidateStore{}
	uc := NewResumeUseCase(store, &stubExtractor{text: "x"}, nil, &stubQueue{}, nil)

	err := uc.AttachResume(context.Background(), "missing", "resume.txt", []byte("x"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAttachResumeExtractionFailureIsInvalidInput(t *testing.T) {
	store := &recordingCandidateStore{
		stubCandidateStore: stubCandidateStore{byID: map[string]domain.Candidate{"c1": {ID: "c1"}}},
	}
	uc := NewResumeUseCase(store, &stubExtractor{err: errors.New("corrupt file")}, nil, &stubQueue{}, nil)

	err := uc.AttachResume(context.Background(), "c1", "resume.pdf", []byte("junk"))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if len(store.resumeTexts) != 0 {
		t.Fatalf("text should not be stored on extraction failure")
	}
}

func TestAttachResumeArchiveFailureIsNotFatal(t *testing.T) {
	store := &recordingCandidateStore{
		stubCandidateStore: stubCandidateStore{byID: map[string]domain.Candidate{"c1": {ID: "c1"}}},
	}
	queue := &stubQueue{}
	uc := NewResumeUseCase(store, &stubExtractor{text: "text"}, &memoryArchive{err: errors.New("disk full")}, queue, nil)

	if err := uc.AttachResume(context.Background(), "c1", "resume.txt", []byte("text")); err != nil {
		t.Fatalf("archive failure should not fail the upload: %v", err)
	}
	if store.resumeTexts["c1"] != "text" {
		t.Fatalf("resume text not stored")
	}
	if len(queue.published) != 1 {
		t.Fatalf("reindex not enqueued")
	}
}

func TestAttachResumeQueueFailureIsNotFatal(t *testing.T) {
	store := &recordingCandidateStore{
		stubCandidateStore: stubCandidateStore{byID: map[string]domain.Candidate{"c1": {ID: "c1"}}},
	}
	uc := NewResumeUseCase(store, &stubExtractor{text: "text"}, nil, &stubQueue{err: errors.New("nats down")}, nil)

	if err := uc.AttachResume(context.Background(), "c1", "resume.txt", []byte("text")); err != nil {
		t.Fatalf("queue failure should not fail the upload: %v", err)
	}
	if store.resumeTexts["c1"] != "text" {
		t.Fatalf("resume text not stored")
	}
}

func TestArchiveKeyUsesUploadExtension(t *testing.T) {
	if key := archiveKey("c1", "My Resume.PDF"); key != "c1.pdf" {
		t.Fatalf("unexpected key: %q", key)
	}
	if key := archiveKey("c1", "resume"); key != "c1.txt" {
		t.Fatalf("unexpected key for missing extension: %q", key)
	}
}
