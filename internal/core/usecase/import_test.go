package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/talentpool/talent-match/internal/core/domain"
)

type stubParser struct {
	candidates []domain.Candidate
	rowErrors  []string
	err        error
}

func (p *stubParser) ParseCandidates(io.Reader) ([]domain.Candidate, []string, error) {
	return p.candidates, p.rowErrors, p.err
}

func TestImportCandidatesCreatesAndEnqueues(t *testing.T) {
	store := &recordingCandidateStore{}
	queue := &stubQueue{}
	parser := &stubParser{candidates: []domain.Candidate{
		{Name: "Grace Hopper", Email: "grace@example.com"},
		{Name: "Ada Lovelace", Email: "ada@example.com"},
	}}
	uc := NewCandidateImportUseCase(parser, store, queue, nil)

	summary, err := uc.ImportCandidates(context.Background(), strings.NewReader("workbook"))
	if err != nil {
		t.Fatalf("ImportCandidates: %v", err)
	}
	if summary.Imported != 2 || summary.Skipped != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(store.createdIDs) != 2 {
		t.Fatalf("expected 2 creates, got %d", len(store.createdIDs))
	}
	for _, id := range store.createdIDs {
		if id == "" {
			t.Fatal("import should assign ids")
		}
	}
	if len(queue.published) != 2 {
		t.Fatalf("expected 2 reindex events, got %v", queue.published)
	}
}

func TestImportCandidatesCarriesRowErrors(t *testing.T) {
	parser := &stubParser{
		candidates: []domain.Candidate{{Name: "Grace Hopper", Email: "grace@example.com"}},
		rowErrors:  []string{"row 3: missing email"},
	}
	uc := NewCandidateImportUseCase(parser, &recordingCandidateStore{}, &stubQueue{}, nil)

	summary, err := uc.ImportCandidates(context.Background(), strings.NewReader("workbook"))
	if err != nil {
		t.Fatalf("ImportCandidates: %v", err)
	}
	if summary.Imported != 1 || summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(summary.Errors) != 1 || summary.Errors[0] != "row 3: missing email" {
		t.Fatalf("row errors not carried: %v", summary.Errors)
	}
}

func TestImportCandidatesParserFailureIsInvalidInput(t *testing.T) {
	uc := NewCandidateImportUseCase(&stubParser{err: errors.New("not a workbook")}, &recordingCandidateStore{}, &stubQueue{}, nil)

	_, err := uc.ImportCandidates(context.Background(), strings.NewReader("junk"))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestImportCandidatesSkipsFailedCreates(t *testing.T) {
	store := &recordingCandidateStore{createErr: map[string]error{
		"Ada Lovelace": errors.New("duplicate email"),
	}}
	queue := &stubQueue{}
	parser := &stubParser{candidates: []domain.Candidate{
		{Name: "Grace Hopper", Email: "grace@example.com"},
		{Name: "Ada Lovelace", Email: "ada@example.com"},
	}}
	uc := NewCandidateImportUseCase(parser, store, queue, nil)

	summary, err := uc.ImportCandidates(context.Background(), strings.NewReader("workbook"))
	if err != nil {
		t.Fatalf("ImportCandidates: %v", err)
	}
	if summary.Imported != 1 || summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(queue.published) != 1 {
		t.Fatalf("failed create must not enqueue reindex: %v", queue.published)
	}
}

func TestImportCandidatesQueueFailureStillImports(t *testing.T) {
	store := &recordingCandidateStore{}
	parser := &stubParser{candidates: []domain.Candidate{{Name: "Grace Hopper", Email: "grace@example.com"}}}
	uc := NewCandidateImportUseCase(parser, store, &stubQueue{err: errors.New("nats down")}, nil)

	summary, err := uc.ImportCandidates(context.Background(), strings.NewReader("workbook"))
	if err != nil {
		t.Fatalf("ImportCandidates: %v", err)
	}
	if summary.Imported != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
