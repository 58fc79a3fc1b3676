package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/aisearch/internal/model"
)

// stubStep is a minimal Step for orchestration tests.
type stubStep struct {
	name string
	do   func(ctx context.Context, ex *model.Extraction) error
}

func (s *stubStep) Name() string { return s.name }

func (s *stubStep) Do(ctx context.Context, ex *model.Extraction) error {
	if s.do == nil {
		return nil
	}
	return s.do(ctx, ex)
}

func newExtraction() *model.Extraction {
	req := model.NewExtractionRequest("mietspiegel dresden")
	return model.NewExtraction(req, "https://www.google.com/search?udm=50&q=mietspiegel+dresden")
}

// TestPipelineExecute tests step sequencing and termination.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs all steps in order and records them", func(t *testing.T) {
		t.Parallel()

		var order []string
		p := New()
		for _, name := range []string{"first", "second", "third"} {
			p.AddStep(&stubStep{name: name, do: func(_ context.Context, _ *model.Extraction) error {
				order = append(order, name)
				return nil
			}})
		}

		ex := newExtraction()
		if err := p.Execute(context.Background(), ex); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(order) != 3 || order[0] != "first" || order[2] != "third" {
			t.Errorf("execution order = %v", order)
		}
		if len(ex.PerformedSteps) != 3 {
			t.Errorf("PerformedSteps = %v", ex.PerformedSteps)
		}
	})

	t.Run("stops after a terminal classification with nil error", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddStep(&stubStep{name: "classify", do: func(_ context.Context, ex *model.Extraction) error {
			ex.Fail(model.ErrorKindCaptchaRequired, "blocked")
			return nil
		}})
		ran := false
		p.AddStep(&stubStep{name: "after", do: func(_ context.Context, _ *model.Extraction) error {
			ran = true
			return nil
		}})

		ex := newExtraction()
		if err := p.Execute(context.Background(), ex); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if ran {
			t.Error("step after terminal classification still ran")
		}
		if ex.ErrorKind != model.ErrorKindCaptchaRequired {
			t.Errorf("ErrorKind = %q", ex.ErrorKind)
		}
	})

	t.Run("propagates step errors", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("aborted")
		p := New()
		p.AddStep(&stubStep{name: "boom", do: func(_ context.Context, _ *model.Extraction) error {
			return wantErr
		}})

		if err := p.Execute(context.Background(), newExtraction()); !errors.Is(err, wantErr) {
			t.Errorf("Execute() error = %v, want %v", err, wantErr)
		}
	})

	t.Run("respects context cancellation between steps", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		p := New()
		p.AddStep(&stubStep{name: "canceller", do: func(_ context.Context, _ *model.Extraction) error {
			cancel()
			return nil
		}})
		ran := false
		p.AddStep(&stubStep{name: "after", do: func(_ context.Context, _ *model.Extraction) error {
			ran = true
			return nil
		}})

		if err := p.Execute(ctx, newExtraction()); !errors.Is(err, context.Canceled) {
			t.Errorf("Execute() error = %v, want context.Canceled", err)
		}
		if ran {
			t.Error("step ran after cancellation")
		}
	})
}

// TestPipelineStepNames tests step introspection.
func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddSteps(&stubStep{name: "a"}, &stubStep{name: "b"})
	if p.StepCount() != 2 {
		t.Errorf("StepCount() = %d", p.StepCount())
	}
	names := p.StepNames()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("StepNames() = %v", names)
	}
}
