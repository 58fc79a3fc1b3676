package normalize

import (
	"strings"
	"testing"
)

// TestPrePass tests code-block link stripping.
func TestPrePass(t *testing.T) {
	t.Parallel()

	t.Run("replaces links in pre blocks with bare addresses", func(t *testing.T) {
		t.Parallel()

		in := `<pre>go get <a href="https://pkg.test/mod">pkg.test/mod</a></pre>`
		out, err := New().PrePass(in)
		if err != nil {
			t.Fatalf("PrePass() error = %v", err)
		}
		if strings.Contains(out, "<a") {
			t.Errorf("link survived pre-pass: %q", out)
		}
		if !strings.Contains(out, "go get https://pkg.test/mod") {
			t.Errorf("href text missing: %q", out)
		}
	})

	t.Run("replaces links in inline code", func(t *testing.T) {
		t.Parallel()

		in := `<p>Run <code><a href="https://cmd.test">the tool</a></code> now.</p>`
		out, err := New().PrePass(in)
		if err != nil {
			t.Fatalf("PrePass() error = %v", err)
		}
		if !strings.Contains(out, "<code>https://cmd.test</code>") {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("leaves ordinary links alone", func(t *testing.T) {
		t.Parallel()

		in := `<p><a href="https://a.test">A</a></p>`
		out, err := New().PrePass(in)
		if err != nil {
			t.Fatalf("PrePass() error = %v", err)
		}
		if !strings.Contains(out, `<a href="https://a.test">A</a>`) {
			t.Errorf("ordinary link was altered: %q", out)
		}
	})
}

// TestConvert tests the structural conversion essentials.
func TestConvert(t *testing.T) {
	t.Parallel()

	in := `<h2>Ergebnis</h2><p>Ein <strong>wichtiger</strong> Satz.</p><ul><li>eins</li><li>zwei</li></ul>`
	out, err := New().Convert(in)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(out, "## Ergebnis") {
		t.Errorf("heading prefix missing: %q", out)
	}
	if !strings.Contains(out, "**wichtiger**") {
		t.Errorf("emphasis missing: %q", out)
	}
	if !strings.Contains(out, "eins") || !strings.Contains(out, "zwei") {
		t.Errorf("list items missing: %q", out)
	}
}

// TestPostPass tests the ordered text cleanups.
func TestPostPass(t *testing.T) {
	t.Parallel()

	n := New()

	t.Run("strips highlight markers", func(t *testing.T) {
		t.Parallel()

		if got := n.PostPass("ein ==wichtiges== Wort"); got != "ein wichtiges Wort" {
			t.Errorf("PostPass() = %q", got)
		}
	})

	t.Run("removes inline-data images", func(t *testing.T) {
		t.Parallel()

		in := "vorher ![icon](data:image/png;base64,AAAA) nachher"
		if got := n.PostPass(in); got != "vorher  nachher" {
			t.Errorf("PostPass() = %q", got)
		}
	})

	t.Run("removes empty links", func(t *testing.T) {
		t.Parallel()

		in := "text [](https://chrome.test/ui) mehr"
		if got := n.PostPass(in); got != "text  mehr" {
			t.Errorf("PostPass() = %q", got)
		}
	})

	t.Run("truncates at disclaimer with nothing trailing", func(t *testing.T) {
		t.Parallel()

		in := "Nutzbarer Inhalt.\n\nAI-generated answers may contain mistakes\n\nFeedback geben\nMehr anzeigen"
		got := n.PostPass(in)
		if strings.Contains(got, "AI-generated answers may contain mistakes") {
			t.Errorf("disclaimer survived: %q", got)
		}
		if strings.Contains(got, "Feedback") || strings.Contains(got, "Mehr anzeigen") {
			t.Errorf("trailing chrome survived: %q", got)
		}
		if got != "Nutzbarer Inhalt." {
			t.Errorf("PostPass() = %q", got)
		}
	})

	t.Run("truncates at German disclaimer", func(t *testing.T) {
		t.Parallel()

		in := "Inhalt\n\nKI-Antworten können Fehler enthalten\nchrome"
		if got := n.PostPass(in); got != "Inhalt" {
			t.Errorf("PostPass() = %q", got)
		}
	})

	t.Run("rejoins line broken before bold opener", func(t *testing.T) {
		t.Parallel()

		in := "Der Mietspiegel\n**2026** gilt ab Januar."
		if got := n.PostPass(in); got != "Der Mietspiegel **2026** gilt ab Januar." {
			t.Errorf("PostPass() = %q", got)
		}
	})

	t.Run("rejoins line broken before lowercase letter", func(t *testing.T) {
		t.Parallel()

		in := "Die Miete steigt\nüberall deutlich."
		if got := n.PostPass(in); got != "Die Miete steigt überall deutlich." {
			t.Errorf("PostPass() = %q", got)
		}
	})

	t.Run("rejoins chains of soft breaks in one pass", func(t *testing.T) {
		t.Parallel()

		in := "die Miete\nsteigt\nweiter\ndeutlich"
		if got := n.PostPass(in); got != "die Miete steigt weiter deutlich" {
			t.Errorf("PostPass() = %q", got)
		}
	})

	t.Run("keeps breaks after sentence-ending punctuation", func(t *testing.T) {
		t.Parallel()

		in := "Erster Satz.\nzweiter Teil"
		if got := n.PostPass(in); got != in {
			t.Errorf("PostPass() = %q, want unchanged", got)
		}
	})

	t.Run("removes lone-period lines and collapses blanks", func(t *testing.T) {
		t.Parallel()

		in := "Absatz eins\n\n\n\n.\n\n\nAbsatz zwei"
		got := n.PostPass(in)
		if strings.Contains(got, ".") {
			t.Errorf("lone period survived: %q", got)
		}
		if strings.Contains(got, "\n\n\n") {
			t.Errorf("blank run survived: %q", got)
		}
	})

	t.Run("idempotent on normalized text", func(t *testing.T) {
		t.Parallel()

		inputs := []string{
			"## Titel\n\nEin ==Satz== mit\n**Fortsetzung** und [](https://x.test)\n\n\n\nEnde.\n\nAI-generated answers may contain mistakes\nRest",
			"die Miete\nsteigt\nweiter",
			"Wert\n**eins**\n**zwei**\n**drei**",
		}
		for _, in := range inputs {
			once := n.PostPass(in)
			twice := n.PostPass(once)
			if once != twice {
				t.Errorf("not idempotent for %q:\nonce:  %q\ntwice: %q", in, once, twice)
			}
		}
	})
}

// TestRun tests the composed pipeline on a small answer fixture.
func TestRun(t *testing.T) {
	t.Parallel()

	in := `<h2>Mietspiegel</h2>` +
		`<p>Die Werte steigen <strong>deutlich</strong>. [CITE-0]</p>` +
		`<pre><a href="https://code.test/x">https://code.test/x</a></pre>` +
		`<p>KI-Antworten können Fehler enthalten</p>` +
		`<p>Feedback</p>`

	out, err := New().Run(in)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out, "## Mietspiegel") {
		t.Errorf("heading missing: %q", out)
	}
	// The converter may escape the bracket literals; the embedder
	// handles both spellings. Only the marker body must survive.
	if !strings.Contains(out, "CITE-0") {
		t.Errorf("citation marker lost: %q", out)
	}
	if strings.Contains(out, "Feedback") {
		t.Errorf("post-disclaimer chrome survived: %q", out)
	}
	if strings.Contains(out, "](https://code.test") {
		t.Errorf("code link not stripped: %q", out)
	}
}
