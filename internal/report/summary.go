package report

import (
	"io"
	"strconv"

	"github.com/nao1215/aisearch/internal/model"
	"github.com/nao1215/markdown"
)

// SummaryWriter renders the post-run summary shown in the terminal.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and alerts
// 3. Output that renders both in a terminal and on GitHub
type SummaryWriter struct {
	output io.Writer
}

// NewSummaryWriter creates a SummaryWriter that outputs to the given writer.
func NewSummaryWriter(output io.Writer) *SummaryWriter {
	return &SummaryWriter{output: output}
}

// Write renders the summary for one extraction result.
func (w *SummaryWriter) Write(result *model.ExtractionResult) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Extraction Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Query", "`" + result.Query + "`"},
			{"Status", statusText(result)},
			{"Sources", strconv.Itoa(len(result.Sources))},
		},
	})
	md.PlainText("")

	w.writeAlert(md, result)

	if len(result.Sources) > 0 {
		w.writeSources(md, result.Sources)
	}

	return md.Build()
}

// statusText returns the one-cell status for the header table.
func statusText(result *model.ExtractionResult) string {
	if result.Success {
		return "✅ Complete"
	}
	return "❌ " + string(result.Error)
}

// writeAlert writes an outcome alert matching the failure taxonomy.
func (w *SummaryWriter) writeAlert(md *markdown.Markdown, result *model.ExtractionResult) {
	switch result.Error {
	case model.ErrorKindNone:
		if len(result.Sources) == 0 {
			md.Note("The answer carried no citation sources.")
		} else {
			md.Tipf("Answer extracted with %d cited source(s).", len(result.Sources))
		}
	case model.ErrorKindCaptchaRequired:
		md.Warning("The provider served a block page. Retry with --show-browser and solve the challenge by hand.")
	case model.ErrorKindBrowserClosed:
		md.Warning("The browser was closed before the run finished.")
	case model.ErrorKindContentMissing:
		md.Note("This query was answered with a plain result list; there is no generated answer to extract.")
	default:
		md.Cautionf("Extraction failed: %s", result.Message)
	}
	md.PlainText("")
}

// writeSources writes the source table with one row per footnote, plus a
// per-publisher rollup by registrable domain.
func (w *SummaryWriter) writeSources(md *markdown.Markdown, sources []model.SourceRef) {
	md.H2("Sources")
	md.PlainText("")

	rows := make([][]string, len(sources))
	domainCounts := make(map[string]int)
	domainOrder := make([]string, 0)
	for i, source := range sources {
		title := source.Title
		if title == "" {
			title = "Link"
		}
		domain := source.RegistrableDomain()
		if _, seen := domainCounts[domain]; !seen {
			domainOrder = append(domainOrder, domain)
		}
		domainCounts[domain]++
		rows[i] = []string{
			"[" + strconv.Itoa(i+1) + "]",
			title,
			domain,
			source.URL,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Ref", "Title", "Publisher", "URL"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(domainOrder) > 1 {
		md.H2("Publishers")
		md.PlainText("")
		publisherRows := make([][]string, 0, len(domainOrder))
		for _, domain := range domainOrder {
			publisherRows = append(publisherRows, []string{domain, strconv.Itoa(domainCounts[domain])})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Domain", "Citations"},
			Rows:   publisherRows,
		})
		md.PlainText("")
	}
}
