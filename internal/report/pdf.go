package report

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer produces a PDF document from a report bundle. It sits behind an
// interface so handlers and tests can run without a Chromium binary.
type Renderer interface {
	Render(ctx context.Context, rep *Report) ([]byte, error)
}

// ChromiumRenderer renders the report through headless Chromium's print
// pipeline: markdown to HTML via goldmark, then page.PrintToPDF on A4.
type ChromiumRenderer struct {
	chromePath string
	timeout    time.Duration
}

// NewChromiumRenderer creates a renderer. An empty chromePath autodetects a
// system Chromium/Chrome binary.
func NewChromiumRenderer(chromePath string, timeout time.Duration) *ChromiumRenderer {
	if chromePath == "" {
		chromePath = detectChromePath()
	}
	return &ChromiumRenderer{chromePath: chromePath, timeout: timeout}
}

func (r *ChromiumRenderer) Render(ctx context.Context, rep *Report) ([]byte, error) {
	htmlDoc, err := BuildHTML(rep)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			footer := `<div style="width:100%;text-align:center;font-size:9px;color:#666;">` +
				`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
			out, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(`<div></div>`).
				WithFooterTemplate(footer).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.5).
				WithMarginBottom(0.75).
				WithMarginLeft(0.45).
				WithMarginRight(0.45).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	); err != nil {
		return nil, fmt.Errorf("printing report: %w", err)
	}
	return pdf, nil
}

// BuildHTML converts the report markdown to a standalone HTML document with
// the print stylesheet inlined. Exposed so tests can exercise the layout
// without Chromium.
func BuildHTML(rep *Report) (string, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(rep.Markdown()), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	contentHTML := applyPrintLayoutHooks(content.String())

	return "<!doctype html><html><head><meta charset='utf-8'><title>Maturity Assessment Results</title>" +
		"<style>" + reportCSS + "</style></head><body>" +
		"<div class='report'>" + contentHTML + "</div>" +
		"</body></html>", nil
}

// applyPrintLayoutHooks starts each section page on a fresh sheet by tagging
// the "Part:" headings the markdown builder emits.
func applyPrintLayoutHooks(contentHTML string) string {
	rePart := regexp.MustCompile(`(?i)<h2([^>]*)>\s*Part:\s*([^<]*)</h2>`)
	return rePart.ReplaceAllString(contentHTML, `<h2$1 data-page-break-before="true">$2</h2>`)
}

const reportCSS = `
html,body,*{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;}
body{font-family:Helvetica,Arial,sans-serif;font-size:11pt;line-height:1.45;color:#111;background:#fff;}
.report{max-width:1000px;margin:0 auto;}
h1{color:#592C89;font-size:24pt;margin-bottom:0.4rem;}
h2{font-size:14pt;margin-top:1.1rem;}
h3{font-size:12pt;margin-top:0.9rem;}
img{max-width:60%;display:block;margin:0.5rem 0;}
table{width:100%;border-collapse:collapse;border:1px solid #a8a29e;font-size:0.8rem;}
th,td{border:1px solid #a8a29e;padding:0.35rem 0.45rem;text-align:left;vertical-align:top;}
thead th{background:#f1f5f9;font-weight:700;}
h2[data-page-break-before="true"]{break-before:page;page-break-before:always;color:#592C89;}
@media print{ @page{size:A4 portrait;margin:12mm;} }
`

func detectChromePath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
