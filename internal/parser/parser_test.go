package parser

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/IshaanNene/reviewmood/internal/config"
	"github.com/IshaanNene/reviewmood/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const reviewHTML = `<!DOCTYPE html>
<html>
<head><title>Product Reviews</title><style>.t-ZTKy{color:red}</style></head>
<body>
<div class="col _2wzgFH K0kLPL">
    <div class="_3LWZlK"> 5 </div>
    <p class="_2-N8zT"> Wonderful </p>
    <div class="t-ZTKy"><div><div class="">Great phone</div><span>READ MORE</span></div></div>
    <p class="_2sc7ZR"> Alice <span> K </span></p>
</div>
<div class="col _2wzgFH K0kLPL">
    <div class="_3LWZlK">2</div>
    <p class="_2-N8zT">Bad quality</p>
    <div class="t-ZTKy"><div><div>  Stopped working <b>after</b> a week </div></div></div>
    <p class="_2sc7ZR">Bob</p>
</div>
</body>
</html>`

func makeResp(url, body string) *types.Response {
	req, _ := types.NewRequest(url, 1)
	return &types.Response{
		Request:    req,
		StatusCode: 200,
		Body:       []byte(body),
	}
}

func assertFields(t *testing.T, fs types.FieldSet) {
	t.Helper()

	want := types.FieldSet{
		Names:    []string{"AliceK", "Bob"},
		Titles:   []string{"Wonderful", "Bad quality"},
		Ratings:  []string{"5", "2"},
		Comments: []string{"Great phone", "Stopped workingaftera week"},
	}
	check := func(field string, got, want []string) {
		if len(got) != len(want) {
			t.Fatalf("%s: expected %d values, got %d (%q)", field, len(want), len(got), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s[%d]: expected %q, got %q", field, i, want[i], got[i])
			}
		}
	}
	check("names", fs.Names, want.Names)
	check("titles", fs.Titles, want.Titles)
	check("ratings", fs.Ratings, want.Ratings)
	check("comments", fs.Comments, want.Comments)
}

// --- CSS Extractor Tests ---

func TestCSSExtractor(t *testing.T) {
	cfg := config.DefaultConfig()
	e := NewCSSExtractor(cfg.Scrape.CSS, testLogger)

	fs, err := e.Extract(makeResp("https://example.com/r?page=1", reviewHTML))
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	assertFields(t, fs)
}

func TestCSSExtractorSkipsMissingInner(t *testing.T) {
	const page = `<html><body>
<div class="t-ZTKy"><div><div>first</div></div></div>
<div class="t-ZTKy">no nested divs</div>
<div class="t-ZTKy"><div><div>third</div></div></div>
<p class="_2sc7ZR">A</p><p class="_2sc7ZR">B</p><p class="_2sc7ZR">C</p>
</body></html>`

	cfg := config.DefaultConfig()
	e := NewCSSExtractor(cfg.Scrape.CSS, testLogger)

	fs, err := e.Extract(makeResp("https://example.com", page))
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if len(fs.Names) != 3 {
		t.Errorf("expected 3 names, got %d", len(fs.Names))
	}
	if len(fs.Comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(fs.Comments))
	}
	if fs.Comments[0] != "first" || fs.Comments[1] != "third" {
		t.Errorf("unexpected comments %q", fs.Comments)
	}
}

func TestCSSExtractorEmptyPage(t *testing.T) {
	cfg := config.DefaultConfig()
	e := NewCSSExtractor(cfg.Scrape.CSS, testLogger)

	fs, err := e.Extract(makeResp("https://example.com", "<html><body></body></html>"))
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if fs.Total() != 0 {
		t.Errorf("expected no values, got %v", fs.Lens())
	}
}

// --- XPath Extractor Tests ---

func TestXPathExtractor(t *testing.T) {
	cfg := config.DefaultConfig()
	e := NewXPathExtractor(cfg.Scrape.XPath, testLogger)

	fs, err := e.Extract(makeResp("https://example.com/r?page=1", reviewHTML))
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	assertFields(t, fs)
}

func TestXPathExtractorInvalidExpression(t *testing.T) {
	sel := config.DefaultConfig().Scrape.XPath
	sel.Title.Selector = "//p[@class="

	e := NewXPathExtractor(sel, testLogger)
	_, err := e.Extract(makeResp("https://example.com", reviewHTML))
	var pe *types.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Selector != "//p[@class=" {
		t.Errorf("unexpected selector %q", pe.Selector)
	}
}

// --- Registry Tests ---

func TestNew(t *testing.T) {
	sel := config.DefaultConfig().Scrape.CSS
	for _, name := range []string{"", "css", "xpath"} {
		e, err := New(name, sel, testLogger)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if name != "" && e.Name() != name {
			t.Errorf("New(%q) returned %q", name, e.Name())
		}
	}

	if _, err := New("regex", sel, testLogger); !errors.Is(err, types.ErrUnknownExtractor) {
		t.Errorf("expected ErrUnknownExtractor, got %v", err)
	}
}
