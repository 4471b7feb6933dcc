package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/IshaanNene/reviewmood/internal/config"
	"github.com/IshaanNene/reviewmood/internal/fetcher"
	"github.com/IshaanNene/reviewmood/internal/observability"
	"github.com/IshaanNene/reviewmood/internal/parser"
	"github.com/IshaanNene/reviewmood/internal/pipeline"
	"github.com/IshaanNene/reviewmood/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// reviewPage renders one page with n complete reviews tagged by page number.
func reviewPage(page, n int) string {
	body := "<html><body>"
	for i := 1; i <= n; i++ {
		body += fmt.Sprintf(`<div class="col _2wzgFH K0kLPL">
<div>%d</div>
<p class="_2-N8zT">title %d-%d</p>
<div class="t-ZTKy"><div><div>comment %d-%d</div></div></div>
<p class="_2sc7ZR">user %d-%d</p>
</div>`, i, page, i, page, i, page, i)
	}
	return body + "</body></html>"
}

type recordingServer struct {
	mu       sync.Mutex
	pages    []string
	agents   []string
	langs    []string
	failPage string
}

func (rs *recordingServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page := r.URL.Query().Get("page")

	rs.mu.Lock()
	rs.pages = append(rs.pages, page)
	rs.agents = append(rs.agents, r.Header.Get("User-Agent"))
	rs.langs = append(rs.langs, r.Header.Get("Accept-Language"))
	rs.mu.Unlock()

	if page == rs.failPage {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	var n int
	fmt.Sscanf(page, "%d", &n)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, reviewPage(n, 2))
}

func newTestDriver(t *testing.T, opts ...Option) *Driver {
	t.Helper()
	cfg := config.DefaultConfig()
	f, err := fetcher.NewHTTPFetcher(&cfg.Fetcher, testLogger)
	if err != nil {
		t.Fatalf("fetcher: %v", err)
	}
	d := NewDriver(f, parser.NewCSSExtractor(cfg.Scrape.CSS, testLogger), testLogger, opts...)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// --- Driver Tests ---

func TestDriverFetchesPagesInOrder(t *testing.T) {
	rs := &recordingServer{}
	srv := httptest.NewServer(rs)
	defer srv.Close()

	d := newTestDriver(t)
	reviews, stats, err := d.Scrape(context.Background(), srv.URL+"/reviews?pid=X&page={}", 4)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}

	want := []string{"1", "2", "3", "4"}
	if len(rs.pages) != len(want) {
		t.Fatalf("expected %d requests, got %v", len(want), rs.pages)
	}
	for i := range want {
		if rs.pages[i] != want[i] {
			t.Errorf("request %d: expected page %s, got %s", i, want[i], rs.pages[i])
		}
		if rs.langs[i] != "en-us,en;q=0.5" {
			t.Errorf("request %d: unexpected Accept-Language %q", i, rs.langs[i])
		}
		if rs.agents[i] != rs.agents[0] || rs.agents[i] == "" {
			t.Errorf("request %d: expected fixed User-Agent, got %q", i, rs.agents[i])
		}
	}

	if len(reviews) != 8 {
		t.Fatalf("expected 8 reviews, got %d", len(reviews))
	}
	if reviews[0].Author != "user 1-1" || reviews[7].Body != "comment 4-2" {
		t.Errorf("unexpected review order: first %+v last %+v", reviews[0], reviews[7])
	}
	if stats.Pages != 4 || stats.Dropped != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestDriverAppendsPageQuery(t *testing.T) {
	rs := &recordingServer{}
	srv := httptest.NewServer(rs)
	defer srv.Close()

	d := newTestDriver(t)
	if _, _, err := d.Scrape(context.Background(), srv.URL+"/reviews?pid=X", 2); err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if len(rs.pages) != 2 || rs.pages[0] != "1" || rs.pages[1] != "2" {
		t.Errorf("expected pages [1 2], got %v", rs.pages)
	}
}

func TestDriverAbortsOnFailedPage(t *testing.T) {
	rs := &recordingServer{failPage: "3"}
	srv := httptest.NewServer(rs)
	defer srv.Close()

	m := observability.NewMetrics()
	d := newTestDriver(t, WithMetrics(m))
	reviews, _, err := d.Scrape(context.Background(), srv.URL+"/r?page={}", 43)
	if err == nil {
		t.Fatal("expected error")
	}
	if reviews != nil {
		t.Errorf("expected no partial reviews, got %d", len(reviews))
	}

	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %T: %v", err, err)
	}
	if fe.Page != 3 || fe.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("unexpected error details: page %d status %d", fe.Page, fe.StatusCode)
	}
	if len(rs.pages) != 3 {
		t.Errorf("expected scrape to stop after page 3, got %d requests", len(rs.pages))
	}
	if m.PagesFetched.Load() != 2 || m.PagesFailed.Load() != 1 {
		t.Errorf("unexpected metrics %v", m.Snapshot())
	}
}

func TestDriverRejectsBadTemplate(t *testing.T) {
	d := newTestDriver(t)
	_, _, err := d.Scrape(context.Background(), "not a url {}", 1)
	if !errors.Is(err, types.ErrInvalidTemplate) {
		t.Errorf("expected ErrInvalidTemplate, got %v", err)
	}
}

func TestDriverCancelledContext(t *testing.T) {
	rs := &recordingServer{}
	srv := httptest.NewServer(rs)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := newTestDriver(t)
	if _, _, err := d.Scrape(ctx, srv.URL+"/r?page={}", 3); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(rs.pages) != 0 {
		t.Errorf("expected no requests, got %d", len(rs.pages))
	}
}

func TestDriverReconcilesUnderMatchedPage(t *testing.T) {
	const page = `<html><body>
<p class="_2sc7ZR">a</p><p class="_2sc7ZR">b</p><p class="_2sc7ZR">c</p>
<p class="_2-N8zT">t1</p><p class="_2-N8zT">t2</p><p class="_2-N8zT">t3</p>
<div class="col _2wzgFH K0kLPL"><div>5</div></div>
<div class="col _2wzgFH K0kLPL"><div>4</div></div>
<div class="t-ZTKy"><div><div>x</div></div></div>
<div class="t-ZTKy"><div><div>y</div></div></div>
<div class="t-ZTKy"><div><div>z</div></div></div>
</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, page)
	}))
	defer srv.Close()

	m := observability.NewMetrics()
	d := newTestDriver(t, WithMetrics(m))
	reviews, stats, err := d.Scrape(context.Background(), srv.URL+"/?page={}", 1)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviews))
	}
	if stats.Dropped != 3 {
		t.Errorf("expected 3 dropped values, got %d", stats.Dropped)
	}
	if m.RowsDropped.Load() != 3 {
		t.Errorf("expected rows_dropped 3, got %d", m.RowsDropped.Load())
	}
}

func TestDriverRunsPipeline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, reviewPage(1, 3))
	}))
	defer srv.Close()

	p, err := pipeline.FromNames([]string{"trim", "dedup"}, testLogger)
	if err != nil {
		t.Fatal(err)
	}
	d := newTestDriver(t, WithPipeline(p))

	// Every page serves the same reviews, so dedup keeps only the first page.
	reviews, stats, err := d.Scrape(context.Background(), srv.URL+"/?page={}", 2)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if len(reviews) != 3 || stats.Filtered != 3 {
		t.Errorf("expected 3 kept and 3 filtered, got %d and %d", len(reviews), stats.Filtered)
	}
}

// --- PageURL Tests ---

func TestPageURL(t *testing.T) {
	tests := []struct {
		tmpl string
		page int
		want string
	}{
		{"https://x.example/r?pid=1&page={}", 7, "https://x.example/r?pid=1&page=7"},
		{"https://x.example/r?pid=1", 2, "https://x.example/r?pid=1&page=2"},
		{"https://x.example/r", 3, "https://x.example/r?page=3"},
	}
	for _, tt := range tests {
		if got := PageURL(tt.tmpl, tt.page); got != tt.want {
			t.Errorf("PageURL(%q, %d) = %q, want %q", tt.tmpl, tt.page, got, tt.want)
		}
	}
}

// --- Reconcile Tests ---

func seq(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}

func TestReconcileMinAndPrefix(t *testing.T) {
	cases := [][4]int{
		{3, 3, 3, 3},
		{5, 3, 4, 5},
		{0, 2, 2, 2},
		{10, 10, 10, 1},
		{0, 0, 0, 0},
	}

	for _, c := range cases {
		t.Run(fmt.Sprint(c), func(t *testing.T) {
			in := types.FieldSet{
				Names:    seq("n", c[0]),
				Titles:   seq("t", c[1]),
				Ratings:  seq("r", c[2]),
				Comments: seq("c", c[3]),
			}
			m := min(c[0], c[1], c[2], c[3])

			out, dropped := Reconcile(in)
			for i, l := range out.Lens() {
				if l != m {
					t.Errorf("list %d: expected length %d, got %d", i, m, l)
				}
			}
			if want := c[0] + c[1] + c[2] + c[3] - 4*m; dropped != want {
				t.Errorf("expected %d dropped, got %d", want, dropped)
			}

			pairs := [][2][]string{
				{out.Names, in.Names}, {out.Titles, in.Titles},
				{out.Ratings, in.Ratings}, {out.Comments, in.Comments},
			}
			for _, p := range pairs {
				for i := range p[0] {
					if p[0][i] != p[1][i] {
						t.Errorf("output is not a prefix of input at %d", i)
					}
				}
			}
		})
	}
}

func TestReconcileDoesNotAliasAppends(t *testing.T) {
	in := types.FieldSet{
		Names:    []string{"a", "b"},
		Titles:   []string{"t"},
		Ratings:  []string{"r"},
		Comments: []string{"c"},
	}
	out, _ := Reconcile(in)
	out.Names = append(out.Names, "z")
	if in.Names[1] != "b" {
		t.Errorf("append through reconciled slice overwrote input: %q", in.Names)
	}
}
