package pipeline

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/IshaanNene/reviewmood/internal/types"
)

// Middleware processes a review and returns the (possibly modified) review.
// Return nil to drop the review from the pipeline.
type Middleware interface {
	// Name returns the middleware's identifier.
	Name() string

	// Process transforms a review. Return nil to drop it.
	Process(r *types.Review) (*types.Review, error)
}

// Pipeline chains middleware processors together.
type Pipeline struct {
	middlewares []Middleware
	logger      *slog.Logger
}

// New creates a new Pipeline.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// FromNames builds a pipeline from middleware names in order.
func FromNames(names []string, logger *slog.Logger) (*Pipeline, error) {
	p := New(logger)
	for _, name := range names {
		mw, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		p.Use(mw)
	}
	return p, nil
}

// Lookup returns a fresh instance of the named built-in middleware.
func Lookup(name string) (Middleware, error) {
	switch name {
	case "trim":
		return &TrimMiddleware{}, nil
	case "whitespace":
		return &WhitespaceMiddleware{}, nil
	case "rating":
		return NewRatingNormalizeMiddleware(), nil
	case "require_body":
		return &RequiredFieldsMiddleware{Body: true}, nil
	case "dedup":
		return NewDedupMiddleware(), nil
	default:
		return nil, fmt.Errorf("unknown middleware %q", name)
	}
}

// Use adds a middleware to the pipeline chain.
func (p *Pipeline) Use(mw Middleware) {
	p.middlewares = append(p.middlewares, mw)
	p.logger.Debug("middleware added", "name", mw.Name(), "position", len(p.middlewares))
}

// Process runs the review through all middleware in order.
func (p *Pipeline) Process(r *types.Review) (*types.Review, error) {
	current := r

	for _, mw := range p.middlewares {
		result, err := mw.Process(current)
		if err != nil {
			return nil, &types.PipelineError{Stage: mw.Name(), Err: err}
		}
		if result == nil {
			p.logger.Debug("review dropped", "stage", mw.Name(), "author", r.Author)
			return nil, nil
		}
		current = result
	}

	return current, nil
}

// ProcessAll runs every review through the chain and returns the survivors
// in input order along with the number dropped.
func (p *Pipeline) ProcessAll(reviews []types.Review) ([]types.Review, int, error) {
	out := make([]types.Review, 0, len(reviews))
	for i := range reviews {
		r := reviews[i]
		res, err := p.Process(&r)
		if err != nil {
			return nil, 0, err
		}
		if res != nil {
			out = append(out, *res)
		}
	}
	return out, len(reviews) - len(out), nil
}

// Len returns the number of middleware in the chain.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}

// --- Built-in Middleware ---

// TrimMiddleware trims whitespace from all four fields.
type TrimMiddleware struct{}

func (m *TrimMiddleware) Name() string { return "trim" }

func (m *TrimMiddleware) Process(r *types.Review) (*types.Review, error) {
	r.Author = strings.TrimSpace(r.Author)
	r.Title = strings.TrimSpace(r.Title)
	r.Rating = strings.TrimSpace(r.Rating)
	r.Body = strings.TrimSpace(r.Body)
	return r, nil
}

// RequiredFieldsMiddleware drops reviews whose selected fields are empty.
type RequiredFieldsMiddleware struct {
	Author bool
	Body   bool
}

func (m *RequiredFieldsMiddleware) Name() string { return "required_fields" }

func (m *RequiredFieldsMiddleware) Process(r *types.Review) (*types.Review, error) {
	if m.Author && r.Author == "" {
		return nil, nil
	}
	if m.Body && r.Body == "" {
		return nil, nil
	}
	return r, nil
}

// DedupMiddleware drops reviews already seen with the same author and body.
type DedupMiddleware struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewDedupMiddleware() *DedupMiddleware {
	return &DedupMiddleware{seen: make(map[string]struct{})}
}

func (m *DedupMiddleware) Name() string { return "dedup" }

func (m *DedupMiddleware) Process(r *types.Review) (*types.Review, error) {
	key := r.Author + "\x00" + r.Body

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.seen[key]; exists {
		return nil, nil
	}
	m.seen[key] = struct{}{}
	return r, nil
}
