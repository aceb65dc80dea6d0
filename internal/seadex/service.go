package seadex

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/nocomps/internal/domain"
)

// PageSize is the number of records requested per catalog page.
const PageSize = 500

const userAgent = "nocomps (+https://github.com/varoOP/nocomps)"

type Service interface {
	domain.CatalogSource
}

type service struct {
	log       zerolog.Logger
	baseURL   string
	timeout   time.Duration
	collector *colly.Collector
}

// ctxTransport binds outgoing requests to the caller's context, which colly
// does not carry on its own.
type ctxTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t ctxTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

// RecordsPage is a page of the PocketBase entries collection.
type RecordsPage struct {
	Page       int      `json:"page"`
	PerPage    int      `json:"perPage"`
	TotalItems int      `json:"totalItems"`
	TotalPages int      `json:"totalPages"`
	Items      []Record `json:"items"`
}

type Record struct {
	ID         string `json:"id"`
	AlID       int    `json:"alID"`
	Comparison string `json:"comparison"`
	Incomplete bool   `json:"incomplete"`
	Notes      string `json:"notes"`
	Updated    string `json:"updated"`
}

func NewService(log zerolog.Logger, baseURL string, timeout time.Duration) Service {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(timeout)

	return &service{
		log:       log.With().Str("module", "seadex").Logger(),
		baseURL:   strings.TrimRight(baseURL, "/"),
		timeout:   timeout,
		collector: c,
	}
}

// Entries walks the catalog page by page. Each page is fetched only when the
// consumer has drained the previous one.
func (s *service) Entries(ctx context.Context) iter.Seq2[domain.CatalogEntry, error] {
	consumed := false

	return func(yield func(domain.CatalogEntry, error) bool) {
		if consumed {
			yield(domain.CatalogEntry{}, errors.New("catalog sequence already consumed"))
			return
		}
		consumed = true

		for page := 1; ; page++ {
			if err := ctx.Err(); err != nil {
				yield(domain.CatalogEntry{}, err)
				return
			}

			p, err := s.fetchPage(ctx, page)
			if err != nil {
				yield(domain.CatalogEntry{}, errors.Wrapf(err, "failed to fetch catalog page %d", page))
				return
			}

			s.log.Debug().
				Int("page", page).
				Int("total_pages", p.TotalPages).
				Int("items", len(p.Items)).
				Msg("Fetched catalog page")

			for _, rec := range p.Items {
				if !yield(s.toEntry(rec), nil) {
					return
				}
			}

			if len(p.Items) == 0 || page >= p.TotalPages {
				return
			}
		}
	}
}

func (s *service) fetchPage(ctx context.Context, page int) (*RecordsPage, error) {
	target := s.pageURL(page)

	// The request context replaces the one http.Client derives from its
	// timeout, so the deadline is applied here as well.
	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	c := s.collector.Clone()
	c.WithTransport(ctxTransport{ctx: reqCtx, base: http.DefaultTransport})

	var (
		result    *RecordsPage
		decodeErr error
		statusErr error
	)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "application/json")
		s.log.Trace().Str("url", r.URL.String()).Msg("visiting")
	})

	c.OnResponse(func(r *colly.Response) {
		p := &RecordsPage{}
		if err := json.Unmarshal(r.Body, p); err != nil {
			decodeErr = errors.Wrap(err, "failed to unmarshal response")
			return
		}
		result = p
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			statusErr = &domain.HTTPStatusError{URL: target, StatusCode: r.StatusCode}
		}
	})

	err := c.Visit(target)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		if statusErr != nil {
			return nil, statusErr
		}
		return nil, errors.Wrap(err, "failed to fetch")
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	if result == nil {
		return nil, fmt.Errorf("empty response from %s", target)
	}

	return result, nil
}

func (s *service) pageURL(page int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("perPage", strconv.Itoa(PageSize))
	return s.baseURL + "/api/collections/entries/records?" + q.Encode()
}

func (s *service) toEntry(rec Record) domain.CatalogEntry {
	return domain.CatalogEntry{
		ID:          rec.AlID,
		Comparisons: ParseComparisons(rec.Comparison),
		URL:         fmt.Sprintf("%s/%d/", s.baseURL, rec.AlID),
	}
}

// Close waits for requests still owned by the collector.
func (s *service) Close() error {
	s.collector.Wait()
	return nil
}

// ParseComparisons splits the comma separated comparison field.
func ParseComparisons(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
