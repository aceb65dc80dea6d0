package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/nocomps/internal/domain"
	"golang.org/x/time/rate"
)

// BatchSize is the number of ids sent per request. AniList pages hold at most 50 media.
const BatchSize = 50

const mediaQuery = `query Media($idIn: [Int], $perPage: Int) {
  Page(perPage: $perPage) {
    media(id_in: $idIn, type: ANIME) {
      id
      siteUrl
      title {
        romaji
        english
      }
      startDate {
        year
      }
      averageScore
      popularity
    }
  }
}`

type Service interface {
	domain.MediaLookup
}

type service struct {
	log      zerolog.Logger
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// MediaResponse is the GraphQL payload of mediaQuery.
type MediaResponse struct {
	Data struct {
		Page struct {
			Media []Media `json:"media"`
		} `json:"Page"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"errors"`
}

type Media struct {
	ID      int    `json:"id"`
	SiteURL string `json:"siteUrl"`
	Title   struct {
		Romaji  *string `json:"romaji"`
		English *string `json:"english"`
	} `json:"title"`
	StartDate struct {
		Year *int `json:"year"`
	} `json:"startDate"`
	AverageScore *int `json:"averageScore"`
	Popularity   *int `json:"popularity"`
}

// NewService creates an AniList client. Requests are spaced by at least
// interval; zero disables pacing.
func NewService(log zerolog.Logger, endpoint string, interval, timeout time.Duration) Service {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	return &service{
		log:      log.With().Str("module", "anilist").Logger(),
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Lookup resolves ids in batches of BatchSize. Ids AniList does not know are
// absent from the result.
func (s *service) Lookup(ctx context.Context, ids []int) (map[int]domain.MediaInfo, int, error) {
	result := make(map[int]domain.MediaInfo, len(ids))
	batches := Batch(ids, BatchSize)

	for i, batch := range batches {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, i, errors.Wrap(err, "rate limiter")
		}

		media, err := s.fetch(ctx, batch)
		if err != nil {
			return nil, i + 1, errors.Wrapf(err, "failed to fetch batch %d/%d", i+1, len(batches))
		}

		for _, m := range media {
			result[m.ID] = m.toInfo()
		}

		s.log.Debug().
			Int("batch", i+1).
			Int("batches", len(batches)).
			Int("requested", len(batch)).
			Int("received", len(media)).
			Msg("Fetched media batch")
	}

	return result, len(batches), nil
}

func (s *service) fetch(ctx context.Context, ids []int) ([]Media, error) {
	payload, err := json.Marshal(graphQLRequest{
		Query: mediaQuery,
		Variables: map[string]any{
			"idIn":    ids,
			"perPage": BatchSize,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.HTTPStatusError{URL: s.endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	mr := &MediaResponse{}
	if err := json.Unmarshal(body, mr); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal response")
	}

	if len(mr.Errors) > 0 {
		msgs := make([]string, 0, len(mr.Errors))
		for _, e := range mr.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("graphql error: %s", strings.Join(msgs, "; "))
	}

	return mr.Data.Page.Media, nil
}

// Close drops idle connections of the underlying client.
func (s *service) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (m Media) toInfo() domain.MediaInfo {
	siteURL := m.SiteURL
	if siteURL == "" {
		siteURL = fmt.Sprintf("https://anilist.co/anime/%d", m.ID)
	}

	return domain.MediaInfo{
		ID:         m.ID,
		Title:      m.title(),
		Year:       m.StartDate.Year,
		Score:      m.AverageScore,
		Popularity: m.Popularity,
		SiteURL:    siteURL,
	}
}

// title prefers the english title and falls back to romaji.
func (m Media) title() string {
	if m.Title.English != nil && *m.Title.English != "" {
		return *m.Title.English
	}
	if m.Title.Romaji != nil {
		return *m.Title.Romaji
	}
	return ""
}

// Batch splits ids into consecutive groups of at most size ids.
func Batch(ids []int, size int) [][]int {
	if size <= 0 {
		size = BatchSize
	}

	batches := make([][]int, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, ids[start:end:end])
	}
	return batches
}
