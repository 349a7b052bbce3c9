package tournamentsoftware

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v5"
	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tournament-sync/internal/domain/competition"
	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
	"github.com/riskibarqy/tournament-sync/internal/platform/resilience"
	"github.com/riskibarqy/tournament-sync/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

const (
	defaultBaseURL       = "https://api.tournamentsoftware.com/v1"
	defaultRetryInterval = 500 * time.Millisecond
	maxResponseBytes     = 6 << 20
	maxListPages         = 50
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Username       string
	Password       string
	Timeout        time.Duration
	MaxRetries     int
	RetryInterval  time.Duration
	Logger         *logging.Logger
	Clock          clockwork.Clock
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads tournaments, their structure and their teams from the
// tournament-management API. It implements usecase.TournamentSource.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	username      string
	password      string
	maxRetries    int
	retryInterval time.Duration
	logger        *logging.Logger
	breaker       *resilience.CircuitBreaker
	flight        singleflight.Group
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	retryInterval := cfg.RetryInterval
	if retryInterval <= 0 {
		retryInterval = defaultRetryInterval
	}
	breakerCfg := cfg.CircuitBreaker
	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
			logger.Warn("tournament source circuit state changed", "from", from, "to", to)
		}
	}

	return &Client{
		httpClient:    httpClient,
		baseURL:       baseURL,
		username:      strings.TrimSpace(cfg.Username),
		password:      cfg.Password,
		maxRetries:    max(cfg.MaxRetries, 0),
		retryInterval: retryInterval,
		logger:        logger,
		breaker:       resilience.NewCircuitBreaker(breakerCfg, cfg.Clock),
	}
}

func (c *Client) FetchTournament(ctx context.Context, code string) (usecase.ExternalTournament, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return usecase.ExternalTournament{}, fmt.Errorf("%w: tournament code is required", usecase.ErrInvalidInput)
	}

	var envelope tournamentEnvelope
	if err := c.doJSON(ctx, "/tournaments/"+url.PathEscape(code), nil, &envelope); err != nil {
		return usecase.ExternalTournament{}, crerr.Wrapf(err, "fetch tournament code=%s", code)
	}

	out, err := mapTournament(envelope.Tournament)
	if err != nil {
		return usecase.ExternalTournament{}, crerr.Wrapf(err, "map tournament code=%s", code)
	}
	if out.Code == "" {
		out.Code = code
	}
	return out, nil
}

func (c *Client) ListTournaments(ctx context.Context, updatedSince time.Time) ([]usecase.ExternalTournament, error) {
	out := make([]usecase.ExternalTournament, 0, 16)
	page := 1
	for range maxListPages {
		query := url.Values{}
		query.Set("page", fmt.Sprintf("%d", page))
		if !updatedSince.IsZero() {
			query.Set("updated_since", updatedSince.UTC().Format(time.RFC3339))
		}

		var envelope tournamentListEnvelope
		if err := c.doJSON(ctx, "/tournaments", query, &envelope); err != nil {
			return nil, crerr.Wrapf(err, "list tournaments page=%d", page)
		}
		for _, item := range envelope.Tournaments {
			mapped, err := mapTournament(item)
			if err != nil {
				c.logger.WarnContext(ctx, "skip tournament with unsupported payload", "code", item.Code, "error", err)
				continue
			}
			out = append(out, mapped)
		}

		if envelope.NextPage == nil || *envelope.NextPage <= page {
			return out, nil
		}
		page = *envelope.NextPage
	}

	c.logger.WarnContext(ctx, "tournament listing truncated", "max_pages", maxListPages)
	return out, nil
}

func (c *Client) FetchCompetitionStructure(ctx context.Context, code, eventCode string) ([]usecase.ExternalSubEvent, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: tournament code is required", usecase.ErrInvalidInput)
	}

	var envelope eventListEnvelope
	if err := c.doJSON(ctx, "/tournaments/"+url.PathEscape(code)+"/events", eventQuery(eventCode), &envelope); err != nil {
		return nil, crerr.Wrapf(err, "fetch structure code=%s event=%s", code, eventCode)
	}

	out := make([]usecase.ExternalSubEvent, 0, len(envelope.Events))
	for _, item := range envelope.Events {
		if strings.TrimSpace(item.Code) == "" {
			continue
		}
		draws := make([]usecase.ExternalDraw, 0, len(item.Draws))
		for _, draw := range item.Draws {
			if strings.TrimSpace(draw.Code) == "" {
				continue
			}
			draws = append(draws, usecase.ExternalDraw{
				Code: strings.TrimSpace(draw.Code),
				Name: strings.TrimSpace(draw.Name),
				Type: strings.TrimSpace(draw.Type),
				Size: draw.Size,
			})
		}
		out = append(out, usecase.ExternalSubEvent{
			Code:   strings.TrimSpace(item.Code),
			Name:   strings.TrimSpace(item.Name),
			Gender: strings.TrimSpace(item.Gender),
			Level:  item.Level,
			Draws:  draws,
		})
	}
	return out, nil
}

func (c *Client) FetchTeams(ctx context.Context, code, eventCode string) ([]usecase.ExternalTeam, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: tournament code is required", usecase.ErrInvalidInput)
	}

	var envelope teamListEnvelope
	if err := c.doJSON(ctx, "/tournaments/"+url.PathEscape(code)+"/teams", eventQuery(eventCode), &envelope); err != nil {
		return nil, crerr.Wrapf(err, "fetch teams code=%s event=%s", code, eventCode)
	}

	out := make([]usecase.ExternalTeam, 0, len(envelope.Teams))
	for _, item := range envelope.Teams {
		if strings.TrimSpace(item.Code) == "" {
			continue
		}
		out = append(out, usecase.ExternalTeam{
			Code:       strings.TrimSpace(item.Code),
			Name:       strings.TrimSpace(item.Name),
			ClubName:   strings.TrimSpace(item.ClubName),
			Gender:     strings.TrimSpace(item.Gender),
			Country:    strings.TrimSpace(item.Country),
			TeamNumber: item.Number,
			Strength:   item.Strength,
			EventCode:  strings.TrimSpace(item.EventCode),
			Season:     item.Season,
		})
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) error {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "tournament source circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: tournament source is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		raw, reqErr := c.fetch(ctx, fullURL)
		c.breaker.Done(reqErr != nil && isCircuitFailure(reqErr))
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode tournament source payload: %w", err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, fullURL string) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval
	policy.MaxInterval = 8 * c.retryInterval

	raw, err := backoff.Retry(ctx, func() ([]byte, error) {
		return c.executeRequest(ctx, fullURL)
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(uint(c.maxRetries+1)))
	if err != nil {
		c.logger.WarnContext(ctx, "tournament source request failed", "url", fullURL, "error", err)
		return nil, err
	}
	return raw, nil
}

// executeRequest returns permanent errors for answers that retrying cannot fix.
func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(crerr.Wrap(err, "send request"))
		}
		return nil, usecase.MarkTransient(crerr.Wrap(err, "send request"))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxResponseBytes)); err != nil {
		return nil, usecase.MarkTransient(crerr.Wrap(err, "read response body"))
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return append([]byte(nil), buf.B...), nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, backoff.Permanent(crerr.Wrapf(usecase.ErrExternalNotFound, "provider status=%d", resp.StatusCode))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, backoff.Permanent(crerr.Wrapf(usecase.ErrUnauthorized, "provider status=%d", resp.StatusCode))
	case isRetryableStatus(resp.StatusCode):
		return nil, usecase.MarkTransient(crerr.Newf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(buf.B)))
	default:
		return nil, backoff.Permanent(crerr.Newf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(buf.B)))
	}
}

func eventQuery(eventCode string) url.Values {
	query := url.Values{}
	if eventCode = strings.TrimSpace(eventCode); eventCode != "" {
		query.Set("event", eventCode)
	}
	return query
}

func mapTournament(item tournamentItem) (usecase.ExternalTournament, error) {
	kind, ok := parseTournamentType(item.Type)
	if !ok {
		return usecase.ExternalTournament{}, crerr.Newf("unsupported tournament type %q", item.Type)
	}
	return usecase.ExternalTournament{
		Code:        strings.TrimSpace(item.Code),
		Name:        strings.TrimSpace(item.Name),
		Kind:        kind,
		Season:      item.Season,
		StartDate:   parseProviderTime(item.StartDate),
		EndDate:     parseProviderTime(item.EndDate),
		LastUpdated: parseProviderTime(item.LastUpdated),
	}, nil
}

// parseTournamentType maps the provider's type onto the local kind. Team
// leagues are competitions, individual events are tournaments.
func parseTournamentType(raw string) (competition.Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "competition", "league", "team":
		return competition.KindCompetition, true
	case "tournament", "individual":
		return competition.KindTournament, true
	default:
		return "", false
	}
}

func parseProviderTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			v := parsed.UTC()
			return &v
		}
	}
	return nil
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, usecase.ErrTransient)
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 256 {
		return body[:256] + "..."
	}
	return body
}
