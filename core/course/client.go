package course

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/tidwall/gjson"

	"github.com/dmitrymomot/chaoxing/core/logger"
	"github.com/dmitrymomot/chaoxing/pkg/enc"
)

// maxBody caps response bodies read into memory.
const maxBody = 8 << 20

// Client talks to the course site on behalf of an authenticated session.
// It is not safe for concurrent use; requests are meant to be issued one after another.
type Client struct {
	http   *http.Client
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// NewClient wraps an authenticated HTTP client, typically session.Session.Client().
func NewClient(hc *http.Client, opts ...Option) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	c := &Client{
		http:   hc,
		cfg:    defaultConfig(),
		logger: logger.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cfg.BaseURL = strings.TrimSuffix(c.cfg.BaseURL, "/")
	return c
}

// FetchArgs loads the knowledge card page for one page number and parses its arguments.
func (c *Client) FetchArgs(ctx context.Context, chapterID, clazzID, courseID string, page int) (*Args, error) {
	if chapterID == "" || clazzID == "" || courseID == "" {
		return nil, fmt.Errorf("%w: chapter, clazz and course ids are required", ErrInvalidArgument)
	}

	q := url.Values{
		"clazzid":     {clazzID},
		"courseid":    {courseID},
		"knowledgeid": {chapterID},
		"num":         {strconv.Itoa(page)},
	}
	body, err := c.getWithRetry(ctx, c.cfg.BaseURL+"/knowledge/cards?"+q.Encode())
	if err != nil {
		return nil, err
	}

	args, err := ParseArgs(string(body))
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "course arguments parsed",
		logger.Page(page),
		logger.Count("attachments", len(args.Attachments)),
		slog.String("user_id", args.UserID),
		slog.String("cpi", args.CPI),
	)
	return args, nil
}

// CountPages posts to the study progress endpoint and counts the page marker in its body.
func (c *Client) CountPages(ctx context.Context, chapterID, clazzID, courseID string) (int, error) {
	if chapterID == "" || clazzID == "" || courseID == "" {
		return 0, fmt.Errorf("%w: chapter, clazz and course ids are required", ErrInvalidArgument)
	}

	form := url.Values{
		"courseId":  {courseID},
		"clazzid":   {clazzID},
		"chapterId": {chapterID},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/mycourse/studentstudyAjax", strings.NewReader(form.Encode()))
	if err != nil {
		return 0, errors.Join(ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")

	body, err := c.do(req)
	if err != nil {
		return 0, err
	}

	n := CountMarker(string(body), c.cfg.PageMarker)
	c.logger.DebugContext(ctx, "chapter pages counted", logger.Count("pages", n))
	return n, nil
}

// PlayStatus fetches the current duration and dtoken of a media object.
func (c *Client) PlayStatus(ctx context.Context, objectID string) (*PlayStatus, error) {
	if objectID == "" {
		return nil, fmt.Errorf("%w: object id is required", ErrInvalidArgument)
	}

	q := url.Values{"_dc": {strconv.FormatInt(c.now().UnixMilli(), 10)}}
	endpoint := c.cfg.BaseURL + "/ananas/status/" + url.PathEscape(objectID) + "?" + q.Encode()
	body, err := c.getWithRetry(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: status of %s", ErrInvalidResponse, objectID)
	}

	doc := gjson.ParseBytes(body)
	st := &PlayStatus{
		Duration: doc.Get("duration").Int(),
		DToken:   doc.Get("dtoken").String(),
		Filename: doc.Get("filename").String(),
		IsPassed: doc.Get("isPassed").Bool(),
		Status:   doc.Get("status").String(),
	}
	if st.DToken == "" {
		return nil, fmt.Errorf("%w: status of %s has no dtoken", ErrInvalidResponse, objectID)
	}
	return st, nil
}

// SubmitLog sends one signed playback event. It is never retried.
func (c *Client) SubmitLog(ctx context.Context, p LogParams) (*LogResult, error) {
	if p.CPI == "" || p.DToken == "" || p.ObjectID == "" {
		return nil, fmt.Errorf("%w: cpi, dtoken and object id are required", ErrInvalidArgument)
	}

	endpoint := c.cfg.BaseURL + "/multimedia/log/a/" + url.PathEscape(p.CPI) + "/" + url.PathEscape(p.DToken) +
		"?" + c.logQuery(p)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Join(ErrTransport, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Join(ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, errors.Join(ErrTransport, err)
	}

	res := &LogResult{
		StatusCode: resp.StatusCode,
		Body:       string(body),
		IsPassed:   gjson.GetBytes(body, "isPassed").Bool(),
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return res, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return res, nil
}

// logQuery renders the submission parameters in the order the web player sends them.
// The jobid parameter is left out when the attachment has none.
func (c *Client) logQuery(p LogParams) string {
	dtype := p.DType
	if dtype == "" {
		dtype = "Audio"
	}
	signature := enc.Build(enc.Params{
		ClazzID:     p.ClazzID,
		UserID:      p.UserID,
		JobID:       p.JobID,
		ObjectID:    p.ObjectID,
		PlayingTime: p.PlayingTime,
		Duration:    p.Duration,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		Secret:      c.cfg.Secret,
	})

	pairs := [][2]string{
		{"clazzId", p.ClazzID},
		{"playingTime", strconv.FormatInt(p.PlayingTime, 10)},
		{"duration", strconv.FormatInt(p.Duration, 10)},
		{"clipTime", enc.ClipTime(p.Duration, p.StartTime, p.EndTime)},
		{"objectId", p.ObjectID},
		{"otherInfo", p.OtherInfo},
		{"jobid", p.JobID},
		{"userid", p.UserID},
		{"isdrag", strconv.Itoa(p.IsDrag)},
		{"view", c.cfg.View},
		{"enc", signature},
		{"dtype", dtype},
		{"_t", strconv.FormatInt(c.now().UnixMilli(), 10)},
	}

	var b strings.Builder
	for _, kv := range pairs {
		if kv[0] == "jobid" && kv[1] == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv[0]))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv[1]))
	}
	return b.String()
}

// getWithRetry issues an idempotent GET, retrying transport failures and 5xx/429 responses.
func (c *Client) getWithRetry(ctx context.Context, endpoint string) ([]byte, error) {
	var (
		body    []byte
		attempt int
	)

	backoff := retry.WithMaxRetries(c.cfg.RetryAttempts, retry.NewExponential(c.cfg.RetryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return errors.Join(ErrTransport, err)
		}

		b, err := c.do(req)
		if err != nil {
			if retryable(err) {
				c.logger.WarnContext(ctx, "request failed, retrying",
					logger.Error(err),
					logger.RetryCount(attempt),
					logger.URL(req.URL.Path),
				)
				return retry.RetryableError(err)
			}
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// do sends req and returns the body of a 2xx response.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Join(ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, errors.Join(ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{code: resp.StatusCode}
	}
	return body, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUnexpectedStatus, e.code)
}

func (e *statusError) Unwrap() error {
	return ErrUnexpectedStatus
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	return errors.Is(err, ErrTransport)
}
