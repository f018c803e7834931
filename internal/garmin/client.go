package garmin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"golfexport/internal/components/telemetry"
	"golfexport/lib/restyutil"
	otelutil "golfexport/lib/telemetry"
	"net/http/cookiejar"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otelutil.Tracer("golfexport/internal/garmin")

const (
	DefaultBaseUrl         = "https://connect.garmin.com"
	DefaultAppVersion      = "5.10.1"
	DefaultSummaryPageSize = 10000
)

const (
	report_client_get = "client.get"
)

// ErrMalformedResponse is returned when a response body cannot be decoded or
// lacks its expected top-level collection.
var ErrMalformedResponse = errors.New("malformed response")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("GET %s: status %d: %s", e.Path, e.StatusCode, body)
}

// Credential is the value of the Authorization header taken from the user's
// authenticated browser session. It is passed explicitly into every call and
// never stored by the client.
type Credential struct {
	header string
}

// NewCredential normalizes a token, a bare token gets the Bearer scheme.
func NewCredential(token string) Credential {
	token = strings.TrimSpace(token)
	if token == "" {
		return Credential{}
	}
	if !strings.Contains(token, " ") {
		token = "Bearer " + token
	}
	return Credential{header: token}
}

func (c Credential) Empty() bool {
	return c.header == ""
}

// String never reveals the credential, so it is safe to log.
func (c Credential) String() string {
	if c.Empty() {
		return "<none>"
	}
	return "<redacted>"
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// sent as x-app-ver, defaults to DefaultAppVersion
	AppVersion string
	// per request, defaults to one minute
	Timeout time.Duration
	// request pacing, <= 0 disables the limiter
	RequestsPerSecond float64
	// per-page of the summary request, defaults to DefaultSummaryPageSize
	SummaryPageSize int
	// adds the browser TLS fingerprint and headers Cloudflare expects
	BypassCloudflare bool
	Telemetry        telemetry.API
	// optional raw dump of every http exchange
	InstrumentOutput restyutil.InstrumentOutput
}

// Client reads golf records from the Garmin Connect golf community API.
type Client struct {
	http     *resty.Client
	tel      telemetry.API
	pageSize int
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.AppVersion == "" {
		opts.AppVersion = DefaultAppVersion
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}
	if opts.SummaryPageSize <= 0 {
		opts.SummaryPageSize = DefaultSummaryPageSize
	}
	var tel telemetry.API = telemetry.NoopAPI{}
	if opts.Telemetry != nil {
		tel = opts.Telemetry
	}
	tel = telemetry.NewScopedAPI("garmin", tel)

	httpClient := resty.New()
	httpClient.SetTimeout(opts.Timeout)
	httpClient.SetBaseURL(strings.TrimRight(opts.BaseUrl, "/"))
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	if opts.BypassCloudflare {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	httpClient.SetHeaders(map[string]string{
		"accept":          "application/json, text/plain, */*",
		"accept-language": "en-US,en;q=0.9",
		"di-backend":      "golf.garmin.com",
		"nk":              "NT",
		"x-app-ver":       opts.AppVersion,
		"x-lang":          "en-US",
	})

	if opts.RequestsPerSecond > 0 {
		// burst of 1 keeps the sequential per-round loop evenly spaced
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel)
	otelutil.InstrumentResty(httpClient, "golfexport/internal/garmin/http")
	restyutil.InstrumentClient(httpClient, "garmin", opts.InstrumentOutput)

	return &Client{
		http:     httpClient,
		tel:      tel,
		pageSize: opts.SummaryPageSize,
	}, nil
}

// get performs one authenticated GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, cred Credential, path string, query map[string]string, out any) error {
	if cred.Empty() {
		return fmt.Errorf("GET %s: no credential", path)
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("authorization", cred.header).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		c.tel.ReportDebug(report_client_get, path, res.Status())
		return &StatusError{
			Path:       path,
			StatusCode: res.StatusCode(),
			Body:       res.String(),
		}
	}

	err = json.Unmarshal(res.Body(), out)
	if err != nil {
		return fmt.Errorf("GET %s: %w: %s", path, ErrMalformedResponse, err.Error())
	}
	return nil
}

func traced(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
