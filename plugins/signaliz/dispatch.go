package signaliz

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/Jeffail/gabs/v2"
	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the API root every endpoint path is appended to.
const DefaultBaseURL = "https://api.signaliz.com/functions/v1"

// Dispatcher sends one authenticated POST per request.
type Dispatcher struct {
	client      *resty.Client
	baseURL     string
	credentials Credentials
}

func NewDispatcher(client *resty.Client, baseURL string, credentials Credentials) *Dispatcher {
	if client == nil {
		client = resty.New()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Dispatcher{
		client:      client,
		baseURL:     strings.TrimRight(baseURL, "/"),
		credentials: credentials,
	}
}

// Send builds the request body and posts it to the request's endpoint.
// The decoded response is returned as is; a payload that is not a JSON
// object is returned under "data".
func (d *Dispatcher) Send(ctx context.Context, req Request) (map[string]any, error) {
	return d.post(ctx, req.Resource(), req.Body())
}

func (d *Dispatcher) post(ctx context.Context, resource Resource, body Body) (map[string]any, error) {
	if err := d.credentials.Validate(); err != nil {
		return nil, err
	}
	if !resource.Valid() {
		return nil, fmt.Errorf("signaliz: unknown resource %q", resource)
	}

	r := d.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(body)

	resp, err := d.credentials.Authenticate(r).Post(d.baseURL + resource.Endpoint())
	if err != nil {
		return nil, &ApiError{
			Resource: resource,
			Message:  fmt.Sprintf("request failed: %v", err),
			Err:      err,
		}
	}

	if !resp.IsSuccess() {
		return nil, statusError(resource, resp)
	}

	return decodePayload(resp.Body()), nil
}

// statusError builds the ApiError for a non-2xx response, using the remote
// error message when the payload carries one.
func statusError(resource Resource, resp *resty.Response) *ApiError {
	apiErr := &ApiError{
		Resource:   resource,
		StatusCode: resp.StatusCode(),
		Message:    fmt.Sprintf("request failed with status code %d", resp.StatusCode()),
	}

	parsed, err := gabs.ParseJSON(resp.Body())
	if err != nil {
		if text := strings.TrimSpace(string(resp.Body())); text != "" {
			apiErr.Payload = text
		}
		return apiErr
	}

	apiErr.Payload = parsed.Data()
	if msg := remoteMessage(parsed); msg != "" {
		apiErr.Message = msg
	}
	return apiErr
}

// Keys checked, in order, for a remote error message.
var messagePaths = []string{"message", "error", "error.message", "msg"}

func remoteMessage(payload *gabs.Container) string {
	for _, path := range messagePaths {
		if msg, ok := payload.Path(path).Data().(string); ok && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	return ""
}

func decodePayload(raw []byte) map[string]any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}
	}

	parsed, err := gabs.ParseJSON(raw)
	if err != nil {
		return map[string]any{"data": string(raw)}
	}

	if obj, ok := parsed.Data().(map[string]any); ok {
		return obj
	}
	return map[string]any{"data": parsed.Data()}
}
