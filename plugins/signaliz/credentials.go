package signaliz

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Credentials holds the API key sent with every call.
type Credentials struct {
	APIKey string
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return &CredentialError{Err: ErrMissingAPIKey}
	}
	return nil
}

// AuthorizationHeader is the value of the Authorization header.
func (c Credentials) AuthorizationHeader() string {
	return "Bearer " + c.APIKey
}

// Authenticate sets the Authorization header on a request.
func (c Credentials) Authenticate(r *resty.Request) *resty.Request {
	return r.SetHeader("Authorization", c.AuthorizationHeader())
}

func (c Credentials) String() string {
	return "Credentials{APIKey:<redacted>}"
}

// LogValue keeps the key out of structured logs.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(slog.Bool("api_key_set", c.APIKey != ""))
}

// probeRequest is the minimal enrichment call used to check a key.
var probeRequest = CompanySignalEnrichmentInput{
	CompanyName:    "Test Company",
	ResearchPrompt: "Test authentication",
	AdditionalFields: EnrichmentFields{
		TargetSignalCount: func() *int { n := 1; return &n }(),
	},
}

// Probe sends the credential test request. Any 2xx response validates the
// key; everything else comes back as a *CredentialError wrapping the cause.
func (d *Dispatcher) Probe(ctx context.Context) error {
	if _, err := d.Send(ctx, probeRequest); err != nil {
		var credErr *CredentialError
		if errors.As(err, &credErr) {
			return credErr
		}
		return &CredentialError{Err: err}
	}
	return nil
}
