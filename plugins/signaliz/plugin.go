package signaliz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sflowg/signaliz/runtime/plugin"
)

// Config holds the plugin configuration with declarative tags
type Config struct {
	APIKey    string        `yaml:"api_key" validate:"required,no_whitespace"`
	BaseURL   string        `yaml:"base_url" default:"https://api.signaliz.com/functions/v1" validate:"required,url_format"`
	Timeout   time.Duration `yaml:"timeout" default:"0s" validate:"gte=0"`
	Debug     bool          `yaml:"debug" default:"false"`
	UserAgent string        `yaml:"user_agent" default:"sflowg-signaliz"`
}

// SignalizPlugin exposes the research API as four tasks:
//
//	signaliz.companySignalEnrichment
//	signaliz.deepResearch
//	signaliz.agenticResearch
//	signaliz.multipassResearch
type SignalizPlugin struct {
	Config Config // Exported so the CLI can prepare it before Initialize
	Logger *slog.Logger

	dispatcher *Dispatcher
}

// Initialize implements the plugin.Initializer interface.
// Config is already validated by the host before this is called.
func (p *SignalizPlugin) Initialize(ctx context.Context) error {
	if p.Logger == nil {
		p.Logger = slog.Default()
	}

	credentials := Credentials{APIKey: p.Config.APIKey}
	if err := credentials.Validate(); err != nil {
		return err
	}

	// One call per item, no retries; the transport default timeout applies
	// unless one is configured.
	client := resty.New().
		SetRetryCount(0).
		SetDebug(p.Config.Debug).
		SetLogger(restyLogger{l: p.Logger}).
		SetHeader("User-Agent", p.Config.UserAgent).
		OnRequestLog(redactAuthorization)
	if p.Config.Timeout > 0 {
		client.SetTimeout(p.Config.Timeout)
	}

	p.dispatcher = NewDispatcher(client, p.Config.BaseURL, credentials)

	p.Logger.InfoContext(ctx, "Signaliz plugin initialized",
		"base_url", p.Config.BaseURL,
		"timeout", p.Config.Timeout,
		"debug", p.Config.Debug)
	return nil
}

// Shutdown implements the plugin.Shutdowner interface
func (p *SignalizPlugin) Shutdown(ctx context.Context) error {
	p.dispatcher = nil
	return nil
}

// CompanySignalEnrichment finds business signals about a specific company.
func (p *SignalizPlugin) CompanySignalEnrichment(exec *plugin.Execution, input CompanySignalEnrichmentInput) (plugin.Output, error) {
	return p.send(exec, input)
}

// DeepResearch finds companies matching ICP criteria with signals.
func (p *SignalizPlugin) DeepResearch(exec *plugin.Execution, input DeepResearchInput) (plugin.Output, error) {
	return p.send(exec, input)
}

// AgenticResearch runs AI-powered research on a specific company.
func (p *SignalizPlugin) AgenticResearch(exec *plugin.Execution, input AgenticResearchInput) (plugin.Output, error) {
	return p.send(exec, input)
}

// MultipassResearch runs bulk discovery or single company enrichment.
func (p *SignalizPlugin) MultipassResearch(exec *plugin.Execution, input MultipassResearchInput) (plugin.Output, error) {
	return p.send(exec, input)
}

// TestCredentials sends the credential probe with the configured key.
func (p *SignalizPlugin) TestCredentials(ctx context.Context) error {
	if p.dispatcher == nil {
		return &CredentialError{Err: errNotInitialized}
	}
	return p.dispatcher.Probe(ctx)
}

var errNotInitialized = errors.New("signaliz plugin is not initialized")

func (p *SignalizPlugin) send(exec *plugin.Execution, req Request) (plugin.Output, error) {
	if p.dispatcher == nil {
		return nil, plugin.NewTaskError(errNotInitialized)
	}

	p.Logger.DebugContext(exec, "Calling Signaliz API",
		"resource", req.Resource(),
		"item", exec.Item,
		"execution", exec.ID)

	out, err := p.dispatcher.Send(exec, req)
	if err != nil {
		return nil, taskError(err)
	}
	return out, nil
}

// taskError attaches the failure's type and upstream status for the host.
func taskError(err error) *plugin.TaskError {
	te := plugin.NewTaskError(err)

	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		te.WithMetadata("resource", apiErr.Resource.String())
		if apiErr.StatusCode != 0 {
			te.WithMetadata("status_code", apiErr.StatusCode)
		}
		if apiErr.Transient() {
			return te.WithType(plugin.ErrorTypeTransient).WithRetryHint(true)
		}
		return te.WithType(plugin.ErrorTypePermanent).WithRetryHint(false)
	}

	return te.WithType(plugin.ErrorTypePermanent).WithRetryHint(false)
}

// restyLogger routes resty's debug and warning output through slog.
type restyLogger struct {
	l *slog.Logger
}

func (r restyLogger) Errorf(format string, v ...any) {
	r.l.Error(fmt.Sprintf(format, v...), "component", "resty")
}

func (r restyLogger) Warnf(format string, v ...any) {
	r.l.Warn(fmt.Sprintf(format, v...), "component", "resty")
}

func (r restyLogger) Debugf(format string, v ...any) {
	r.l.Debug(fmt.Sprintf(format, v...), "component", "resty")
}

func redactAuthorization(rl *resty.RequestLog) error {
	if rl.Header.Get("Authorization") != "" {
		rl.Header.Set("Authorization", "Bearer <redacted>")
	}
	return nil
}
