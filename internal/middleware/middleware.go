// Package middleware intercepts admin responses and applies the reorder
// transform to their render context before rendering.
//
// Handlers cooperate through a deferred-render contract: instead of
// writing the page themselves, they register a TemplateResponse (render
// context plus render func) via Respond. After the handler returns, the
// middleware transforms the context when the gate applies, then invokes
// the render func. Handlers that write their response directly are left
// alone.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/omenapps/adminsort/internal/adminindex"
	"github.com/omenapps/adminsort/internal/config"
	"github.com/omenapps/adminsort/internal/log"
	"github.com/omenapps/adminsort/internal/reorder"
	"github.com/omenapps/adminsort/internal/tracing"
)

// TemplateResponse is a pending response: a render context and the render
// func that turns it into the final page. Status zero means 200.
type TemplateResponse struct {
	Status  int
	Context adminindex.RenderContext
	Render  func(w http.ResponseWriter, rc adminindex.RenderContext) error
}

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const carrierKey contextKey = "template_response"

// carrier transports the handler's pending response back to the
// middleware. A pointer to it lives in the request context.
type carrier struct {
	tr *TemplateResponse
}

// Respond registers a pending template response for the current request.
// It returns false when the middleware is not installed, in which case the
// handler must render on its own.
func Respond(r *http.Request, tr *TemplateResponse) bool {
	c, ok := r.Context().Value(carrierKey).(*carrier)
	if !ok {
		return false
	}
	c.tr = tr
	return true
}

// Middleware applies the reorder transform to admin index responses.
//
// Settings are parsed lazily on the first applicable request; a broken
// configuration surfaces as a server error on admin pages while leaving
// every other route untouched.
type Middleware struct {
	cfg      config.Config
	gate     *Gate
	registry reorder.ModelRegistry
	tracer   trace.Tracer

	buildOnce sync.Once
	transform *reorder.Transform
	buildErr  error
}

// Option customizes the middleware.
type Option func(*Middleware)

// WithTracer sets the tracer used for per-request spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(m *Middleware) {
		m.tracer = tracer
	}
}

// New creates the middleware. The registry may be nil when the
// configuration uses no wildcard selectors.
func New(cfg config.Config, resolver RouteResolver, registry reorder.ModelRegistry, opts ...Option) *Middleware {
	m := &Middleware{
		cfg:      cfg,
		gate:     NewGate(resolver, cfg.Reorder.ValidURLNames),
		registry: registry,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Wrap installs the middleware around next.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := &carrier{}
		r = r.WithContext(context.WithValue(r.Context(), carrierKey, c))

		next.ServeHTTP(w, r)

		if c.tr == nil {
			// Handler wrote its own response.
			return
		}
		m.process(w, r, c.tr)
	})
}

func (m *Middleware) process(w http.ResponseWriter, r *http.Request, tr *TemplateResponse) {
	ctx := r.Context()
	requestID := uuid.NewString()

	if !m.gate.Applicable(ctx, r.URL.Path) {
		render(w, tr)
		return
	}

	ctx, span := m.startSpan(ctx, r, requestID)
	defer span.End()

	transform, err := m.transformer()
	if err != nil {
		// Broken deployment config: developer-facing, fail the request.
		log.ErrorErr(log.CatHTTP, "reorder configuration invalid", err,
			"request_id", requestID, "path", r.URL.Path)
		span.RecordError(err)
		span.SetAttributes(attribute.String(tracing.AttrErrorMessage, err.Error()))
		span.SetStatus(codes.Error, err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	span.AddEvent(tracing.EventConfigParsed)

	key, appsIn := appListInfo(tr.Context)
	_, applySpan := m.spanTracer(ctx).Start(ctx, tracing.SpanApplyTransform)
	applySpan.SetAttributes(attribute.String(tracing.AttrContextKey, key))
	applySpan.AddEvent(tracing.EventContextExtracted)
	transform.Apply(tr.Context)
	applySpan.AddEvent(tracing.EventResultInstalled)
	applySpan.End()

	_, appsOut := appListInfo(tr.Context)
	span.SetAttributes(
		attribute.Int(tracing.AttrAppsIn, appsIn),
		attribute.Int(tracing.AttrAppsOut, appsOut),
	)
	span.SetStatus(codes.Ok, "")

	log.Debug(log.CatHTTP, "admin response transformed",
		"request_id", requestID, "path", r.URL.Path)
	render(w, tr)
}

func (m *Middleware) spanTracer(ctx context.Context) trace.Tracer {
	if m.tracer != nil {
		return m.tracer
	}
	return trace.SpanFromContext(ctx).TracerProvider().Tracer("adminsort")
}

func (m *Middleware) startSpan(ctx context.Context, r *http.Request, requestID string) (context.Context, trace.Span) {
	ctx, span := m.spanTracer(ctx).Start(ctx, tracing.SpanProcessResponse,
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	span.SetAttributes(
		attribute.String(tracing.AttrRequestID, requestID),
		attribute.String(tracing.AttrRequestPath, r.URL.Path),
		attribute.Bool(tracing.AttrGateDecision, true),
	)
	return ctx, span
}

// transformer builds the transform from settings on first use, then
// reuses it; the parsed configuration is immutable.
func (m *Middleware) transformer() (*reorder.Transform, error) {
	m.buildOnce.Do(func() {
		m.transform, m.buildErr = reorder.New(
			m.cfg.Reorder.Apps,
			m.registry,
			reorder.Options{AppendUnrepresented: m.cfg.Reorder.AppendUnrepresented},
		)
	})
	return m.transform, m.buildErr
}

func appListInfo(rc adminindex.RenderContext) (string, int) {
	key, apps, ok := rc.AppList()
	if !ok {
		return "", 0
	}
	return key, len(apps)
}

// render invokes the handler's render func, or falls back to a JSON dump
// of the render context.
func render(w http.ResponseWriter, tr *TemplateResponse) {
	if tr.Render != nil {
		if err := tr.Render(w, tr.Context); err != nil {
			log.ErrorErr(log.CatHTTP, "render failed", err)
		}
		return
	}
	RenderJSON(w, tr)
}

// RenderJSON writes the render context as JSON. It is the default render
// func for template responses that don't bring their own.
func RenderJSON(w http.ResponseWriter, tr *TemplateResponse) {
	w.Header().Set("Content-Type", "application/json")
	if tr.Status != 0 {
		w.WriteHeader(tr.Status)
	}
	if err := json.NewEncoder(w).Encode(tr.Context); err != nil {
		log.ErrorErr(log.CatHTTP, "render failed", err)
	}
}
