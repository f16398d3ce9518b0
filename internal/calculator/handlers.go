package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

const maxBodyBytes = 64 << 10

// Handler serves the calculator endpoints from a session store.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// ---------------------------------------------------------------------------
// Handlers — session lifecycle
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.create")
	defer span.End()

	id, st, err := h.store.Create()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "create_session", "session limit reached", err, http.StatusServiceUnavailable, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.session.id", id))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator session created",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusCreated, newSnapshot(id, st))
}

// GetSession handles GET /calculator/sessions/{sessionID}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger, id := h.startSessionSpan(r, "calculator.session.get")
	defer span.End()

	st, err := h.store.Get(id)
	if err != nil {
		recordSessionError(ctx, span, logger, "get_session", err, w)
		return
	}

	finishSpan(span, st)
	handlers.WriteJSON(w, http.StatusOK, newSnapshot(id, st))
}

// DeleteSession handles DELETE /calculator/sessions/{sessionID}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger, id := h.startSessionSpan(r, "calculator.session.delete")
	defer span.End()

	if err := h.store.Delete(id); err != nil {
		recordSessionError(ctx, span, logger, "delete_session", err, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("calculator session deleted",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Handlers — keypad input
// ---------------------------------------------------------------------------

// PressKeys handles POST /calculator/sessions/{sessionID}/keys. Every key is
// applied in order to the stored session and the resulting snapshot returned.
func (h *Handler) PressKeys(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger, id := h.startSessionSpan(r, "calculator.session.keys")
	defer span.End()

	keys, intents, ok := decodeKeys(ctx, span, logger, "keys", w, r)
	if !ok {
		return
	}

	st, err := h.store.Apply(id, func(st engine.State) (engine.State, error) {
		next, _, err := replay(ctx, logger, st, keys, intents)
		return next, err
	})
	if err != nil {
		recordSessionError(ctx, span, logger, "keys", err, w)
		return
	}

	finishSpan(span, st)

	logger.Info("calculator keys applied",
		zap.String("session_id", id),
		zap.Int("keys", len(keys)),
		zap.String("display", st.Display()),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusOK, newSnapshot(id, st))
}

// ClearHistory handles DELETE /calculator/sessions/{sessionID}/history
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger, id := h.startSessionSpan(r, "calculator.session.clear_history")
	defer span.End()

	keys := []string{"clear-history"}
	intents := []engine.Intent{engine.ClearHistory()}

	st, err := h.store.Apply(id, func(st engine.State) (engine.State, error) {
		next, _, err := replay(ctx, logger, st, keys, intents)
		return next, err
	})
	if err != nil {
		recordSessionError(ctx, span, logger, "clear_history", err, w)
		return
	}

	finishSpan(span, st)
	handlers.WriteJSON(w, http.StatusOK, newSnapshot(id, st))
}

// Evaluate handles POST /calculator/evaluate. It replays the keys on a fresh
// calculator without keeping a session, creating a child span for every key.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	keys, intents, ok := decodeKeys(ctx, span, logger, "evaluate", w, r)
	if !ok {
		return
	}

	st, steps, err := replay(ctx, logger, engine.New(), keys, intents)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	finishSpan(span, st)

	logger.Info("calculator evaluation completed",
		zap.Int("keys", len(keys)),
		zap.String("display", st.Display()),
		zap.Int("computations", st.Completed()),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{
		Steps:  steps,
		Result: newSnapshot("", st),
	})
}

// ---------------------------------------------------------------------------
// Shared plumbing
// ---------------------------------------------------------------------------

func (h *Handler) startSessionSpan(r *http.Request, name string) (context.Context, trace.Span, *zap.Logger, string) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	id := chi.URLParam(r, "sessionID")

	ctx, span := tracer.Start(ctx, name,
		trace.WithAttributes(
			attribute.String("calculator.session.id", id),
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	return ctx, span, logger, id
}

func decodeKeys(ctx context.Context, span trace.Span, logger *zap.Logger, opName string, w http.ResponseWriter, r *http.Request) ([]string, []engine.Intent, bool) {
	var req KeysRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return nil, nil, false
	}

	if len(req.Keys) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "no keys provided", errors.New("keys array is empty"), http.StatusBadRequest, w)
		return nil, nil, false
	}

	intents, err := engine.ParseKeys(req.Keys)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusBadRequest, w)
		return nil, nil, false
	}

	span.SetAttributes(attribute.Int("calculator.keys_count", len(req.Keys)))
	return req.Keys, intents, true
}

func recordSessionError(ctx context.Context, span trace.Span, logger *zap.Logger, opName string, err error, w http.ResponseWriter) {
	status, msg := http.StatusInternalServerError, "internal error"

	switch {
	case errors.Is(err, ErrSessionNotFound):
		status, msg = http.StatusNotFound, ErrSessionNotFound.Error()
	case errors.Is(err, engine.ErrInvalidIntent):
		status, msg = http.StatusBadRequest, err.Error()
	}

	observability.RecordError(ctx, span, logger, errorCounter, opName, msg, err, status, w)
}

// replay applies intents to st in order. Each key gets its own child span;
// an arithmetic fault is recorded on that span but does not stop the replay,
// since the engine recovers from it on the next key.
func replay(ctx context.Context, logger *zap.Logger, st engine.State, keys []string, intents []engine.Intent) (engine.State, []StepResult, error) {
	steps := make([]StepResult, 0, len(intents))

	for i, in := range intents {
		_, stepSpan := tracer.Start(ctx, fmt.Sprintf("calculator.key.%d.%s", i, in),
			trace.WithAttributes(
				attribute.Int("calculator.key.index", i),
				attribute.String("calculator.key.label", keys[i]),
				attribute.String("calculator.display.before", st.Display()),
			),
		)

		start := time.Now()
		next, err := engine.Reduce(st, in)
		elapsed := float64(time.Since(start).Nanoseconds()) / 1e6 // ms

		if err != nil {
			stepSpan.RecordError(err)
			stepSpan.SetStatus(codes.Error, err.Error())
			stepSpan.End()
			return st, steps, fmt.Errorf("key %d: %w", i, err)
		}

		attrs := metric.WithAttributes(attribute.String("intent", in.Kind.String()))
		intentCounter.Add(ctx, 1, attrs)
		intentHistogram.Record(ctx, elapsed, attrs)

		opAttrs := metric.WithAttributes(attribute.String("operation", pendingOperation(st)))

		if next.Completed() > st.Completed() {
			historyCounter.Add(ctx, 1, opAttrs)
			if v, err := strconv.ParseFloat(next.Display(), 64); err == nil {
				resultGauge.Record(ctx, v, opAttrs)
			}
			stepSpan.AddEvent("computation.complete", trace.WithAttributes(
				attribute.String("entry", next.History()[0]),
			))
		}

		if fault := next.Fault(); fault != nil && st.Fault() == nil {
			stepSpan.RecordError(fault)
			stepSpan.SetStatus(codes.Error, fault.Error())
			errorCounter.Add(ctx, 1, opAttrs)

			logger.Warn("calculator fault",
				zap.Int("step", i),
				zap.String("key", keys[i]),
				zap.String("operation", pendingOperation(st)),
				zap.Error(fault),
			)
		} else {
			stepSpan.SetStatus(codes.Ok, "")
		}

		stepSpan.SetAttributes(attribute.String("calculator.display.after", next.Display()))
		stepSpan.End()

		logger.Debug("calculator key applied",
			zap.Int("step", i),
			zap.String("key", keys[i]),
			zap.String("display", next.Display()),
			zap.Float64("duration_ms", elapsed),
		)

		steps = append(steps, StepResult{Key: keys[i], Display: next.Display()})
		st = next
	}

	return st, steps, nil
}

func pendingOperation(st engine.State) string {
	if p, ok := st.Pending(); ok {
		return p.Op.String()
	}
	return "none"
}

func finishSpan(span trace.Span, st engine.State) {
	span.SetAttributes(
		attribute.String("calculator.display", st.Display()),
		attribute.Int("calculator.history.length", st.HistoryLen()),
	)
	if err := st.Fault(); err != nil {
		span.SetAttributes(attribute.String("calculator.fault", err.Error()))
	}
	span.SetStatus(codes.Ok, "")
}
