package collector

import (
	"context"
	"log/slog"
	"slices"

	"github.com/samber/lo"
)

// SlogHandlerOptions configures a SlogHandler.
type SlogHandlerOptions struct {
	// Level is the minimum level of logs to collect.
	Level slog.Leveler
}

// SlogHandler is a slog.Handler that records log records as events of the scenario run found
// in the context. Records logged without a run context are dropped.
//
// Combine it with another handler through slogmulti.Fanout to keep console output.
type SlogHandler struct {
	aggregator *Aggregator
	options    SlogHandlerOptions

	attrs  []slog.Attr
	groups []string
}

// NewSlogHandler creates a handler collecting into the given aggregator.
func NewSlogHandler(aggregator *Aggregator, options SlogHandlerOptions) *SlogHandler {
	if options.Level == nil {
		options.Level = slog.LevelInfo
	}
	return &SlogHandler{
		aggregator: aggregator,
		options:    options,
	}
}

func (h *SlogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.options.Level.Level() && h.aggregator.ShouldCapture(ctx)
}

func (h *SlogHandler) Handle(ctx context.Context, record slog.Record) error {
	// Handler attributes must come before the record attributes
	newRecord := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	newRecord.AddAttrs(h.attrs...)

	attrs := make([]slog.Attr, 0, record.NumAttrs())
	record.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, attr)
		return true
	})

	for i := len(h.groups) - 1; i >= 0; i-- {
		attrs = []slog.Attr{
			slog.Group(h.groups[i], lo.ToAnySlice(attrs)...),
		}
	}
	newRecord.AddAttrs(attrs...)

	h.aggregator.CollectEvent(ctx, newRecord)

	return nil
}

func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SlogHandler{
		aggregator: h.aggregator,
		options:    h.options,

		attrs:  appendAttrsToGroup(h.groups, h.attrs, attrs...),
		groups: h.groups,
	}
}

func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &SlogHandler{
		aggregator: h.aggregator,
		options:    h.options,

		attrs:  h.attrs,
		groups: append(slices.Clone(h.groups), name),
	}
}

func appendAttrsToGroup(groups []string, actualAttrs []slog.Attr, newAttrs ...slog.Attr) []slog.Attr {
	actualAttrs = slices.Clone(actualAttrs)

	if len(groups) == 0 {
		return append(actualAttrs, newAttrs...)
	}

	for i, attr := range actualAttrs {
		if attr.Key == groups[0] && attr.Value.Kind() == slog.KindGroup {
			actualAttrs[i] = slog.Group(groups[0], lo.ToAnySlice(appendAttrsToGroup(groups[1:], attr.Value.Group(), newAttrs...))...)
			return actualAttrs
		}
	}

	return append(
		actualAttrs,
		slog.Group(
			groups[0],
			lo.ToAnySlice(appendAttrsToGroup(groups[1:], nil, newAttrs...))...,
		),
	)
}
