// Package zlog provides a zerolog-backed observer for treectx. Context
// lifecycle is logged at info level, per-task and relay noise at debug.
package zlog

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/NetPo4ki/go-treectx/treectx"
)

// Observer implements treectx.Observer by writing structured log events.
type Observer struct {
	log zerolog.Logger
}

// New returns an observer writing through log.
func New(log zerolog.Logger) *Observer {
	return &Observer{log: log}
}

func (o *Observer) ContextCreated(id, parentID string) {
	o.log.Info().
		Str("context", id).
		Str("parent", parentID).
		Msg("context created")
}

func (o *Observer) ContextCancelled(id string, forwarded bool) {
	o.log.Info().
		Str("context", id).
		Bool("forwarded", forwarded).
		Msg("context cancelled")
}

func (o *Observer) RelayDiscarded(parentID, childID string) {
	o.log.Debug().
		Str("parent", parentID).
		Str("child", childID).
		Msg("stale relay discarded")
}

func (o *Observer) TaskSpawned(ctxID, taskID string) {
	o.log.Debug().
		Str("context", ctxID).
		Str("task", taskID).
		Msg("task spawned")
}

func (o *Observer) TaskFinished(ctxID, taskID string, dur time.Duration, outcome treectx.Outcome) {
	o.log.Debug().
		Str("context", ctxID).
		Str("task", taskID).
		Dur("took", dur).
		Stringer("outcome", outcome).
		Msg("task finished")
}
