// internal/service/app.go
package service

import (
	"go.uber.org/zap"

	"github.com/unclebandit/adcraft/internal/generator"
	"github.com/unclebandit/adcraft/internal/queue"
	"github.com/unclebandit/adcraft/internal/repository"
)

// App is the whole application state: one form and one history. The
// presentation layer owns an App and mutates it only through its stores.
type App struct {
	Form    *FormStore
	History *HistoryStore
}

// NewApp restores the history from kv and wires it to a fresh form. events may be nil.
func NewApp(gen generator.CopyGenerator, kv repository.KVRepositoryInterface, events queue.Queue, logger *zap.Logger) *App {
	history := NewHistoryStore(kv, logger)
	return &App{
		Form:    NewFormStore(gen, history, events, logger),
		History: history,
	}
}
