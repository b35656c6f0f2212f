package filestore

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// saver сериализует сбросы на диск: одновременно выполняется
// не больше одной записи, остальные запросы ждут в очереди.
// Без этого параллельные перезаписи файла могли бы его испортить

type saver struct {
	writeFn func() error
	zaplog  *zap.Logger

	mu      sync.Mutex
	busy    bool
	waiters []chan error
}

func newSaver(writeFn func() error, zaplog *zap.Logger) *saver {
	return &saver{
		writeFn: writeFn,
		zaplog:  zaplog,
	}
}

// RequestSave блокируется, пока состояние на момент вызова (или новее)
// не будет записано на диск. Запросы, пришедшие во время текущей записи,
// обслуживаются следующей: их мутации уже в кеше к моменту её снимка
func (s *saver) RequestSave(ctx context.Context) error {
	ch := make(chan error, 1)

	s.mu.Lock()
	s.waiters = append(s.waiters, ch)
	depth := len(s.waiters)
	start := !s.busy
	if start {
		s.busy = true
	}
	s.mu.Unlock()

	s.zaplog.Debug("save requested", zap.Int("queue", depth))
	if start {
		go s.drain()
	}

	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// drain выполняет записи, пока очередь не опустеет. Ошибка одной записи
// уходит только её ожидающим, очередь продолжает обрабатываться
func (s *saver) drain() {
	for {
		s.mu.Lock()
		if len(s.waiters) == 0 {
			s.busy = false
			s.mu.Unlock()
			return
		}
		batch := s.waiters
		s.waiters = nil
		s.mu.Unlock()

		flushID := uuid.NewString()
		s.zaplog.Debug("flush started",
			zap.String("flush", flushID),
			zap.Int("waiters", len(batch)))

		err := s.writeFn()
		if err != nil {
			s.zaplog.Error("flush failed",
				zap.String("flush", flushID),
				zap.Error(err))
		} else {
			s.zaplog.Debug("flush finished", zap.String("flush", flushID))
		}

		for _, ch := range batch {
			ch <- err
		}
	}
}
