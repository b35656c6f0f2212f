package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/yannisyannis/qr-shopify/internal/model"
	"github.com/yannisyannis/qr-shopify/internal/store"
	"github.com/yannisyannis/qr-shopify/internal/store/config"
)

// Файловое хранилище: кеш в памяти + JSON-файл.
// Кеш - источник истины между сбросами, файл переписывается целиком

type filestore struct {
	path   string
	zaplog *zap.Logger

	mu    sync.RWMutex
	cache map[string]model.Record

	saver *saver
}

func NewStore(cfg config.Config, zaplog *zap.Logger) (store.Store, error) {
	s := &filestore{
		path:   cfg.FilePath,
		zaplog: zaplog,
		cache:  make(map[string]model.Record),
	}
	s.saver = newSaver(s.write, zaplog)

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(cfg.FilePath)
	if err == nil {
		var records []model.Record
		if err = json.Unmarshal(data, &records); err == nil {
			for _, record := range records {
				s.cache[record.OrderID] = record
			}
			zaplog.Info("qr cache loaded", zap.Int("records", len(s.cache)))
			return s, nil
		}
	}

	// файл отсутствует или не читается: начинаем с пустого кеша
	// и сразу создаём файл заново
	zaplog.Warn("qr file unreadable, starting empty",
		zap.String("path", cfg.FilePath),
		zap.Error(err))
	if err := s.saver.RequestSave(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *filestore) Get(_ context.Context, orderID string) (model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.cache[orderID]
	if !ok {
		return model.Record{}, store.ErrNotFound
	}
	return record, nil
}

// Put - вставка или перезапись по order_id, последняя запись побеждает
func (s *filestore) Put(_ context.Context, record model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[record.OrderID] = record
	return nil
}

func (s *filestore) All(_ context.Context) ([]model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]model.Record, 0, len(s.cache))
	for _, record := range s.cache {
		records = append(records, record)
	}
	return records, nil
}

// Redeem - переход active -> used под общей блокировкой,
// поэтому подтверждение срабатывает ровно один раз
func (s *filestore) Redeem(_ context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.cache[orderID]
	if !ok {
		return store.ErrNotFound
	}
	if !record.Status.Redeemable() {
		return store.ErrAlreadyRedeemed
	}
	record.Status = model.StatusUsed
	s.cache[orderID] = record
	return nil
}

func (s *filestore) Flush(ctx context.Context) error {
	return s.saver.RequestSave(ctx)
}

// Close - финальный сброс, последняя запись файла авторитетна
func (s *filestore) Close(ctx context.Context) error {
	return s.saver.RequestSave(ctx)
}

// write переписывает файл целиком. Вызывается только из saver,
// поэтому две записи никогда не идут параллельно
func (s *filestore) write() error {
	s.mu.RLock()
	records := make([]model.Record, 0, len(s.cache))
	for _, record := range s.cache {
		records = append(records, record)
	}
	s.mu.RUnlock()

	// сортировка ради детерминированного файла
	sort.Slice(records, func(i, j int) bool {
		return records[i].OrderID < records[j].OrderID
	})

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	// temp + rename: частично записанный файл снаружи не виден
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
