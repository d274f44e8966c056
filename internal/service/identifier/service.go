package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/you-humble/asset-tracker/internal/model"
	"github.com/you-humble/asset-tracker/pkg/logger"
)

// EmployeeNamespace is the counter namespace used for employee ids.
const EmployeeNamespace = "employee"

type CounterRepository interface {
	Next(ctx context.Context, key string) (int64, error)
}

type service struct {
	counters       CounterRepository
	writeDBTimeout time.Duration
}

func NewIdentifierService(counters CounterRepository, writeDBTimeout time.Duration) *service {
	return &service{counters: counters, writeDBTimeout: writeDBTimeout}
}

// NextID mints the next id for namespace, which is either an asset kind or
// "employee". Ids are never reused.
func (s *service) NextID(ctx context.Context, namespace string) (string, error) {
	const op = "identifier.service.NextID"

	prefix, key, err := resolve(namespace)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer cancel()

	seq, err := s.counters.Next(ctx, key)
	if err != nil {
		logger.Error(ctx, "counter next", logger.String("counter", key), logger.ErrorF(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return FormatID(prefix, seq), nil
}

func (s *service) NextAssetID(ctx context.Context, kind model.Kind) (string, error) {
	return s.NextID(ctx, string(kind))
}

func (s *service) NextEmployeeID(ctx context.Context) (string, error) {
	return s.NextID(ctx, EmployeeNamespace)
}

// FormatID pads seq to four digits; larger sequences keep growing in width.
func FormatID(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%04d", prefix, seq)
}

func resolve(namespace string) (prefix, key string, err error) {
	namespace = strings.ToLower(strings.TrimSpace(namespace))
	if namespace == EmployeeNamespace {
		return model.EmployeeIDPrefix, model.EmployeeCounterKey, nil
	}

	spec, err := model.SpecOf(model.Kind(namespace))
	if err != nil {
		return "", "", err
	}

	return spec.Prefix, spec.CounterKey, nil
}
