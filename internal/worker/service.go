package worker

import (
	"context"
	"errors"
	"time"

	"github.com/lankashop/storefront/internal/config"
	"github.com/lankashop/storefront/internal/logger"
	"github.com/lankashop/storefront/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	// 补偿扫描周期与触发阈值：超过阈值仍未补齐的订单会被重新入队
	reconcileSweepInterval = time.Minute
	reconcileStaleAfter    = 5 * time.Minute
	reconcileSweepLimit    = 50
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	go s.runReconcileSweepLoop(ctx)
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runReconcileSweepLoop 周期扫描滞留的未补齐订单，重新入队补偿任务。
// 覆盖补偿任务耗尽重试或进程重启导致任务丢失的情况。
func (s *Service) runReconcileSweepLoop(ctx context.Context) {
	if s == nil || s.consumer == nil {
		return
	}
	ticker := time.NewTicker(reconcileSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.consumer.SweepIncompleteOrders(reconcileStaleAfter, reconcileSweepLimit); err != nil {
				logger.Warnw("worker_reconcile_sweep_failed", "error", err)
			}
		}
	}
}
