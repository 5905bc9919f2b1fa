package worker

import (
	"context"
	"errors"
	"time"

	"github.com/coachpanel/internal/config"
	"github.com/coachpanel/internal/logger"
	"github.com/coachpanel/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	commissionAutoApproveInterval = 10 * time.Minute
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
	if s.consumer != nil && s.consumer.InfluencerService != nil {
		go s.runCommissionAutoApproveLoop(ctx)
	}
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

// runCommissionAutoApproveLoop 定期把超过确认期的待确认佣金转为已确认
func (s *Service) runCommissionAutoApproveLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.InfluencerService == nil {
		return
	}
	runOnce := func() {
		approved, err := s.consumer.InfluencerService.AutoApproveCommissions(time.Now())
		if err != nil {
			logger.Warnw("worker_commission_auto_approve_loop_failed", "error", err)
			return
		}
		if approved > 0 {
			logger.Infow("worker_commission_auto_approve_loop_done", "count", approved)
		}
	}
	runOnce()

	ticker := time.NewTicker(commissionAutoApproveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
