// Package scheduler contém os serviços de agendamento em background
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-manager-api/infrastructure/repository"
	"github.com/vfg2006/campaign-manager-api/internal/config"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
	"github.com/vfg2006/campaign-manager-api/pkg/utils"
)

const snapshotBatchSize = 500

// Status em que os contadores ainda mudam ou acabaram de fechar
var snapshotStatuses = []domain.CampaignStatus{
	domain.CampaignStatusPending,
	domain.CampaignStatusApproved,
	domain.CampaignStatusCompleted,
}

// MetricsSnapshotSyncConfig representa a configuração do histórico diário de métricas
type MetricsSnapshotSyncConfig struct {
	CronSchedule      string
	MaxConcurrentJobs int
	SyncEnabled       bool
}

// MetricsSnapshotSyncService grava uma foto diária dos contadores de cada campanha
type MetricsSnapshotSyncService struct {
	scheduler           *gocron.Scheduler
	config              MetricsSnapshotSyncConfig
	campaignRepo        repository.CampaignRepository
	historyRepo         repository.MetricsHistoryRepository
	now                 func() time.Time
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncCount       int
	lastSyncError       string
}

func NewMetricsSnapshotSyncService(
	campaignRepo repository.CampaignRepository,
	historyRepo repository.MetricsHistoryRepository,
	cfg *config.Config,
) *MetricsSnapshotSyncService {
	syncConfig := MetricsSnapshotSyncConfig{
		CronSchedule:      cfg.MetricsSnapshotSync.CronSchedule,
		MaxConcurrentJobs: cfg.MetricsSnapshotSync.MaxConcurrentJobs,
		SyncEnabled:       cfg.MetricsSnapshotSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)
	if syncConfig.MaxConcurrentJobs > 0 {
		scheduler.SetMaxConcurrentJobs(syncConfig.MaxConcurrentJobs, gocron.RescheduleMode)
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":       syncConfig.CronSchedule,
		"max_concurrent_jobs": syncConfig.MaxConcurrentJobs,
		"sync_enabled":        syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de histórico de métricas carregada")

	return &MetricsSnapshotSyncService{
		scheduler:    scheduler,
		config:       syncConfig,
		campaignRepo: campaignRepo,
		historyRepo:  historyRepo,
		now:          time.Now,
	}
}

// Start inicia o agendador
func (s *MetricsSnapshotSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Histórico diário de métricas desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de histórico de métricas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if _, err := s.SyncSnapshots(ctx); err != nil {
			logrus.WithError(err).Error("Erro na gravação do histórico de métricas")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar histórico de métricas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de histórico de métricas")
		s.scheduler.Stop()
	}()

	return nil
}

// SyncSnapshots grava a foto do dia para todas as campanhas com contadores ativos.
// Execuções concorrentes são ignoradas; rodar de novo no mesmo dia sobrescreve a foto.
func (s *MetricsSnapshotSyncService) SyncSnapshots(ctx context.Context) (int, error) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Warn("Gravação do histórico de métricas já está em execução")
		return 0, nil
	}
	s.syncRunning = true
	s.lastSyncStartedAt = s.now()
	s.syncMutex.Unlock()

	saved, err := s.syncSnapshots(ctx)

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastSyncCompletedAt = s.now()
	s.lastSyncCount = saved
	s.lastSyncError = ""
	if err != nil {
		s.lastSyncError = err.Error()
	}
	s.syncMutex.Unlock()

	return saved, err
}

func (s *MetricsSnapshotSyncService) syncSnapshots(ctx context.Context) (int, error) {
	logrus.Info("Iniciando gravação do histórico diário de métricas")

	campaigns, err := s.campaignRepo.ListByStatus(ctx, snapshotStatuses)
	if err != nil {
		return 0, fmt.Errorf("erro ao listar campanhas: %w", err)
	}

	if len(campaigns) == 0 {
		logrus.Info("Nenhuma campanha com métricas para o histórico")
		return 0, nil
	}

	day := utils.StartOfDay(s.now())
	snapshots := make([]domain.CampaignMetricsSnapshot, 0, len(campaigns))
	for _, campaign := range campaigns {
		snapshots = append(snapshots, domain.CampaignMetricsSnapshot{
			CampaignID: campaign.ID,
			Date:       day,
			Metrics:    campaign.Metrics,
		})
	}

	saved := 0
	for start := 0; start < len(snapshots); start += snapshotBatchSize {
		end := min(start+snapshotBatchSize, len(snapshots))

		if err := s.historyRepo.SaveSnapshots(ctx, snapshots[start:end]); err != nil {
			return saved, fmt.Errorf("erro ao salvar histórico de métricas: %w", err)
		}
		saved += end - start
	}

	logrus.WithFields(logrus.Fields{
		"date":      day.Format(time.DateOnly),
		"campaigns": saved,
	}).Info("Histórico diário de métricas gravado")

	return saved, nil
}

// TriggerManualSync inicia manualmente uma gravação do histórico
func (s *MetricsSnapshotSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Gravação do histórico de métricas já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando gravação manual do histórico de métricas")
	go func() {
		if _, err := s.SyncSnapshots(context.Background()); err != nil {
			logrus.WithError(err).Error("Erro na gravação manual do histórico de métricas")
		}
	}()
}

// GetStatus retorna o status atual do agendador
func (s *MetricsSnapshotSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_count":        s.lastSyncCount,
		"last_sync_error":        s.lastSyncError,
	}
}
