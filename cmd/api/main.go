package main

import (
	"context"
	"os"
	"path"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-manager-api/infrastructure/database/redis"
	"github.com/vfg2006/campaign-manager-api/infrastructure/integrator/asset"
	"github.com/vfg2006/campaign-manager-api/infrastructure/integrator/delivery"
	"github.com/vfg2006/campaign-manager-api/infrastructure/repository"
	"github.com/vfg2006/campaign-manager-api/internal/api"
	"github.com/vfg2006/campaign-manager-api/internal/api/handler"
	"github.com/vfg2006/campaign-manager-api/internal/config"
	"github.com/vfg2006/campaign-manager-api/internal/scheduler"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/campaigning"
	"github.com/vfg2006/campaign-manager-api/pkg/log"
)

type repositories struct {
	campaigns repository.CampaignRepository
	history   repository.MetricsHistoryRepository
	profiles  repository.RecipientProfileRepository
	close     func()
}

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel := log.Configure(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos := newRepositories(ctx, cfg.Database)
	defer repos.close()

	deduplicator := newDeduplicator(ctx, cfg.Redis)
	assets := newAssetResolver(ctx, cfg.Storage)

	campaignService := campaigning.NewService(
		repos.campaigns,
		repos.history,
		deduplicator,
		assets,
		repos.profiles,
	)

	authenticator := authenticating.NewService(cfg)

	// Inicializa o agendador do histórico diário de métricas
	metricsSnapshotSyncService := scheduler.NewMetricsSnapshotSyncService(
		repos.campaigns,
		repos.history,
		cfg,
	)

	if err := metricsSnapshotSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador do histórico de métricas")
	} else {
		logrus.Info("Agendador do histórico de métricas iniciado com sucesso")
	}

	// Consumidor da fila de eventos de entrega
	consumer := delivery.NewConsumer(cfg.DeliveryEvents, campaignService)
	if err := consumer.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o consumidor de eventos de entrega")
	}

	server, err := api.New(
		cfg,
		campaignService,
		authenticator,
		handler.CronJobServices{
			MetricsSnapshotSyncService: metricsSnapshotSyncService,
		},
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	log.Configure(logrus.InfoLevel.String())
}

// newRepositories escolhe entre Postgres e os repositórios em memória
func newRepositories(ctx context.Context, dbConfig config.Database) repositories {
	if dbConfig.IsMemory() {
		logrus.Warn("DATABASE_DRIVER=memory: campanhas e métricas não serão persistidas")
		return repositories{
			campaigns: repository.NewMemoryCampaignRepository(),
			history:   repository.NewMemoryMetricsHistoryRepository(),
			profiles:  repository.NewMemoryRecipientProfileRepository(nil),
			close:     func() {},
		}
	}

	pgConn := pgconn(ctx, dbConfig)

	return repositories{
		campaigns: repository.NewCampaignRepository(pgConn),
		history:   repository.NewMetricsHistoryRepository(pgConn),
		profiles:  repository.NewRecipientProfileRepository(pgConn),
		close: func() {
			if err := pgConn.Close(); err != nil {
				logrus.WithError(err).Error("Erro ao fechar conexão com PostgreSQL")
			}
		},
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

// newDeduplicator usa o Redis quando habilitado; sem ele a deduplicação vale só para esta instância
func newDeduplicator(ctx context.Context, redisConfig config.Redis) repository.DeliveryEventDeduplicator {
	if !redisConfig.Enabled {
		logrus.Warn("Redis desabilitado: deduplicação de eventos restrita a esta instância")
		return repository.NewMemoryDeliveryEventDeduplicator(redisConfig.DedupTTL)
	}

	client, err := redis.NewClient(ctx, redisConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao Redis")
	}

	logrus.Info("Conexão com Redis estabelecida com sucesso")
	return repository.NewRedisDeliveryEventDeduplicator(client, redisConfig.DedupTTL)
}

func newAssetResolver(ctx context.Context, storageConfig config.Storage) campaigning.AssetResolver {
	if !storageConfig.Enabled {
		return asset.NoopResolver{}
	}

	resolver, err := asset.NewS3Resolver(ctx, storageConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao configurar o storage de imagens")
	}

	return resolver
}
