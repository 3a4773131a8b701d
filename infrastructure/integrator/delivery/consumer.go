// Package delivery consome os eventos do pipeline de entrega (envio, entrega e visita)
// publicados no RabbitMQ e os repassa ao serviço de campanhas
package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/streadway/amqp"
	"github.com/vfg2006/campaign-manager-api/internal/config"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/campaigning"
	"github.com/vfg2006/campaign-manager-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const reconnectDelay = 5 * time.Second

// Ingester registra um evento de entrega, com deduplicação por EventID
type Ingester interface {
	IngestDeliveryEvent(ctx context.Context, event domain.DeliveryEvent) (*campaigning.DeliveryEventResult, error)
}

// Outcome é a resposta dada ao broker para uma mensagem
type Outcome int

const (
	// OutcomeAck remove a mensagem da fila (processada, duplicada ou descartada)
	OutcomeAck Outcome = iota
	// OutcomeRequeue devolve a mensagem para nova tentativa
	OutcomeRequeue
)

func (o Outcome) String() string {
	if o == OutcomeRequeue {
		return "requeue"
	}
	return "ack"
}

type Consumer struct {
	cfg      config.DeliveryEvents
	ingester Ingester
	dial     func(url string) (*amqp.Connection, error)
}

func NewConsumer(cfg config.DeliveryEvents, ingester Ingester) *Consumer {
	return &Consumer{
		cfg:      cfg,
		ingester: ingester,
		dial:     amqp.Dial,
	}
}

// Start conecta ao broker e consome em background até o contexto ser cancelado.
// Quedas de conexão são retomadas após reconnectDelay.
func (c *Consumer) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		log.L.Info("Consumidor de eventos de entrega desabilitado por configuração")
		return nil
	}

	deliveries, conn, err := c.connect()
	if err != nil {
		return err
	}

	go func() {
		for {
			c.consume(ctx, deliveries)
			conn.Close()

			if ctx.Err() != nil {
				log.L.Info("Parando consumidor de eventos de entrega")
				return
			}

			log.L.Warn("Canal de eventos de entrega encerrado, reconectando")
			deliveries, conn = c.reconnect(ctx)
			if deliveries == nil {
				return
			}
		}
	}()

	return nil
}

func (c *Consumer) connect() (<-chan amqp.Delivery, *amqp.Connection, error) {
	conn, err := c.dial(c.cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao conectar no RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("erro ao abrir canal: %w", err)
	}

	if c.cfg.Prefetch > 0 {
		if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("erro ao configurar prefetch: %w", err)
		}
	}

	q, err := ch.QueueDeclare(
		c.cfg.Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("erro ao declarar fila %s: %w", c.cfg.Queue, err)
	}

	deliveries, err := ch.Consume(
		q.Name,
		"",
		false, // autoAck desligado: a confirmação depende do resultado
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("erro ao registrar consumidor: %w", err)
	}

	log.L.WithFields(log.Fields{
		"queue":    q.Name,
		"prefetch": c.cfg.Prefetch,
	}).Info("Consumidor de eventos de entrega conectado")

	return deliveries, conn, nil
}

func (c *Consumer) reconnect(ctx context.Context) (<-chan amqp.Delivery, *amqp.Connection) {
	for {
		select {
		case <-ctx.Done():
			return nil, nil
		case <-time.After(reconnectDelay):
		}

		deliveries, conn, err := c.connect()
		if err == nil {
			return deliveries, conn
		}
		log.L.WithError(err).Error("Erro ao reconectar consumidor de eventos de entrega")
	}
}

func (c *Consumer) consume(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			c.process(ctx, d)
		}
	}
}

// process aplica o Outcome à mensagem
func (c *Consumer) process(ctx context.Context, d amqp.Delivery) {
	outcome := c.Handle(ctx, d.Body)

	var err error
	switch outcome {
	case OutcomeRequeue:
		err = d.Nack(false, true)
	default:
		err = d.Ack(false)
	}

	if err != nil {
		log.L.WithError(err).WithField("outcome", outcome.String()).Error("Erro ao confirmar mensagem no RabbitMQ")
	}
}

// Handle decide o destino de uma mensagem: falhas temporárias voltam para a fila,
// mensagens malformadas e rejeições de negócio são descartadas
func (c *Consumer) Handle(ctx context.Context, body []byte) Outcome {
	ctx, _ = log.WithCorrelationID(ctx)
	logger := log.ForContext(ctx)

	var event domain.DeliveryEvent
	if err := json.Unmarshal(body, &event); err != nil {
		logger.WithError(err).Warn("Evento de entrega malformado descartado")
		return OutcomeAck
	}

	logger = logger.WithFields(log.Fields{
		"campaign_id": event.CampaignID,
		"event_id":    event.EventID,
		"kind":        event.Kind,
	})

	result, err := c.ingester.IngestDeliveryEvent(ctx, event)
	if err != nil {
		if domain.IsRetryable(err) {
			logger.WithError(err).Warn("Falha temporária ao registrar evento de entrega, devolvendo para a fila")
			return OutcomeRequeue
		}

		var campaignErr *campaigning.CampaignError
		if errors.As(err, &campaignErr) {
			logger = logger.WithField("code", campaignErr.Code)
		}
		logger.WithError(err).Warn("Evento de entrega rejeitado e descartado")
		return OutcomeAck
	}

	if result.Duplicate {
		logger.Debug("Evento de entrega já registrado")
		return OutcomeAck
	}

	logger.Debug("Evento de entrega registrado")
	return OutcomeAck
}
