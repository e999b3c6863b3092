package rabbitmq

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/leverads/meta-sync-api/internal/config"
	"github.com/leverads/meta-sync-api/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const EventSyncCompleted = "sync.completed"

// SyncCompletedMessage é o corpo publicado ao final de cada rodada
type SyncCompletedMessage struct {
	Event     string             `json:"event"`
	Report    *domain.SyncReport `json:"report"`
	Timestamp time.Time          `json:"timestamp"`
}

// channel é o subconjunto de *amqp.Channel usado pelo publisher
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	conn       *amqp.Connection
	channel    channel
	exchange   string
	routingKey string
	now        func() time.Time
}

func NewPublisher(cfg config.RabbitMQ) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("erro ao conectar ao rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("erro ao abrir canal: %w", err)
	}

	if err := declareTopology(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"exchange":    cfg.Exchange,
		"queue":       cfg.QueueName,
		"routing_key": cfg.RoutingKey,
	}).Info("Conectado ao RabbitMQ")

	return &Publisher{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		now:        time.Now,
	}, nil
}

// declareTopology cria exchange direct durável e a fila ligada a ela
func declareTopology(ch *amqp.Channel, cfg config.RabbitMQ) error {
	if err := ch.ExchangeDeclare(cfg.Exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("erro ao declarar exchange: %w", err)
	}

	q, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("erro ao declarar fila: %w", err)
	}

	if err := ch.QueueBind(q.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("erro ao ligar fila: %w", err)
	}

	return nil
}

func (p *Publisher) PublishSyncCompleted(ctx context.Context, report *domain.SyncReport) error {
	msg := SyncCompletedMessage{
		Event:     EventSyncCompleted,
		Report:    report,
		Timestamp: p.now().UTC(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("erro ao serializar mensagem: %w", err)
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    report.RunID,
		Body:         body,
		Timestamp:    msg.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("erro ao publicar mensagem: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"run_id":  report.RunID,
		"results": len(report.Results),
	}).Debug("Evento de sincronização publicado")

	return nil
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
