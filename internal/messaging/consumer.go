package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"stream-push-relay/internal/models"
)

const (
	consumerTag    = "stream-push-relay"
	processTimeout = 30 * time.Second
)

// errDeliveryClosed означает, что брокер закрыл канал доставки без вызова Stop().
var errDeliveryClosed = errors.New("rabbitmq delivery channel closed")

// EventDispatcher обрабатывает событие вебхука, полученное из очереди.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event models.WebhookEvent) (models.WebhookResponse, error)
}

// Dialer открывает новое соединение с RabbitMQ (обычно Dial с повторами).
type Dialer func() (*amqp.Connection, error)

// Consumer читает события Stream Chat из очереди RabbitMQ и передает их Processor.
// При потере соединения переподключается через dial.
type Consumer struct {
	conn           *amqp.Connection
	dial           Dialer
	logger         *zap.Logger
	queueName      string
	concurrency    int
	reconnectDelay time.Duration
	processor      *Processor
	stopChannel    chan struct{}
	stopOnce       sync.Once
	wg             sync.WaitGroup
}

// NewConsumer создает консьюмера. conn - уже открытое соединение (может быть nil,
// тогда первое соединение открывается через dial).
func NewConsumer(conn *amqp.Connection, dial Dialer, logger *zap.Logger, queueName string, concurrency int, processor *Processor) *Consumer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Consumer{
		conn:           conn,
		dial:           dial,
		logger:         logger.Named("consumer"),
		queueName:      queueName,
		concurrency:    concurrency,
		reconnectDelay: 3 * time.Second,
		processor:      processor,
		stopChannel:    make(chan struct{}),
	}
}

// Start блокируется до Stop(). Если брокер закрывает канал доставки,
// консьюмер открывает новое соединение и продолжает чтение.
// Возвращает ошибку, если очередь не удалось настроить или переподключиться.
func (c *Consumer) Start() error {
	return c.supervise(c.consume)
}

func (c *Consumer) supervise(consume func(conn *amqp.Connection) error) error {
	conn := c.conn
	for {
		if conn == nil {
			if c.dial == nil {
				return fmt.Errorf("нет соединения с RabbitMQ и не задан dialer")
			}
			var err error
			if conn, err = c.dial(); err != nil {
				return fmt.Errorf("не удалось переподключиться к RabbitMQ: %w", err)
			}
		}

		err := consume(conn)
		if conn != nil && !conn.IsClosed() {
			_ = conn.Close()
		}
		conn = nil

		if c.stopped() {
			c.logger.Info("Консьюмер остановлен")
			return nil
		}
		if !errors.Is(err, errDeliveryClosed) {
			return err
		}

		reconnectsTotal.Inc()
		c.logger.Error("Канал доставки RabbitMQ закрыт, переподключение", zap.Duration("delay", c.reconnectDelay))
		select {
		case <-c.stopChannel:
			return nil
		case <-time.After(c.reconnectDelay):
		}
	}
}

// consume объявляет очередь и читает ее до Stop() или закрытия канала доставки.
func (c *Consumer) consume(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		// Соединение уже мертвое - переподключаемся.
		c.logger.Error("Не удалось открыть канал RabbitMQ", zap.Error(err))
		return errDeliveryClosed
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		c.queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("не удалось объявить очередь '%s': %w", c.queueName, err)
	}
	c.logger.Info("Очередь объявлена", zap.String("queue", q.Name))

	if err := ch.Qos(c.concurrency, 0, false); err != nil {
		return fmt.Errorf("не удалось установить QoS: %w", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		consumerTag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("не удалось зарегистрировать консьюмера: %w", err)
	}

	c.logger.Info("Консьюмер запущен", zap.String("queue", q.Name), zap.Int("concurrency", c.concurrency))
	// Обработка идет в неотменяемом контексте: Stop() только прекращает чтение,
	// начатые отправки завершаются и подтверждаются.
	c.runWorkers(context.Background(), msgs)

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-c.stopChannel:
		c.logger.Info("Получен сигнал остановки, ожидание воркеров...")
		if err := ch.Cancel(consumerTag, false); err != nil {
			c.logger.Warn("Ошибка отмены подписки на очередь", zap.Error(err))
		}
		<-done
		c.logger.Info("Все воркеры консьюмера остановлены")
		return nil
	case <-done:
		return errDeliveryClosed
	}
}

// runWorkers запускает пул воркеров. После Stop() воркеры не берут новые сообщения;
// полученные, но не начатые доставки остаются без Ack и возвращаются брокером в очередь
// при закрытии канала.
func (c *Consumer) runWorkers(ctx context.Context, msgs <-chan amqp.Delivery) {
	c.wg.Add(c.concurrency)
	for i := 0; i < c.concurrency; i++ {
		go func(workerID int) {
			defer c.wg.Done()
			logger := c.logger.With(zap.Int("worker_id", workerID))
			for {
				select {
				case <-c.stopChannel:
					return
				case d, ok := <-msgs:
					if !ok {
						logger.Debug("Канал сообщений закрыт, воркер завершает работу")
						return
					}
					if c.stopped() {
						logger.Debug("Консьюмер остановлен, сообщение вернется в очередь", zap.Uint64("delivery_tag", d.DeliveryTag))
						return
					}
					c.processor.ProcessMessage(ctx, d)
				}
			}
		}(i)
	}
}

func (c *Consumer) stopped() bool {
	select {
	case <-c.stopChannel:
		return true
	default:
		return false
	}
}

// Stop прекращает чтение очереди; начатые сообщения обрабатываются до конца.
// Можно вызывать повторно.
func (c *Consumer) Stop() {
	c.stopOnce.Do(func() {
		c.logger.Info("Инициирована остановка консьюмера")
		close(c.stopChannel)
	})
}

// Processor разбирает одно сообщение очереди и прогоняет его через диспетчер.
// Повторных попыток нет: любая ошибка приводит к Nack без requeue.
type Processor struct {
	logger     *zap.Logger
	dispatcher EventDispatcher
}

func NewProcessor(logger *zap.Logger, dispatcher EventDispatcher) *Processor {
	return &Processor{
		logger:     logger.Named("processor"),
		dispatcher: dispatcher,
	}
}

func (p *Processor) ProcessMessage(ctx context.Context, d amqp.Delivery) {
	log := p.logger.With(zap.Uint64("delivery_tag", d.DeliveryTag))

	event, err := models.ParseWebhookEvent(d.Body)
	if err != nil {
		log.Error("Ошибка десериализации события", zap.Error(err), zap.Int("body_size", len(d.Body)))
		messagesTotal.WithLabelValues("invalid").Inc()
		p.nack(d, log)
		return
	}

	processCtx, cancel := context.WithTimeout(ctx, processTimeout)
	defer cancel()

	resp, err := p.dispatcher.Dispatch(processCtx, event)
	if err != nil {
		log.Error("Ошибка обработки события", zap.Error(err), zap.String("type", string(event.Type)))
		messagesTotal.WithLabelValues("failed").Inc()
		p.nack(d, log)
		return
	}

	if ackErr := d.Ack(false); ackErr != nil {
		log.Error("Ошибка Ack сообщения", zap.Error(ackErr))
		return
	}
	messagesTotal.WithLabelValues("acked").Inc()
	log.Info("Событие обработано", zap.String("type", string(event.Type)), zap.String("result", resp.Message))
}

func (p *Processor) nack(d amqp.Delivery, log *zap.Logger) {
	if err := d.Nack(false, false); err != nil {
		log.Error("Ошибка Nack сообщения", zap.Error(err))
	}
}
