package pkg

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/gfiorelli/deltarank/utils"
)

// Router delivers event envelopes between worker partitions over
// RabbitMQ. Every worker consumes its own queue and publishes to the
// queue of whichever worker owns the event's node, so node state is
// only ever touched by its owner.
type Router struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	queues []amqp.Queue
	self   int
	tag    string
}

// NewRouter connects to RabbitMQ at url and declares one queue per
// worker in the partition group.
func NewRouter(url string, workers, self int) (*Router, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not open a channel to RabbitMQ: %w", err)
	}
	r := &Router{
		conn: conn,
		ch:   ch,
		self: self,
		tag:  uuid.NewString(),
	}
	for i := 0; i < workers; i++ {
		queue, err := declareQueue(workerQueueName(i), ch)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("could not declare queue for worker %d: %w", i, err)
		}
		r.queues = append(r.queues, queue)
	}
	return r, nil
}

func workerQueueName(worker int) string {
	return fmt.Sprintf("deltarank.worker.%d", worker)
}

func declareQueue(name string, ch *amqp.Channel) (queue amqp.Queue, err error) {
	queue, err = ch.QueueDeclare(
		name,  // name
		false, // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return
	}
	if err = ch.Qos(1, 0, false); err != nil {
		return
	}
	return
}

// Publish sends env to the queue owned by worker.
func (r *Router) Publish(worker int, env Envelope) error {
	if worker < 0 || worker >= len(r.queues) {
		return fmt.Errorf("no queue for worker %d", worker)
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("could not marshal envelope: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.ch.PublishWithContext(ctx,
		"",                     // exchange
		r.queues[worker].Name,  // routing key
		false,                  // mandatory
		false,                  // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         data,
		})
}

// Consume registers this worker's queue consumer and dispatches each
// envelope to handler in a background goroutine. Malformed payloads are
// dropped without requeue; handler errors are logged and acked, since
// redelivery of a stale time could never become valid.
func (r *Router) Consume(handler func(Envelope) error) error {
	msgs, err := r.ch.Consume(
		r.queues[r.self].Name, // queue
		r.tag,                 // consumer
		false,                 // auto-ack
		false,                 // exclusive
		false,                 // no-local
		false,                 // no-wait
		nil,                   // args
	)
	if err != nil {
		return fmt.Errorf("could not register a consumer: %w", err)
	}
	go func() {
		for d := range msgs {
			var env Envelope
			if err := json.Unmarshal(d.Body, &env); err != nil {
				utils.WarnLog("router", "dropping malformed envelope: %v", err)
				if err := d.Nack(false, false); err != nil {
					utils.WarnLog("router", "could not NACK message: %v", err)
				}
				continue
			}
			if err := handler(env); err != nil {
				utils.WarnLog("router", "envelope at time %d not applied: %v", env.Time, err)
			}
			if err := d.Ack(false); err != nil {
				utils.WarnLog("router", "could not ACK message: %v", err)
			}
		}
	}()
	return nil
}

func (r *Router) Close() {
	if r.ch != nil {
		r.ch.Close()
	}
	if r.conn != nil {
		r.conn.Close()
	}
}
