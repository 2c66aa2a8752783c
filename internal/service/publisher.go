package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/uniseats/lecture-seat-reservation/internal/queue"
)

// PublishLoginLink places a login mail job on the login.link queue.  The
// message is persistent so a queued link survives a broker restart.
// Errors are logged and returned; the caller decides whether to fall back
// to direct delivery.
func PublishLoginLink(ctx context.Context, ev queue.LoginLinkEvent) error {
	return publishJSON(ctx, queue.LoginLinkQueue, ev)
}

// PublishRegistrationRecorded places a registration audit event on the
// registration.recorded queue.  Callers treat failures as non-fatal: the
// ledger row is already committed when this runs.
func PublishRegistrationRecorded(ctx context.Context, ev queue.RegistrationRecordedEvent) error {
	return publishJSON(ctx, queue.RegistrationQueue, ev)
}

// publishJSON dials the broker, declares the durable queue and publishes
// one persistent JSON message on the default exchange.  A connection per
// publish keeps the publisher free of shared state; the volume here is a
// handful of messages per lecture day.
func publishJSON(ctx context.Context, queueName string, payload any) error {
	conn, err := amqp.Dial(queue.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("rabbitmq: marshal payload failed: %v", err)
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
