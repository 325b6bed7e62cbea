// Package rabbitmq carries console notification events to the message queue
// the notification center consumes.
package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/streadway/amqp"
)

const notificationQueue = "admin_notifications"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// Notification is the message body published for one console notification.
type Notification struct {
	Level   string    `json:"level"`
	Event   string    `json:"event"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// NewClient creates a new RabbitMQ client. It connects to RabbitMQ, opens a
// channel and declares the notification queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close() // Close connection if channel creation fails
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		notificationQueue, // name
		true,              // durable (persists messages across broker restarts)
		false,             // delete when unused
		false,             // exclusive
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s queue: %w", notificationQueue, err)
	}

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishNotification publishes one console notification to the notification
// queue. The message is marshaled to JSON and made persistent.
func (c *Client) PublishNotification(level, event, message string) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(Notification{
		Level:   level,
		Event:   event,
		Message: message,
		Time:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification to JSON: %w", err)
	}

	err = c.channel.Publish(
		"",                // exchange: default exchange
		notificationQueue, // routing key: the queue name
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Make message persistent
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// ConsumeNotifications starts a goroutine that feeds queued notifications to
// messageHandler, acking on success and nacking (with requeue) on failure.
func (c *Client) ConsumeNotifications(messageHandler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := c.channel.QueueDeclare(
		notificationQueue, // name
		true,              // durable
		false,             // delete when unused
		false,             // exclusive
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue for consuming: %w", err)
	}

	msgs, err := c.channel.Consume(
		queue.Name, // queue
		"",         // consumer tag
		false,      // auto-ack: manual acknowledgement
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := messageHandler(msg); err != nil {
				log.Printf("Error processing notification %d: %v", msg.DeliveryTag, err)
				if requeueErr := msg.Nack(false, true); requeueErr != nil {
					log.Printf("Error nacking message %d: %v", msg.DeliveryTag, requeueErr)
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				log.Printf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
			}
		}
	}()

	return nil
}
