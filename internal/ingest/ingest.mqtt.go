// FilePath: internal/ingest/ingest.mqtt.go
package ingest

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/roadvision/store/internal/config"
	"github.com/roadvision/store/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const (
	handleTimeout  = 10 * time.Second
	connectTimeout = 10 * time.Second
)

var newClient = mqtt.NewClient

// Creator stores a submission; satisfied by *agentservice.AgentService
type Creator interface {
	Create(ctx context.Context, req *models.ProcessedAgentDataRequest) (*models.ProcessedAgentDataInDB, error)
}

// MQTTIngestor feeds agent submissions published on an MQTT topic into the
// same create path as the HTTP API.
type MQTTIngestor struct {
	client  mqtt.Client
	creator Creator
	topic   string
	qos     byte
}

// NewMQTTIngestor connects to the broker and subscribes on every connect.
func NewMQTTIngestor(cfg config.MQTTConfig, creator Creator) (*MQTTIngestor, error) {
	o := mqtt.NewClientOptions()
	o.AddBroker(cfg.BrokerURL)
	o.SetClientID(cfg.ClientID)
	o.SetConnectRetry(true)
	o.SetConnectRetryInterval(2 * time.Second)
	o.SetAutoReconnect(true)

	ing := &MQTTIngestor{
		creator: creator,
		topic:   cfg.Topic,
		qos:     cfg.QoS,
	}
	// Resubscribe after every reconnect; the broker drops non-persistent sessions.
	o.SetOnConnectHandler(func(c mqtt.Client) {
		if err := ing.subscribe(c); err != nil {
			nuts.L.Errorf("[MQTT] %v", err)
		}
	})

	c := newClient(o)
	token := c.Connect()
	if token.WaitTimeout(connectTimeout) && token.Error() != nil {
		// Stops the retry loop started by SetConnectRetry.
		c.Disconnect(0)
		return nil, fmt.Errorf("error connecting to MQTT broker %s: %w", cfg.BrokerURL, token.Error())
	}
	ing.client = c

	nuts.L.Infof("[MQTT] Connected to %s", cfg.BrokerURL)
	return ing, nil
}

func (i *MQTTIngestor) subscribe(c mqtt.Client) error {
	token := c.Subscribe(i.topic, i.qos, i.HandleMessage)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", i.topic, err)
	}
	nuts.L.Infof("[MQTT] Subscribed to topic %s", i.topic)
	return nil
}

// HandleMessage decodes one payload and creates a record from it. Invalid
// payloads are logged and dropped.
func (i *MQTTIngestor) HandleMessage(_ mqtt.Client, msg mqtt.Message) {
	req, err := models.DecodeProcessedAgentDataRequest(msg.Payload())
	if err != nil {
		nuts.L.Warnf("[MQTT] Dropping message on %s: %v", msg.Topic(), err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	created, err := i.creator.Create(ctx, req)
	if err != nil {
		nuts.L.Warnf("[MQTT] Failed to store message from %s: %v", msg.Topic(), err)
		return
	}
	nuts.L.Infof("[MQTT] Stored processed agent data %d from %s", created.ID, msg.Topic())
}

// Close unsubscribes and disconnects
func (i *MQTTIngestor) Close() {
	if i.client == nil {
		return
	}
	if token := i.client.Unsubscribe(i.topic); token.WaitTimeout(2*time.Second) && token.Error() != nil {
		nuts.L.Warnf("[MQTT] Failed to unsubscribe from %s: %v", i.topic, token.Error())
	}
	i.client.Disconnect(250)
	nuts.L.Infof("[MQTT] Disconnected")
}
