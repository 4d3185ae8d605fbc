package display

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/lucasb-eyer/go-colorful"
)

// A Publisher sends messages to an MQTT broker. mqtt.Client implements it.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// A Subscriber receives messages from an MQTT broker. mqtt.Client implements it.
type Subscriber interface {
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
}

// MQTTDisplay is a remote display. Every change is published as a retained
// JSON Frame so that a display joining late shows the current value.
type MQTTDisplay struct {
	client Publisher
	topic  string
	qos    byte

	mu    sync.Mutex
	frame Frame
}

// NewMQTTDisplay creates a display publishing to topic.
func NewMQTTDisplay(client Publisher, topic string, qos byte) *MQTTDisplay {
	d := new(MQTTDisplay)
	d.client = client
	d.topic = topic
	d.qos = qos
	return d
}

// Text returns the text last published.
func (d *MQTTDisplay) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame.Text
}

// SetText publishes s. It does not wait for the broker.
func (d *MQTTDisplay) SetText(s string) {
	d.mu.Lock()
	d.frame.Text = s
	frame := d.frame
	d.mu.Unlock()

	d.publish(frame)
}

// SetTint colours the next published frame.
func (d *MQTTDisplay) SetTint(c colorful.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frame.Colour = c
	d.frame.Tinted = true
}

func (d *MQTTDisplay) publish(f Frame) {
	b, err := json.Marshal(f)
	if err != nil {
		log.Printf("Failed to encode frame: %v", err)
		return
	}
	token := d.client.Publish(d.topic, d.qos, true, b)
	go func() {
		<-token.Done()
		if err := token.Error(); err != nil {
			log.Printf("Publish to %s failed: %v", d.topic, err)
		}
	}()
}

// Command asks for the display to be animated to a new value.
type Command struct {
	To float64 `json:"to"`
	// Duration in seconds. Zero means the configured default.
	Duration float64 `json:"duration,omitempty"`
	Easing   string  `json:"easing,omitempty"`
}

// Commands delivers animation requests received on an MQTT topic.
type Commands struct {
	client Subscriber
	topic  string
	C      chan Command
}

// NewCommands creates a Commands for topic. Call Subscribe once connected.
func NewCommands(client Subscriber, topic string) *Commands {
	c := new(Commands)
	c.client = client
	c.topic = topic
	c.C = make(chan Command, 16)
	return c
}

// Subscribe registers with the broker and waits for it to acknowledge.
func (c *Commands) Subscribe() error {
	token := c.client.Subscribe(c.topic, 0, c.handleMessage)
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

var errMissingTarget = errors.New("command has no target")

func (c *Commands) handleMessage(client mqtt.Client, msg mqtt.Message) {
	log.Printf("Received msg %d on %s: %s", msg.MessageID(), msg.Topic(), msg.Payload())

	cmd, err := decodeCommand(msg.Payload())
	if err != nil {
		log.Printf("Dropping command: %v", err)
		return
	}

	select {
	case c.C <- cmd:
	default:
		log.Printf("Dropping command, queue full: %+v", cmd)
	}
}

func decodeCommand(payload []byte) (Command, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Command{}, err
	}
	if _, ok := raw["to"]; !ok {
		return Command{}, errMissingTarget
	}
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return Command{}, err
	}
	return cmd, nil
}
