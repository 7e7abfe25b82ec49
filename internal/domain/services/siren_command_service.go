package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"
	"github.com/Cocorine/backend-sirene-ecole/pkg/logger"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// MQTT topics per device serial.
const (
	topicActivation = "sirene/%s/activation"
	topicSchedule   = "sirene/%s/programmation"
	topicStatus     = "sirene/%s/status"
)

// ScheduleEntry is one slot of the schedule pushed to a device.
type ScheduleEntry struct {
	Nom                string   `json:"nom"`
	HeureDeclenchement string   `json:"heure_declenchement"`
	DureeSecondes      int      `json:"duree_secondes"`
	JoursSemaine       []string `json:"jours_semaine"`
}

// InterfaceSirenCommandService defines the device command channel interface
type InterfaceSirenCommandService interface {
	Connect() error
	Disconnect()
	PublishActivation(numeroSerie string, dureeSecondes int) error
	PublishSchedule(numeroSerie string, programmations []models.Programmation) error
	PublishStatusRequest(numeroSerie string) error
}

// SirenCommandService pushes commands and schedules to siren devices over
// MQTT.
type SirenCommandService struct {
	Client   mqtt.Client
	Config   *config.Config
	pubMutex sync.Mutex
}

// NewSirenCommandService creates and configures the MQTT command service.
// The client connects lazily on first publish.
func NewSirenCommandService(cfg *config.Config) InterfaceSirenCommandService {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTBrokerURL)
	// unique client id so multiple backend instances never clash
	opts.SetClientID(fmt.Sprintf("%s-%s", cfg.MQTTClientID, uuid.New().String()[:8]))
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetCleanSession(true)
	if cfg.MQTTUsername != "" {
		opts.SetUsername(cfg.MQTTUsername)
		opts.SetPassword(cfg.MQTTPassword)
	}
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		logger.Warning("mqtt connection lost: %v", err)
	})
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		logger.Info("mqtt connected to %s", cfg.MQTTBrokerURL)
	})

	return &SirenCommandService{
		Client: mqtt.NewClient(opts),
		Config: cfg,
	}
}

// 1. Connect establishes the broker connection with retries
func (s *SirenCommandService) Connect() error {
	if s.Client.IsConnected() {
		return nil
	}
	maxRetries := 5
	var err error
	for i := 0; i < maxRetries; i++ {
		token := s.Client.Connect()
		if token.WaitTimeout(5*time.Second) && token.Error() == nil {
			return nil
		}
		err = token.Error()
		backoff := time.Duration(1<<uint(i)) * time.Second
		logger.Warning("mqtt connect attempt %d/%d failed: %v, retrying in %v", i+1, maxRetries, err, backoff)
		time.Sleep(backoff)
	}
	return fmt.Errorf("mqtt connect failed after %d attempts: %w", maxRetries, err)
}

// 2. Disconnect closes the broker connection
func (s *SirenCommandService) Disconnect() {
	if s.Client != nil && s.Client.IsConnected() {
		s.Client.Disconnect(250)
	}
}

// 3. PublishActivation triggers a device for the given duration
func (s *SirenCommandService) PublishActivation(numeroSerie string, dureeSecondes int) error {
	return s.publish(fmt.Sprintf(topicActivation, numeroSerie), map[string]interface{}{
		"commande":       "activer",
		"duree_secondes": dureeSecondes,
		"emis_a":         time.Now().Format(time.RFC3339),
	})
}

// 4. PublishSchedule pushes the effective schedule of a device
func (s *SirenCommandService) PublishSchedule(numeroSerie string, programmations []models.Programmation) error {
	entries := make([]ScheduleEntry, 0, len(programmations))
	for _, p := range programmations {
		entries = append(entries, ScheduleEntry{
			Nom:                p.Nom,
			HeureDeclenchement: p.HeureDeclenchement,
			DureeSecondes:      p.DureeSecondes,
			JoursSemaine:       p.JoursSemaine,
		})
	}
	return s.publish(fmt.Sprintf(topicSchedule, numeroSerie), map[string]interface{}{
		"programmations": entries,
		"emis_a":         time.Now().Format(time.RFC3339),
	})
}

// 5. PublishStatusRequest asks a device to report its status
func (s *SirenCommandService) PublishStatusRequest(numeroSerie string) error {
	return s.publish(fmt.Sprintf(topicStatus, numeroSerie), map[string]interface{}{
		"commande": "status",
		"emis_a":   time.Now().Format(time.RFC3339),
	})
}

func (s *SirenCommandService) publish(topic string, payload interface{}) error {
	s.pubMutex.Lock()
	defer s.pubMutex.Unlock()

	if !s.Client.IsConnected() {
		if err := s.Connect(); err != nil {
			return err
		}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	token := s.Client.Publish(topic, byte(s.Config.MQTTQoS), s.Config.MQTTRetained, raw)
	if !token.WaitTimeout(3 * time.Second) {
		return fmt.Errorf("mqtt publish to %s timed out", topic)
	}
	if token.Error() != nil {
		return token.Error()
	}
	logger.Info("mqtt message published to %s", topic)
	return nil
}
