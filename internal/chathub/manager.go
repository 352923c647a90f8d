package chathub

import (
	"encoding/json"
	"log"

	"faithlink/backend/internal/media"
	"faithlink/backend/internal/metrics"
	"faithlink/backend/internal/models"
	"faithlink/backend/internal/storage"
)

// InboundEvent is one client frame handed to the hub by a read pump.
type InboundEvent struct {
	Client Client
	Name   string
	Data   json.RawMessage
}

// ManagerService is the chat hub: one goroutine (Run) owns the registry
// and processes registrations, client events and event-bus deliveries
// sequentially. Everything else talks to it through the exported channels.
type ManagerService struct {
	Registry *Registry

	RegisterCh   chan Client
	UnregisterCh chan Client
	EventCh      chan InboundEvent
	// PubSubCh receives broadcast envelopes from the event bus listener
	// (storage.StartEventListener); tests feed it directly.
	PubSubCh chan models.Fanout

	Storage storage.Storage
	Media   media.Resolver
}

func NewManagerService(s storage.Storage, m media.Resolver) *ManagerService {
	return &ManagerService{
		Registry:     NewRegistry(),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		EventCh:      make(chan InboundEvent),
		PubSubCh:     make(chan models.Fanout),
		Storage:      s,
		Media:        m,
	}
}

// Run is the hub's event loop. It must be the only goroutine touching the
// registry.
func (m *ManagerService) Run() {
	for {
		select {
		case client := <-m.RegisterCh:
			m.handleRegister(client)

		case client := <-m.UnregisterCh:
			m.handleUnregister(client)

		case ev := <-m.EventCh:
			metrics.EventsTotal.WithLabelValues(ev.Name).Inc()
			m.dispatch(ev)

		case f := <-m.PubSubCh:
			m.deliver(f)
		}
	}
}

func (m *ManagerService) handleRegister(client Client) {
	if prev := m.Registry.Register(client); prev != nil {
		// Same identity connected twice: the newer connection wins.
		prev.Close()
	} else {
		metrics.ConnectedClients.Inc()
	}

	if client.GetRole() == models.RoleAdmin {
		m.Registry.JoinRoom(AdminsRoom, client)
	}
	log.Printf("client registered: %s (%s)", client.GetUserID(), client.GetRole())
}

func (m *ManagerService) handleUnregister(client Client) {
	if !m.Registry.Unregister(client) {
		// Stale disconnect from a connection that was already replaced.
		return
	}
	metrics.ConnectedClients.Dec()
	log.Printf("client unregistered: %s", client.GetUserID())

	// Offline status follows the same asymmetric rule as chat:online.
	m.broadcastStatus(client, models.StatusOffline)
}

// broadcastStatus fans out a presence change: admin status goes to every
// connection, user status only to the admins room.
func (m *ManagerService) broadcastStatus(client Client, status string) {
	scope := models.ScopeAdmins
	if client.GetRole() == models.RoleAdmin {
		scope = models.ScopeGlobal
	}
	m.publish(models.Fanout{
		Scope: scope,
		Event: models.Event{
			Name: models.EventUserStatus,
			Data: models.StatusPayload{UserID: client.GetUserID(), Status: status},
		},
	})
}

// emit sends an event to one local connection. A client whose send buffer
// is full is considered dead and dropped.
func (m *ManagerService) emit(client Client, ev models.Event) {
	select {
	case client.GetSendChannel() <- ev:
	default:
		log.Printf("dropping unresponsive client %s", client.GetUserID())
		client.Close()
		m.handleUnregister(client)
	}
}

func (m *ManagerService) emitError(client Client, msg string) {
	m.emit(client, models.Event{
		Name: models.EventError,
		Data: models.ErrorPayload{Error: msg},
	})
}

// publish pushes a broadcast envelope onto the event bus; it comes back
// through PubSubCh (here and in every other process) for local delivery.
func (m *ManagerService) publish(f models.Fanout) {
	if err := m.Storage.PublishEvent(f); err != nil {
		log.Printf("ERROR: failed to publish %s: %v", f.Event.Name, err)
		return
	}
	metrics.FanoutPublished.Inc()
}

// deliver hands an event bus envelope to the matching local connections.
func (m *ManagerService) deliver(f models.Fanout) {
	for _, client := range m.Registry.Resolve(f) {
		m.emit(client, f.Event)
	}
}
