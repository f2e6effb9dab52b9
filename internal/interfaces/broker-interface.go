package interfaces

// EventPublisher pushes domain events to the message broker. A nil
// publisher is allowed; callers treat publishing as best-effort.
type EventPublisher interface {
	PublishMessage(key, value []byte) error
}
