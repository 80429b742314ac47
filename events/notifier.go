package events

import "log"

// Notifier publica eventos de negócio para observadores externos.
// A publicação acontece no momento do commit da transição e é
// fire-and-forget: falha de entrega nunca desfaz a transição.
type Notifier interface {
	Publish(event any)
}

// LogNotifier escreve os eventos no log do processo. É a implementação
// padrão enquanto não há um barramento de eventos real.
type LogNotifier struct{}

// NewLogNotifier cria um notificador baseado em log.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Publish registra o evento no log.
func (n *LogNotifier) Publish(event any) {
	log.Printf("evento: %+v", event)
}
