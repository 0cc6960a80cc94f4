/*
File Name:  OutputBus.go
Copyright:  2021 Peernet s.r.o.
Author:     Peter Kleissner
*/
package core

import (
	"sync"

	"github.com/google/uuid"
)

// outputBus fans formatted notice lines out to every current
// subscriber, each identified by a uuid so it can unsubscribe itself
// later. Several independent observers (the terminal today, perhaps a
// log-file writer later) can receive the same notice stream without
// the core hard-wiring os.Stdout.
type outputBus struct {
	mu   sync.Mutex
	subs map[uuid.UUID]chan string
}

func newOutputBus() *outputBus {
	return &outputBus{subs: make(map[uuid.UUID]chan string)}
}

// subscribe registers a new observer and returns its id and the
// channel it will receive lines on.
func (o *outputBus) subscribe() (uuid.UUID, <-chan string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := uuid.New()
	ch := make(chan string, 64)
	o.subs[id] = ch
	return id, ch
}

// unsubscribe removes and closes the channel registered under id.
func (o *outputBus) unsubscribe(id uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if ch, ok := o.subs[id]; ok {
		close(ch)
		delete(o.subs, id)
	}
}

// publish fans line out to every current subscriber, dropping it for
// any subscriber whose buffer is currently full rather than blocking.
func (o *outputBus) publish(line string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, ch := range o.subs {
		select {
		case ch <- line:
		default:
		}
	}
}
