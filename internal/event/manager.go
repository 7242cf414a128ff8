package event

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mtx       sync.Mutex
	listeners = make([]Listener, 0)

	queue      = make(chan emission, 256)
	dispatcher sync.Once
)

type Listener struct {
	eventType Type
	callback  func(msg interface{})
}

type emission struct {
	eventType Type
	msg       interface{}
}

func AddEventListener(eventType Type, callback func(msg interface{})) {
	zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: AddListener")

	mtx.Lock()
	defer mtx.Unlock()

	listeners = append(listeners, Listener{eventType, callback})
}

// EmitEvent queues the event for delivery. A single dispatcher drains the
// queue and invokes listeners in turn, so every listener observes events in
// emission order: the projection depends on a listing arriving before the
// sale of the same item. A full queue blocks the emitter until the
// dispatcher catches up.
func EmitEvent(eventType Type, msg interface{}) {
	dispatcher.Do(startDispatcher)

	zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: Emitting event")

	queue <- emission{eventType, msg}
}

func startDispatcher() {
	go func() {
		for e := range queue {
			mtx.Lock()
			subscribed := make([]Listener, len(listeners))
			copy(subscribed, listeners)
			mtx.Unlock()

			for _, listener := range subscribed {
				if listener.eventType == e.eventType {
					listener.callback(e.msg)
				}
			}
		}
	}()
}
