package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitEvent_DeliversInEmissionOrder(t *testing.T) {
	var (
		mu       sync.Mutex
		received []Type
		wg       sync.WaitGroup
	)

	record := func(eventType Type) func(msg interface{}) {
		return func(msg interface{}) {
			mu.Lock()
			received = append(received, eventType)
			mu.Unlock()
			wg.Done()
		}
	}

	AddEventListener(ItemListedEvent, record(ItemListedEvent))
	AddEventListener(ItemSoldEvent, record(ItemSoldEvent))

	rounds := 500
	expected := make([]Type, 0, rounds*2)

	wg.Add(rounds * 2)
	for i := 0; i < rounds; i++ {
		EmitEvent(ItemListedEvent, i)
		EmitEvent(ItemSoldEvent, i)
		expected = append(expected, ItemListedEvent, ItemSoldEvent)
	}
	wg.Wait()

	assert.Equal(t, expected, received)
}
