package myevents

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventEnvelope(t *testing.T) {
	envelope := EventEnvelope{
		UID:           "abc",
		Topic:         "basket",
		AggregateUID:  "s1",
		EventTypeName: "basket.created",
		EventPayload:  `{"SessionID":"s1"}`,
		Published:     true,
	}

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "basket.created(s1)#abc", envelope.String())
	})

	t.Run("Trigger path", func(t *testing.T) {
		assert.Equal(t, "/pubsub/basket/abc", envelope.TriggerPath())
	})

	t.Run("Wire format leaves out outbox state", func(t *testing.T) {
		jsonBytes, err := json.Marshal(envelope)
		assert.NoError(t, err)

		parsed := map[string]any{}
		assert.NoError(t, json.Unmarshal(jsonBytes, &parsed))
		assert.Equal(t, "s1", parsed["aggregateUid"])
		assert.Equal(t, "basket.created", parsed["eventTypeName"])
		assert.NotContains(t, parsed, "published")
		assert.NotContains(t, parsed, "Published")
	})
}
