package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picogrid/convoy-tracker/pkg/domain"
	"github.com/picogrid/convoy-tracker/pkg/events"
	"github.com/picogrid/convoy-tracker/pkg/models"
)

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/graphql/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func initConn(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(models.WSMessage{Type: models.MsgConnectionInit}))
	var msg models.WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, models.MsgConnectionAck, msg.Type)
}

func subscribeWS(t *testing.T, conn *websocket.Conn, id, query string, variables map[string]interface{}) {
	t.Helper()
	vars := make(map[string]json.RawMessage, len(variables))
	for k, v := range variables {
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		vars[k] = raw
	}
	payload, err := json.Marshal(models.OperationRequest{Query: query, Variables: vars})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(models.WSMessage{ID: id, Type: models.MsgSubscribe, Payload: payload}))
}

// readNext drains control messages until a next for the given stream id
// arrives, then returns its data map.
func readNext(t *testing.T, conn *websocket.Conn, id string) map[string]interface{} {
	t.Helper()
	for {
		var msg models.WSMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == models.MsgError {
			t.Fatalf("subscription error: %s", string(msg.Payload))
		}
		if msg.Type != models.MsgNext || msg.ID != id {
			continue
		}
		var payload models.NextPayload
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		return payload.Data
	}
}

// awaitSubscriber blocks until the topic sees its subscriber, so that a
// test publish cannot race the subscribe control message.
func awaitSubscriber(t *testing.T, count func() int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription never attached to its topic")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSubscriptionHandshake(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dialWS(t, ts)
	initConn(t, conn)

	require.NoError(t, conn.WriteJSON(models.WSMessage{Type: models.MsgPing}))
	var msg models.WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, models.MsgPong, msg.Type)
}

func TestHeartbeatSubscription(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dialWS(t, ts)
	initConn(t, conn)

	subscribeWS(t, conn, "hb-1", `subscription { heartbeat }`, nil)
	data := readNext(t, conn, "hb-1")
	stamp, ok := data["heartbeat"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, stamp)
	assert.NoError(t, err)
}

func TestEngagementEventsConvoyFilter(t *testing.T) {
	ts, broker := newTestServer(t)
	conn := dialWS(t, ts)
	initConn(t, conn)

	convoyID := uuid.New()
	otherConvoy := uuid.New()
	subscribeWS(t, conn, "eng-1", `subscription { engagementEvents(convoy_id: $convoy_id) }`,
		map[string]interface{}{"convoy_id": convoyID.String()})
	awaitSubscriber(t, broker.Engagements.SubscriberCount)

	broker.Engagements.Publish(events.EngagementEvent{
		ConvoyID: otherConvoy, DroneID: uuid.New(), Callsign: "GHOST-01",
		Hit: false, WeaponType: domain.WeaponAGM114Hellfire, Timestamp: time.Now(),
	})
	broker.Engagements.Publish(events.EngagementEvent{
		ConvoyID: convoyID, DroneID: uuid.New(), Callsign: "ALPHA-01",
		Hit: true, WeaponType: domain.WeaponAGM114Hellfire, NewAccuracyPct: 100, Timestamp: time.Now(),
	})

	data := readNext(t, conn, "eng-1")
	ev, ok := data["engagementEvents"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, convoyID.String(), ev["convoy_id"])
	assert.Equal(t, "ALPHA-01", ev["callsign"])
	assert.Equal(t, true, ev["hit"])
}

func TestAlertsSeverityFilter(t *testing.T) {
	ts, broker := newTestServer(t)
	conn := dialWS(t, ts)
	initConn(t, conn)

	convoyID := uuid.New()
	subscribeWS(t, conn, "alerts-1",
		`subscription { alerts(convoy_id: $convoy_id, min_severity: $min_severity) }`,
		map[string]interface{}{"convoy_id": convoyID.String(), "min_severity": "WARNING"})
	awaitSubscriber(t, broker.Alerts.SubscriberCount)

	broker.Alerts.Publish(events.AlertEvent{
		AlertID: uuid.New(), ConvoyID: convoyID,
		Severity: domain.SeverityInfo, AlertType: "STATUS", Message: "routine", Timestamp: time.Now(),
	})
	broker.Alerts.Publish(events.AlertEvent{
		AlertID: uuid.New(), ConvoyID: convoyID,
		Severity: domain.SeverityWarning, AlertType: "LOW_FUEL", Message: "fuel low", Timestamp: time.Now(),
	})

	data := readNext(t, conn, "alerts-1")
	ev, ok := data["alerts"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "WARNING", ev["severity"])
	assert.Equal(t, "LOW_FUEL", ev["alert_type"])
}

func TestCompleteStopsSubscription(t *testing.T) {
	ts, broker := newTestServer(t)
	conn := dialWS(t, ts)
	initConn(t, conn)

	subscribeWS(t, conn, "rank-1", `subscription { rankingUpdates(convoy_id: $convoy_id) }`,
		map[string]interface{}{"convoy_id": uuid.New().String()})
	awaitSubscriber(t, broker.Rankings.SubscriberCount)

	require.NoError(t, conn.WriteJSON(models.WSMessage{ID: "rank-1", Type: models.MsgComplete}))

	deadline := time.Now().Add(2 * time.Second)
	for broker.Rankings.SubscriberCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription still attached after complete")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
