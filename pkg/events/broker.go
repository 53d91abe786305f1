package events

import "github.com/picogrid/convoy-tracker/pkg/domain"

// Broker bundles the process-wide topics, one per event kind. Filtering
// by convoy, asset, or severity happens on the subscriber side.
type Broker struct {
	Engagements *Topic[EngagementEvent]
	Rankings    *Topic[RankingUpdateEvent]
	AssetStatus *Topic[AssetStatusEvent]
	Alerts      *Topic[AlertEvent]
	Telemetry   *Topic[domain.Telemetry]
}

// NewBroker creates all topics with the default buffer.
func NewBroker() *Broker {
	return &Broker{
		Engagements: NewTopic[EngagementEvent](DefaultBufferSize),
		Rankings:    NewTopic[RankingUpdateEvent](DefaultBufferSize),
		AssetStatus: NewTopic[AssetStatusEvent](DefaultBufferSize),
		Alerts:      NewTopic[AlertEvent](DefaultBufferSize),
		Telemetry:   NewTopic[domain.Telemetry](DefaultBufferSize),
	}
}

// Close shuts every topic down, terminating all subscriptions.
func (b *Broker) Close() {
	b.Engagements.Close()
	b.Rankings.Close()
	b.AssetStatus.Close()
	b.Alerts.Close()
	b.Telemetry.Close()
}
