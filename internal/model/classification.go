package model

// Intent is the coarse communicative intent of an event.
type Intent string

const (
	IntentChat    Intent = "chat"
	IntentCommand Intent = "command"
	IntentUnknown Intent = "unknown"
)

// Topic is the coarse subject of an event.
type Topic string

const (
	TopicFood         Topic = "food"
	TopicWeather      Topic = "weather"
	TopicSystem       Topic = "system"
	TopicRelationship Topic = "relationship"
	TopicUnknown      Topic = "unknown"
)

// Classification is the derived intent/topic/confidence triple for an
// event. It is never persisted independently.
type Classification struct {
	Intent     Intent  `json:"intent"`
	Topic      Topic   `json:"topic"`
	Confidence float64 `json:"confidence"`
}
