package booking

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrDetailsMismatch = errors.New("details do not match booking category")

// Details is the category-specific half of a booking. Exactly one variant is
// attached per booking; the category tag says which.
type Details interface {
	detailsKind() string
}

type RoomDetails struct {
	RoomID   uuid.UUID `json:"room_id"`
	RoomName string    `json:"room_name"`
	Adults   int       `json:"adults"`
	Children int       `json:"children"`
}

func (RoomDetails) detailsKind() string { return "room" }

type YogaDetails struct {
	ProgramID    uuid.UUID `json:"program_id"`
	SessionType  string    `json:"session_type"`
	Participants int       `json:"participants"`
}

func (YogaDetails) detailsKind() string { return "yoga" }

type TransportDetails struct {
	Pickup       bool   `json:"pickup"`
	Drop         bool   `json:"drop"`
	FlightNumber string `json:"flight_number,omitempty"`
}

func (TransportDetails) detailsKind() string { return "transport" }

// ServiceDetails covers adventure activities and mixed-service carts that
// have no single backing resource.
type ServiceDetails struct {
	Description string   `json:"description"`
	Activities  []string `json:"activities,omitempty"`
}

func (ServiceDetails) detailsKind() string { return "service" }

func detailsKindFor(category Category) string {
	switch category {
	case CategoryRoom:
		return "room"
	case CategoryYoga:
		return "yoga"
	case CategoryTransport:
		return "transport"
	default:
		return "service"
	}
}

type detailsEnvelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// MarshalDetails wraps the variant in a kind-tagged envelope for storage.
func MarshalDetails(d Details) ([]byte, error) {
	if d == nil {
		return nil, ErrDetailsMismatch
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return json.Marshal(detailsEnvelope{Kind: d.detailsKind(), Data: data})
}

// UnmarshalDetails restores the variant from its stored envelope.
func UnmarshalDetails(raw []byte) (Details, error) {
	var env detailsEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	switch env.Kind {
	case "room":
		var d RoomDetails
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, err
		}
		return d, nil
	case "yoga":
		var d YogaDetails
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, err
		}
		return d, nil
	case "transport":
		var d TransportDetails
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, err
		}
		return d, nil
	case "service":
		var d ServiceDetails
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown details kind %q", env.Kind)
	}
}
