package request

import (
	"strings"
	"time"

	"palmgrove-bookings/internal/usecase/commands"

	"github.com/google/uuid"
)

type SelectionRequest struct {
	Kind       string     `json:"kind" binding:"required"`
	ResourceID *uuid.UUID `json:"resource_id,omitempty"`
	Count      int        `json:"count,omitempty"`
	Days       int        `json:"days,omitempty"`
}

type RoomRequest struct {
	RoomID   uuid.UUID `json:"room_id" binding:"required"`
	RoomName string    `json:"room_name"`
}

type YogaRequest struct {
	ProgramID    uuid.UUID `json:"program_id" binding:"required"`
	SessionType  string    `json:"session_type"`
	Participants int       `json:"participants"`
}

type TransportRequest struct {
	FlightNumber string `json:"flight_number,omitempty"`
}

type ServiceRequest struct {
	Description string   `json:"description"`
	Activities  []string `json:"activities,omitempty"`
}

type CreateBookingRequest struct {
	GuestName     string             `json:"guest_name" binding:"required"`
	GuestEmail    string             `json:"guest_email"`
	GuestPhone    string             `json:"guest_phone"`
	GuestAddress  string             `json:"guest_address"`
	CheckIn       time.Time          `json:"check_in" binding:"required"`
	CheckOut      time.Time          `json:"check_out" binding:"required"`
	Adults        int                `json:"adults" binding:"required"`
	ChildAges     []int              `json:"child_ages,omitempty"`
	Selections    []SelectionRequest `json:"selections" binding:"required,min=1"`
	CouponCode    *string            `json:"coupon_code,omitempty"`
	RequireCoupon bool               `json:"require_coupon,omitempty"`
	Room          *RoomRequest       `json:"room,omitempty"`
	Yoga          *YogaRequest       `json:"yoga,omitempty"`
	Transport     *TransportRequest  `json:"transport,omitempty"`
	Service       *ServiceRequest    `json:"service,omitempty"`
}

func (r CreateBookingRequest) GetCouponCode() *string {
	if r.CouponCode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.CouponCode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (r CreateBookingRequest) ToParams() commands.CreateBookingParams {
	params := commands.CreateBookingParams{
		GuestName:     strings.TrimSpace(r.GuestName),
		GuestEmail:    strings.TrimSpace(r.GuestEmail),
		GuestPhone:    strings.TrimSpace(r.GuestPhone),
		GuestAddress:  strings.TrimSpace(r.GuestAddress),
		CheckIn:       r.CheckIn,
		CheckOut:      r.CheckOut,
		Adults:        r.Adults,
		ChildAges:     r.ChildAges,
		CouponCode:    r.GetCouponCode(),
		RequireCoupon: r.RequireCoupon,
	}

	params.Selections = make([]commands.SelectionInput, len(r.Selections))
	for i, sel := range r.Selections {
		params.Selections[i] = commands.SelectionInput{
			Kind:       sel.Kind,
			ResourceID: sel.ResourceID,
			Count:      sel.Count,
			Days:       sel.Days,
		}
	}

	if r.Room != nil {
		params.Room = &commands.RoomInput{RoomID: r.Room.RoomID, RoomName: r.Room.RoomName}
	}
	if r.Yoga != nil {
		params.Yoga = &commands.YogaInput{
			ProgramID:    r.Yoga.ProgramID,
			SessionType:  r.Yoga.SessionType,
			Participants: r.Yoga.Participants,
		}
	}
	if r.Transport != nil {
		params.Transport = &commands.TransportInput{FlightNumber: r.Transport.FlightNumber}
	}
	if r.Service != nil {
		params.Service = &commands.ServiceInput{
			Description: r.Service.Description,
			Activities:  r.Service.Activities,
		}
	}

	return params
}
