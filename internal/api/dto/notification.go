package dto

import (
	"github.com/dojocycle/dojocycle/internal/domain/notification"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/dojocycle/dojocycle/internal/validator"
)

// RunRemindersRequest starts a reminder batch by hand. Period defaults to the current month.
type RunRemindersRequest struct {
	Period string `json:"period,omitempty" validate:"omitempty,period_key"`
	// States picks the audience; due_soon and lapsed when empty.
	States   []types.MembershipState `json:"states,omitempty"`
	Template string                  `json:"template,omitempty" validate:"omitempty,max=100"`
	Language string                  `json:"language,omitempty" validate:"omitempty,max=10"`
	// Today overrides the day the states are evaluated on.
	Today string `json:"today,omitempty" validate:"omitempty,iso_date"`
}

func (r *RunRemindersRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	for _, s := range r.States {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SendMessageRequest sends one template message to a member or a raw phone number.
type SendMessageRequest struct {
	MemberID string   `json:"member_id,omitempty" validate:"required_without=Phone"`
	Phone    string   `json:"phone,omitempty" validate:"required_without=MemberID"`
	Template string   `json:"template,omitempty" validate:"omitempty,max=100"`
	Language string   `json:"language,omitempty" validate:"omitempty,max=10"`
	Params   []string `json:"params,omitempty"`
}

func (r *SendMessageRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type SendMessageResponse struct {
	To        string `json:"to"`
	MessageID string `json:"message_id,omitempty"`
}

// ReminderBatchResult reports what one batch did.
type ReminderBatchResult struct {
	Period  string   `json:"period"`
	Sent    int      `json:"sent"`
	Failed  int      `json:"failed"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

type NotificationLogsResponse struct {
	Summary notification.Summary `json:"summary"`
	Items   []*notification.Log  `json:"items"`
}
