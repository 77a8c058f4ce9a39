package request

type CreateRescheduleRequest struct {
	SessionID       string  `json:"session_id" validate:"required,uuid4"`
	PreferredDate   string  `json:"preferred_date" validate:"required,datetime=2006-01-02"`
	PreferredTime   string  `json:"preferred_time" validate:"required,hhmm"`
	AlternativeDate *string `json:"alternative_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AlternativeTime *string `json:"alternative_time,omitempty" validate:"omitempty,hhmm"`
	Reason          string  `json:"reason" validate:"required,min=3"`
}

type RespondRescheduleRequest struct {
	Accept          bool    `json:"accept"`
	UseAlternative  bool    `json:"use_alternative"`
	ResponseMessage *string `json:"response_message,omitempty"`
}
