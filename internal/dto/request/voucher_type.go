package request

type BookingRuleRequest struct {
	Enabled   bool   `json:"enabled"`
	StartTime string `json:"start_time,omitempty" validate:"omitempty,hhmm"`
	EndTime   string `json:"end_time,omitempty" validate:"omitempty,hhmm"`
}

type BookingRulesRequest struct {
	Monday    BookingRuleRequest `json:"monday"`
	Tuesday   BookingRuleRequest `json:"tuesday"`
	Wednesday BookingRuleRequest `json:"wednesday"`
	Thursday  BookingRuleRequest `json:"thursday"`
	Friday    BookingRuleRequest `json:"friday"`
	Saturday  BookingRuleRequest `json:"saturday"`
	Sunday    BookingRuleRequest `json:"sunday"`
}

type CreateVoucherTypeRequest struct {
	Name                   string              `json:"name" validate:"required,min=2,max=200"`
	SessionName            string              `json:"session_name" validate:"required,min=2,max=200"`
	Description            *string             `json:"description,omitempty"`
	TotalSessions          int                 `json:"total_sessions" validate:"required,gt=0"`
	BackupSessions         int                 `json:"backup_sessions" validate:"gte=0"`
	SessionDurationMinutes int                 `json:"session_duration_minutes" validate:"required,gt=0"`
	MaxClientsPerSession   int                 `json:"max_clients_per_session" validate:"required,gt=0"`
	Frequency              string              `json:"frequency" validate:"required,oneof=daily weekly biweekly custom"`
	CustomDays             []int               `json:"custom_days,omitempty" validate:"omitempty,dive,min=1,max=7"`
	Price                  float64             `json:"price" validate:"required,gt=0"`
	ValidityDays           int                 `json:"validity_days" validate:"required,gt=0"`
	BookingRules           BookingRulesRequest `json:"booking_rules"`
}

type UpdateVoucherTypeRequest struct {
	Name                   *string              `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	SessionName            *string              `json:"session_name,omitempty" validate:"omitempty,min=2,max=200"`
	Description            *string              `json:"description,omitempty"`
	TotalSessions          *int                 `json:"total_sessions,omitempty" validate:"omitempty,gt=0"`
	BackupSessions         *int                 `json:"backup_sessions,omitempty" validate:"omitempty,gte=0"`
	SessionDurationMinutes *int                 `json:"session_duration_minutes,omitempty" validate:"omitempty,gt=0"`
	MaxClientsPerSession   *int                 `json:"max_clients_per_session,omitempty" validate:"omitempty,gt=0"`
	Frequency              *string              `json:"frequency,omitempty" validate:"omitempty,oneof=daily weekly biweekly custom"`
	CustomDays             []int                `json:"custom_days,omitempty" validate:"omitempty,dive,min=1,max=7"`
	Price                  *float64             `json:"price,omitempty" validate:"omitempty,gt=0"`
	ValidityDays           *int                 `json:"validity_days,omitempty" validate:"omitempty,gt=0"`
	BookingRules           *BookingRulesRequest `json:"booking_rules,omitempty"`
}
