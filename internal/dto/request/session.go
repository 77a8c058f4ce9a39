package request

type CompleteSessionRequest struct {
	Notes *string `json:"notes,omitempty"`
}

type CancelSessionRequest struct {
	Reason *string `json:"reason,omitempty"`
}

type AddSessionNotesRequest struct {
	Notes string `json:"notes" validate:"required"`
}

type SendPreparationRequest struct {
	Message string `json:"message" validate:"required"`
}
