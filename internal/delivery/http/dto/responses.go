package dto

import "skilltrade/internal/usecase"

// SendMessageResponse carries the acknowledgement the web client branches
// on, alongside the persisted message.
type SendMessageResponse struct {
	Success bool                `json:"success"`
	Message usecase.MessageItem `json:"message"`
}
