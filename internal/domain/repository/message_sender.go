package repository

import "context"

// OutboundMessage is one rendered message ready for delivery.
type OutboundMessage struct {
	Channel   string // entity.ChannelEmail or entity.ChannelSMS
	Recipient string // display name
	Contact   string // email address or phone number
	Subject   string
	Body      string
}

// MessageSender defines the interface for dispatching outbound messages.
// Send returns the provider-assigned message id when available.
type MessageSender interface {
	Send(ctx context.Context, msg *OutboundMessage) (string, error)
}
