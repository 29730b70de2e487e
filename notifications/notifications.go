// Package notifications provides the client for the user's notification
// inbox. All operations require a session.
package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/interu-app/interu-cli/api"
)

// Kind classifies what triggered a notification.
type Kind string

const (
	KindNewChat           Kind = "nuevo_chat"
	KindNewMessage        Kind = "nuevo_mensaje"
	KindExchangeCompleted Kind = "intercambio_completado"
	KindChatRating        Kind = "calificacion_chat"
)

// Notification is an inbox entry. Wire names follow the backend.
type Notification struct {
	ID            int       `json:"id_notificacion"`
	Message       string    `json:"mensaje"`
	Kind          Kind      `json:"tipo"`
	Read          bool      `json:"leida"`
	PublicationID *int      `json:"publicacion"`
	ChatID        *int      `json:"chat"`
	CreatedAt     time.Time `json:"fecha"`
}

// Client performs notification operations.
type Client struct {
	api *api.Client
}

// NewClient creates a notifications client.
func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// List returns the user's notifications, newest first per the server.
func (c *Client) List(ctx context.Context) ([]Notification, error) {
	var items []Notification
	if err := c.api.GetAuthed(ctx, "/notificaciones/", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// MarkRead flags a single notification as read.
func (c *Client) MarkRead(ctx context.Context, id int) error {
	return c.api.PatchAuthed(ctx, fmt.Sprintf("/notificaciones/%d/marcar-leida/", id), nil, nil)
}

// MarkAllRead flags every notification as read.
func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.api.PatchAuthed(ctx, "/notificaciones/marcar-todas-leidas/", nil, nil)
}
