// Package profile provides the client for the per-user profile resource.
// The server creates the profile lazily on first fetch; the client relies
// on that get-or-create contract instead of implementing it.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/interu-app/interu-cli/api"
	"github.com/interu-app/interu-cli/auth"
)

// Profile is the public-facing profile record. Wire names follow the
// backend's Spanish field names.
type Profile struct {
	ID                 int      `json:"id_perfil"`
	Alias              string   `json:"alias"`
	FirstName          string   `json:"nombre"`
	LastName           string   `json:"apellido"`
	Program            string   `json:"carrera"`
	SpecializationArea string   `json:"area"`
	Biography          string   `json:"biografia"`
	PhotoURL           string   `json:"foto"`
	OfferedSkills      []string `json:"habilidades_ofrecidas"`
}

// View combines the profile with its owning account, matching what the
// profile screen renders.
type View struct {
	Profile Profile
	Account auth.Account
}

// Update is a partial profile change. Nil fields are left untouched;
// OfferedSkills replaces the whole list when non-nil.
type Update struct {
	Alias              *string
	FirstName          *string
	LastName           *string
	Program            *string
	SpecializationArea *string
	Biography          *string
	PhotoURL           *string
	OfferedSkills      []string
}

// patchBody builds the request body containing only the set fields, so a
// one-field edit PATCHes exactly one field.
func (u Update) patchBody() map[string]any {
	body := make(map[string]any)
	set := func(key string, v *string) {
		if v != nil {
			body[key] = *v
		}
	}
	set("alias", u.Alias)
	set("nombre", u.FirstName)
	set("apellido", u.LastName)
	set("carrera", u.Program)
	set("area", u.SpecializationArea)
	set("biografia", u.Biography)
	set("foto", u.PhotoURL)
	if u.OfferedSkills != nil {
		body["habilidades_ofrecidas"] = u.OfferedSkills
	}
	return body
}

// Client performs profile operations. All of them require a session.
type Client struct {
	api  *api.Client
	auth *auth.Client
}

// NewClient creates a profile client. The auth client supplies the account
// half of Fetch.
func NewClient(apiClient *api.Client, authClient *auth.Client) *Client {
	return &Client{api: apiClient, auth: authClient}
}

// Fetch returns the profile (auto-created server-side on first call)
// together with the account record.
func (c *Client) Fetch(ctx context.Context) (View, error) {
	var p Profile
	if err := c.api.GetAuthed(ctx, "/perfil/", &p); err != nil {
		return View{}, err
	}

	account, err := c.auth.Me(ctx)
	if err != nil {
		return View{}, err
	}

	return View{Profile: p, Account: account}, nil
}

// Apply PATCHes only the changed fields and returns the server's canonical
// updated profile.
func (c *Client) Apply(ctx context.Context, update Update) (Profile, error) {
	body := update.patchBody()
	if len(body) == 0 {
		return Profile{}, fmt.Errorf("no fields to update")
	}

	var updated Profile
	if err := c.api.PatchAuthed(ctx, "/perfil/", body, &updated); err != nil {
		return Profile{}, err
	}
	return updated, nil
}

// DeleteAccount removes the account after re-authenticating with the
// current password. A rejected password maps to ErrInvalidCredentials with
// the server's message attached. On success the caller clears the session
// store; this method does not touch it.
func (c *Client) DeleteAccount(ctx context.Context, password string) error {
	body := map[string]string{"password": password}
	err := c.api.DeleteAuthed(ctx, "/perfil/eliminar/", body, nil)
	if err == nil {
		return nil
	}

	if ve, ok := api.AsValidationError(err); ok {
		if msgs := ve.FieldMessages("password"); len(msgs) > 0 {
			return fmt.Errorf("%w: %s", api.ErrInvalidCredentials, strings.Join(msgs, "; "))
		}
	}
	if errors.Is(err, api.ErrForbidden) {
		return fmt.Errorf("%w: password rejected", api.ErrInvalidCredentials)
	}
	return err
}

// SplitSkills converts a comma-delimited text field into an ordered skill
// list: entries are trimmed, empty ones dropped, order preserved, and
// duplicates allowed.
func SplitSkills(text string) []string {
	parts := strings.Split(text, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	return skills
}
