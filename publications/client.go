package publications

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/interu-app/interu-cli/api"
)

// Draft is the payload for creating a publication. Author attribution is
// derived server-side from the bearer token.
type Draft struct {
	Type         Type         `json:"tipo" validate:"required,oneof=oferta demanda"`
	Title        string       `json:"titulo" validate:"required,max=200"`
	Description  string       `json:"descripcion" validate:"required"`
	Skills       []string     `json:"habilidades"`
	Modality     Modality     `json:"modalidad" validate:"required,oneof=remoto presencial híbrido"`
	Availability Availability `json:"disponibilidad" validate:"required,oneof=proyecto part-time full-time"`
	Area         string       `json:"area" validate:"required"`
	Location     string       `json:"ubicacion,omitempty"`
	Contact      string       `json:"contacto,omitempty"`
}

// Patch is a partial publication edit. Nil fields are left untouched.
type Patch struct {
	Type         *Type
	Title        *string
	Description  *string
	Skills       []string
	Modality     *Modality
	Availability *Availability
	Area         *string
	Location     *string
	Contact      *string
	State        *State
}

func (p Patch) body() map[string]any {
	body := make(map[string]any)
	if p.Type != nil {
		body["tipo"] = *p.Type
	}
	if p.Title != nil {
		body["titulo"] = *p.Title
	}
	if p.Description != nil {
		body["descripcion"] = *p.Description
	}
	if p.Skills != nil {
		body["habilidades"] = p.Skills
	}
	if p.Modality != nil {
		body["modalidad"] = *p.Modality
	}
	if p.Availability != nil {
		body["disponibilidad"] = *p.Availability
	}
	if p.Area != nil {
		body["area"] = *p.Area
	}
	if p.Location != nil {
		body["ubicacion"] = *p.Location
	}
	if p.Contact != nil {
		body["contacto"] = *p.Contact
	}
	if p.State != nil {
		body["estado"] = *p.State
	}
	return body
}

// Client performs publication operations. Listing and reading are public;
// writes require a session and are author-restricted server-side.
type Client struct {
	api      *api.Client
	validate *validator.Validate
}

// NewClient creates a publications client.
func NewClient(apiClient *api.Client) *Client {
	return &Client{
		api:      apiClient,
		validate: validator.New(),
	}
}

// List returns publications matching the criteria. An empty result is a
// valid, non-error outcome.
func (c *Client) List(ctx context.Context, criteria Criteria) ([]Publication, error) {
	path := "/publicaciones/"
	if query := criteria.Values().Encode(); query != "" {
		path += "?" + query
	}

	var pubs []Publication
	if err := c.api.Get(ctx, path, &pubs); err != nil {
		return nil, err
	}
	return pubs, nil
}

// ListMine returns the authenticated user's own publications.
func (c *Client) ListMine(ctx context.Context) ([]Publication, error) {
	var pubs []Publication
	if err := c.api.GetAuthed(ctx, "/publicaciones/mias/", &pubs); err != nil {
		return nil, err
	}
	return pubs, nil
}

// Get returns a single publication by ID.
func (c *Client) Get(ctx context.Context, id int) (Publication, error) {
	var pub Publication
	if err := c.api.Get(ctx, fmt.Sprintf("/publicaciones/%d/", id), &pub); err != nil {
		return Publication{}, err
	}
	return pub, nil
}

// Create posts a new publication and returns the server's canonical record.
func (c *Client) Create(ctx context.Context, draft Draft) (Publication, error) {
	if err := c.validate.Struct(draft); err != nil {
		return Publication{}, fmt.Errorf("invalid publication: %w", err)
	}

	var pub Publication
	if err := c.api.PostAuthed(ctx, "/publicaciones/", draft, &pub); err != nil {
		return Publication{}, err
	}
	return pub, nil
}

// Update PATCHes only the changed fields. Editing someone else's
// publication surfaces ErrForbidden from the server.
func (c *Client) Update(ctx context.Context, id int, patch Patch) (Publication, error) {
	body := patch.body()
	if len(body) == 0 {
		return Publication{}, fmt.Errorf("no fields to update")
	}

	var pub Publication
	if err := c.api.PatchAuthed(ctx, fmt.Sprintf("/publicaciones/%d/", id), body, &pub); err != nil {
		return Publication{}, err
	}
	return pub, nil
}

// Delete removes a publication. Deleting someone else's publication
// surfaces ErrForbidden from the server.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.api.DeleteAuthed(ctx, fmt.Sprintf("/publicaciones/%d/", id), nil, nil)
}
