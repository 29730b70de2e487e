// Package publications provides the client for the publications feed:
// listing with filters, CRUD for the author's own publications, and the
// feed state machine driving the list view.
package publications

import (
	"net/url"
	"strings"
	"time"
)

// Type classifies a publication as offering or seeking collaboration.
// Wire values are the backend's Spanish identifiers.
type Type string

const (
	TypeOffer  Type = "oferta"
	TypeDemand Type = "demanda"
)

// Modality is the working arrangement of a publication.
type Modality string

const (
	ModalityRemote Modality = "remoto"
	ModalityOnsite Modality = "presencial"
	ModalityHybrid Modality = "híbrido"
)

// Availability is the time commitment a publication asks for.
type Availability string

const (
	AvailabilityProject  Availability = "proyecto"
	AvailabilityPartTime Availability = "part-time"
	AvailabilityFullTime Availability = "full-time"
)

// State is the publication lifecycle state.
type State string

const (
	StateActive State = "activa"
	StatePaused State = "pausada"
	StateClosed State = "cerrada"
)

// SortOrder selects the feed ordering.
type SortOrder string

const (
	SortRecent    SortOrder = "recientes"
	SortRelevance SortOrder = "relevancia"
)

// Publication is a feed entry. Author attribution is server-derived from
// the token; the client never supplies it.
type Publication struct {
	ID           int          `json:"id"`
	Type         Type         `json:"tipo"`
	Title        string       `json:"titulo"`
	Description  string       `json:"descripcion"`
	Skills       []string     `json:"habilidades"`
	Modality     Modality     `json:"modalidad"`
	Availability Availability `json:"disponibilidad"`
	Area         string       `json:"area"`
	AuthorAlias  string       `json:"autor_alias"`
	AuthorID     int          `json:"autor_id"`
	Location     string       `json:"ubicacion,omitempty"`
	Contact      string       `json:"contacto,omitempty"`
	State        State        `json:"estado"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Criteria are the client-local filter/sort parameters for listing.
// Never persisted; zero-valued fields are omitted from the query.
type Criteria struct {
	Text         string
	Type         Type
	Modality     Modality
	Availability Availability
	Area         string
	Skills       []string
	Sort         SortOrder
}

// Values serializes the criteria as query parameters. The skills list is
// comma-joined into a single parameter, matching the backend's filter
// contract.
func (c Criteria) Values() url.Values {
	values := url.Values{}
	add := func(key, v string) {
		if v != "" {
			values.Set(key, v)
		}
	}
	add("texto", c.Text)
	add("tipo", string(c.Type))
	add("modalidad", string(c.Modality))
	add("disponibilidad", string(c.Availability))
	add("area", c.Area)
	add("habilidades", strings.Join(c.Skills, ","))
	add("ordenar", string(c.Sort))
	return values
}
