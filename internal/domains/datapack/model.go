package datapack

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DataPack is a curated generation preset: trait fields plus the prompt
// template the generation gateway renders against them.
type DataPack struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Tags           []string        `json:"tags"`
	Fields         json.RawMessage `json:"fields"`
	PromptTemplate string          `json:"prompt_template"`
	Price          decimal.Decimal `json:"price"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Summary is the lightweight view embedded into hydrated character
// records.
type Summary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Tags []string  `json:"tags,omitempty"`
}

func (p *DataPack) Summary() Summary {
	return Summary{ID: p.ID, Name: p.Name, Tags: p.Tags}
}
