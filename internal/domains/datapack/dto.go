package datapack

import (
	"encoding/json"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var decimalPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// CreatePackRequest creates or replaces a pack definition (admin only).
// Price is a decimal string so client float formatting never corrupts it.
type CreatePackRequest struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Tags           []string        `json:"tags"`
	Fields         json.RawMessage `json:"fields"`
	PromptTemplate string          `json:"prompt_template"`
	Price          string          `json:"price"`
}

func (r CreatePackRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.PromptTemplate, validation.Required, validation.Length(1, 10000)),
		validation.Field(&r.Price, validation.Required, validation.Match(decimalPattern)),
		validation.Field(&r.Tags, validation.Each(validation.Length(1, 30))),
	)
}
