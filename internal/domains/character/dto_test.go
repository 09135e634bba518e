package character

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validCreateRequest() CreateCharacterRequest {
	return CreateCharacterRequest{
		Name:      "Rin",
		Biography: "A wandering swordswoman.",
		ImageURL:  "https://cdn.example.com/rin.png",
	}
}

func TestCreateCharacterRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateCharacterRequest)
		wantErr bool
	}{
		{"valid with url", func(r *CreateCharacterRequest) {}, false},
		{"valid with data uri", func(r *CreateCharacterRequest) {
			r.ImageURL = ""
			r.ImageData = "data:image/png;base64,aGVsbG8="
		}, false},
		{"valid with pack id", func(r *CreateCharacterRequest) {
			r.DataPackID = uuid.New().String()
		}, false},
		{"description is free text", func(r *CreateCharacterRequest) {
			r.Description = strings.Repeat("x", 2001)
		}, false},
		{"missing name", func(r *CreateCharacterRequest) {
			r.Name = ""
		}, true},
		{"name too long", func(r *CreateCharacterRequest) {
			r.Name = strings.Repeat("x", 101)
		}, true},
		{"missing biography", func(r *CreateCharacterRequest) {
			r.Biography = ""
		}, true},
		{"biography too long", func(r *CreateCharacterRequest) {
			r.Biography = strings.Repeat("x", 15001)
		}, true},
		{"no portrait source", func(r *CreateCharacterRequest) {
			r.ImageURL = ""
		}, true},
		{"both portrait sources", func(r *CreateCharacterRequest) {
			r.ImageData = "data:image/png;base64,aGVsbG8="
		}, true},
		{"bad pack id", func(r *CreateCharacterRequest) {
			r.DataPackID = "not-a-uuid"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateStatusRequestValidate(t *testing.T) {
	assert.NoError(t, UpdateStatusRequest{Status: "public"}.Validate())
	assert.NoError(t, UpdateStatusRequest{Status: "private"}.Validate())
	assert.Error(t, UpdateStatusRequest{Status: ""}.Validate())
	assert.Error(t, UpdateStatusRequest{Status: "unlisted"}.Validate())
}
