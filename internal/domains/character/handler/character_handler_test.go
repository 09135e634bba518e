package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"charaforge-backend/internal/domains/character"
	"charaforge-backend/internal/infrastructure/storage"
	"charaforge-backend/internal/shared/middleware"
)

// stubCharacterService fails SaveCharacter with a configured error; the
// embedded interface panics on anything else.
type stubCharacterService struct {
	character.Service
	saveErr error
}

func (s *stubCharacterService) SaveCharacter(ctx context.Context, callerID uuid.UUID, callerName string, req character.CreateCharacterRequest) (*character.SaveResult, error) {
	return nil, s.saveErr
}

func TestCreateErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"malformed portrait source", storage.ErrInvalidSourceFormat, http.StatusBadRequest},
		{"upload failure", storage.ErrUploadFailed, http.StatusBadGateway},
		{"store failure", character.ErrCouldNotSave, http.StatusInternalServerError},
	}

	body := `{"name":"Rin","biography":"A wandering swordswoman.","image_data":"data:image/png;base64,aGVsbG8="}`

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Wrapped the way the storage layer surfaces them.
			h := NewCharacterHandler(&stubCharacterService{saveErr: fmt.Errorf("portrait: %w", tt.err)})

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/characters", strings.NewReader(body))
			c.Request.Header.Set("Content-Type", "application/json")
			c.Set(middleware.ContextUserID, uuid.New())

			h.Create(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
