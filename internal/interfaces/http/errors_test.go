package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talentflow/recruitment-backend/internal/apperrors"
	"github.com/talentflow/recruitment-backend/internal/authz"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperrors.ErrValidation, http.StatusBadRequest},
		{"forbidden", authz.ErrForbidden, http.StatusForbidden},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"conflict", apperrors.ErrConflict, http.StatusConflict},
		{"invalid state", apperrors.ErrInvalidState, http.StatusUnprocessableEntity},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
		{"wrapped validation", fmt.Errorf("%w: bad score", apperrors.ErrValidation), http.StatusBadRequest},
		{"wrapped conflict", fmt.Errorf("outer: %w", fmt.Errorf("%w: stale", apperrors.ErrConflict)), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusForError(tt.err))
		})
	}
}
