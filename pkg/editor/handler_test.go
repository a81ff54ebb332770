package editor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/klokku/availshare/pkg/calendar"
	"github.com/klokku/availshare/pkg/gesture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSettings(t *testing.T) {
	handler := NewHandler(Settings{
		Gesture: gesture.Config{DragThreshold: 10, VerticalRatio: 2},
		Core:    calendar.CoreHours{Start: 480, End: 1080},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	w := httptest.NewRecorder()
	handler.GetSettings(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var dto SettingsDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	assert.Equal(t, SettingsDTO{DragThreshold: 10, VerticalRatio: 2, CoreStart: 480, CoreEnd: 1080, SlotMinutes: 15}, dto)
}
