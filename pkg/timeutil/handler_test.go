package timeutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/klokku/availshare/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListZones(t *testing.T) {
	handler := NewHandler(utils.NewMockClock(time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)))

	req := httptest.NewRequest(http.MethodGet, "/api/timezones", nil)
	w := httptest.NewRecorder()
	handler.ListZones(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var zones []ZoneDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&zones))
	assert.Len(t, zones, len(CommonZones))
	assert.Equal(t, "Pacific/Honolulu", zones[0].IANA)
	assert.Equal(t, "UTC-10 (Hawaii Time)", zones[0].Display)
}

func TestListZones_PrependsUnlistedCurrentZone(t *testing.T) {
	handler := NewHandler(utils.NewMockClock(time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)))

	req := httptest.NewRequest(http.MethodGet, "/api/timezones?current=Europe/Lisbon", nil)
	w := httptest.NewRecorder()
	handler.ListZones(w, req)

	var zones []ZoneDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&zones))
	require.Len(t, zones, len(CommonZones)+1)
	assert.Equal(t, "Europe/Lisbon", zones[0].IANA)
	assert.Equal(t, "UTC+0 (Lisbon)", zones[0].Display)
}
