package httpgin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerotix/aerotix/internal/repository/memory"
	"github.com/aerotix/aerotix/internal/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, *memory.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	svcs := service.NewServices(store, nil, nil, nil, nil, service.Config{})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewRouter(svcs, nil, logger), store
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func provisionFlight(t *testing.T, r *gin.Engine, firstSeats, secondSeats int) int64 {
	t.Helper()

	seats := make([]SeatInput, 0, firstSeats+secondSeats)
	for i := 0; i < firstSeats; i++ {
		seats = append(seats, SeatInput{Number: fmt.Sprintf("%dA", i+1), Class: "first"})
	}
	for i := 0; i < secondSeats; i++ {
		seats = append(seats, SeatInput{Number: fmt.Sprintf("%dC", i+1), Class: "second"})
	}

	w := doJSON(t, r, http.MethodPost, "/admin/aircraft", CreateAircraftRequest{
		SerialNumber: "PR-" + t.Name(),
		Model:        "E195-E2",
		Seats:        seats,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var aircraft CreateAircraftResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &aircraft))

	departure := time.Now().Add(24 * time.Hour).UTC()
	w = doJSON(t, r, http.MethodPost, "/admin/flights", ScheduleFlightRequest{
		AircraftID:     aircraft.AircraftID,
		FromAirport:    "GRU",
		ToAirport:      "GIG",
		Departure:      departure.Format(time.RFC3339),
		Arrival:        departure.Add(time.Hour).Format(time.RFC3339),
		BasePriceCents: 30_000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var flight ScheduleFlightResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &flight))

	return flight.FlightID
}

func TestPurchaseEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	flightID := provisionFlight(t, r, 2, 2)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/flights/%d/purchase", flightID), PurchaseRequest{
		BuyerTaxID: "111.444.777-35",
		Passengers: []PassengerInput{
			{Name: "Ana Souza", Class: "first"},
			{Name: "Bruno Lima", Class: "second"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp PurchaseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SaleID)
	require.Len(t, resp.Tickets, 2)
	for _, tk := range resp.Tickets {
		assert.Nil(t, tk.SeatID)
	}

	// The sale is readable afterwards.
	w = doJSON(t, r, http.MethodGet, "/sales/"+resp.SaleID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPurchaseEndpointValidation(t *testing.T) {
	r, _ := newTestRouter(t)
	flightID := provisionFlight(t, r, 1, 1)

	// Unknown class is rejected at binding.
	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/flights/%d/purchase", flightID), map[string]any{
		"buyer_tax_id": "123",
		"passengers":   []map[string]string{{"name": "Ana", "class": "business"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing passengers.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/flights/%d/purchase", flightID), map[string]any{
		"buyer_tax_id": "123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown flight.
	w = doJSON(t, r, http.MethodPost, "/flights/999999/purchase", PurchaseRequest{
		BuyerTaxID: "123",
		Passengers: []PassengerInput{{Name: "Ana", Class: "first"}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPurchaseEndpointCapacity(t *testing.T) {
	r, _ := newTestRouter(t)
	flightID := provisionFlight(t, r, 1, 0)

	buy := func() int {
		w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/flights/%d/purchase", flightID), PurchaseRequest{
			BuyerTaxID: "123",
			Passengers: []PassengerInput{{Name: "Ana", Class: "first"}},
		})
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, buy())
	assert.Equal(t, http.StatusConflict, buy())
}

func TestCheckinEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	flightID := provisionFlight(t, r, 2, 0)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/flights/%d/purchase", flightID), PurchaseRequest{
		BuyerTaxID: "123",
		Passengers: []PassengerInput{{Name: "Ana", Class: "first"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var purchase PurchaseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &purchase))
	ticketID := purchase.Tickets[0].TicketID

	w = doJSON(t, r, http.MethodPost, "/tickets/"+ticketID+"/checkin", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var checkin CheckinResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &checkin))
	assert.Equal(t, ticketID, checkin.TicketID)
	assert.Equal(t, "first", checkin.Class)
	assert.NotZero(t, checkin.SeatID)

	// Second check-in conflicts.
	w = doJSON(t, r, http.MethodPost, "/tickets/"+ticketID+"/checkin", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Malformed ticket ID.
	w = doJSON(t, r, http.MethodPost, "/tickets/not-a-uuid/checkin", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	flightID := provisionFlight(t, r, 1, 2)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/flights/%d/purchase", flightID), PurchaseRequest{
		BuyerTaxID: "123",
		Passengers: []PassengerInput{{Name: "Ana", Class: "second"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/flights/%d/availability", flightID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("ETag"))

	var counts struct {
		Classes map[string]struct {
			Capacity  int `json:"capacity"`
			Sold      int `json:"sold"`
			Available int `json:"available"`
		} `json:"classes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &counts))
	assert.Equal(t, 1, counts.Classes["first"].Capacity)
	assert.Equal(t, 2, counts.Classes["second"].Capacity)
	assert.Equal(t, 1, counts.Classes["second"].Sold)
	assert.Equal(t, 1, counts.Classes["second"].Available)

	// Conditional GET on the same representation.
	etag := w.Header().Get("ETag")
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/flights/%d/availability", flightID), nil)
	req.Header.Set("If-None-Match", etag)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusNotModified, w2.Code)
}

func TestSeatMapEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	flightID := provisionFlight(t, r, 1, 1)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/flights/%d/seats", flightID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var seats []struct {
		ID       int64  `json:"id"`
		Class    string `json:"class"`
		Occupied bool   `json:"occupied"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &seats))
	assert.Len(t, seats, 2)
	for _, s := range seats {
		assert.False(t, s.Occupied)
	}

	w = doJSON(t, r, http.MethodGet, "/flights/999999/seats", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
