package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/aerotix/aerotix/internal/domain"
	redisrepo "github.com/aerotix/aerotix/internal/repository/redis"
	"github.com/aerotix/aerotix/internal/service"
	"github.com/aerotix/aerotix/internal/service/admin"
	"github.com/aerotix/aerotix/internal/service/booking"
	"github.com/aerotix/aerotix/internal/service/checkin"
	"github.com/aerotix/aerotix/internal/service/query"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.GET("/flights/:id", handleGetFlight(svcs))
	r.GET("/flights/:id/availability", handleGetAvailability(svcs))
	r.GET("/flights/:id/seats", handleGetSeatMap(svcs))

	r.POST("/flights/:id/purchase", handlePurchase(svcs, idem))

	r.POST("/tickets/:id/checkin", handleCheckin(svcs))
	r.GET("/sales/:id", handleGetSale(svcs))

	// Admin-API
	// TODO: add admin middleware
	adminGroup := r.Group("/admin")
	{
		adminGroup.POST("/airports", handleCreateAirport(svcs))
		adminGroup.POST("/aircraft", handleCreateAircraft(svcs))
		adminGroup.POST("/flights", handleScheduleFlight(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Get flight
// @Param    id  path  int  true  "Flight ID"
// @Success  200  {object}  domain.Flight
// @Failure  404  {object}  ErrorResponse
// @Router   /flights/{id} [get]
func handleGetFlight(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		flightID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		f, err := svcs.Query.GetFlight(c.Request.Context(), flightID)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 60s
		writeJSONWithCache(c, http.StatusOK, f, "public, max-age=60", true)
	}
}

// @Summary  Get per-class availability counters
// @Param    id  path  int  true  "Flight ID"
// @Success  200  {object}  domain.FlightCounts
// @Router   /flights/{id}/availability [get]
func handleGetAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		flightID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		cnt, err := svcs.Query.Availability(c.Request.Context(), flightID)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s
		writeJSONWithCache(c, http.StatusOK, cnt, "public, max-age=15", true)
	}
}

// @Summary  Get flight seat map with occupancy
// @Param    id  path  int  true  "Flight ID"
// @Success  200  {array}   domain.SeatWithStatus
// @Router   /flights/{id}/seats [get]
func handleGetSeatMap(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		flightID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		seats, err := svcs.Query.SeatMap(c.Request.Context(), flightID)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s
		writeJSONWithCache(c, http.StatusOK, seats, "public, max-age=15", true)
	}
}

// @Summary  Purchase tickets (idempotent)
// @Param    id  path  int  true  "Flight ID"
// @Param    req body  PurchaseRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} PurchaseResponse
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "capacity exceeded / sale closed / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /flights/{id}/purchase [post]
func handlePurchase(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		flightID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req PurchaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemPurchase(flightID, idemKey)

			if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
				return
			}

			locked, err := idem.AcquireLock(c.Request.Context(), idemStorageKey, 60*time.Second)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
				return
			}
		}

		passengers := make([]booking.Passenger, 0, len(req.Passengers))
		for _, p := range req.Passengers {
			passengers = append(passengers, booking.Passenger{
				Name:  p.Name,
				Class: domain.SeatClass(p.Class),
			})
		}

		rlKey := "ip:" + c.ClientIP()

		sale, err := svcs.Booking.Purchase(
			c.Request.Context(),
			flightID,
			req.BuyerTaxID,
			passengers,
			rlKey,
		)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			if isRateLimitedErr(err) {
				c.Header("Retry-After", "60")
				c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: err.Error()})
				return
			}
			respondErr(c, err)
			return
		}

		resp := PurchaseResponse{SaleID: sale.Sale.ID.String()}
		for _, t := range sale.Tickets {
			resp.Tickets = append(resp.Tickets, TicketResponse{
				TicketID:      t.ID.String(),
				PassengerName: t.PassengerName,
				Class:         string(t.Class),
				PriceCents:    t.PriceCents,
				SeatID:        t.SeatID,
			})
		}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// @Summary  Check in a ticket
// @Param    id  path  string  true  "Ticket ID (uuid)"
// @Success  200 {object} CheckinResponse
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "already checked in / no seat / departed"
// @Router   /tickets/{id}/checkin [post]
func handleCheckin(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticketID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			badRequest(c, "invalid ticket id")
			return
		}
		seat, err := svcs.Checkin.CheckIn(c.Request.Context(), ticketID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, CheckinResponse{
			TicketID:   ticketID.String(),
			SeatID:     seat.ID,
			SeatNumber: seat.Number,
			Class:      string(seat.Class),
		})
	}
}

// @Summary  Get sale with tickets
// @Param    id  path  string  true  "Sale ID (uuid)"
// @Success  200 {object} domain.SaleWithTickets
// @Router   /sales/{id} [get]
func handleGetSale(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		saleID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			badRequest(c, "invalid sale id")
			return
		}
		sale, err := svcs.Query.GetSale(c.Request.Context(), saleID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, sale)
	}
}

// @Summary  Create airport
// @Param    req body  CreateAirportRequest true "payload"
// @Success  201 {object} map[string]string
// @Router   /admin/airports [post]
func handleCreateAirport(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateAirportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		err := svcs.Admin.CreateAirport(c.Request.Context(), domain.Airport{
			Code: req.Code,
			Name: req.Name,
			City: req.City,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"code": req.Code})
	}
}

// @Summary  Create aircraft with cabin layout
// @Param    req body  CreateAircraftRequest true "payload"
// @Success  201 {object} CreateAircraftResponse
// @Router   /admin/aircraft [post]
func handleCreateAircraft(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateAircraftRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		seats := make([]domain.Seat, 0, len(req.Seats))
		for _, s := range req.Seats {
			seats = append(seats, domain.Seat{
				Number: s.Number,
				Class:  domain.SeatClass(s.Class),
			})
		}
		id, err := svcs.Admin.CreateAircraft(
			c.Request.Context(),
			req.SerialNumber,
			req.Model,
			seats,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateAircraftResponse{AircraftID: id})
	}
}

// @Summary  Schedule flight
// @Param    req body  ScheduleFlightRequest true "payload"
// @Success  201 {object} ScheduleFlightResponse
// @Router   /admin/flights [post]
func handleScheduleFlight(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ScheduleFlightRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		departure, err := parseRFC3339(req.Departure)
		if err != nil {
			badRequest(c, "invalid departure (RFC3339)")
			return
		}
		arrival, err := parseRFC3339(req.Arrival)
		if err != nil {
			badRequest(c, "invalid arrival (RFC3339)")
			return
		}
		id, err := svcs.Admin.ScheduleFlight(c.Request.Context(), domain.Flight{
			AircraftID:     req.AircraftID,
			FromAirport:    req.FromAirport,
			ToAirport:      req.ToAirport,
			Departure:      departure,
			Arrival:        arrival,
			BasePriceCents: req.BasePriceCents,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, ScheduleFlightResponse{FlightID: id})
	}
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func isRateLimitedErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "rate limited")
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// booking service
	case errors.Is(err, booking.ErrFlightNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "flight not found"})
	case errors.Is(err, booking.ErrInvalidClass):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid seat class"})
	case errors.Is(err, booking.ErrCapacityExceeded):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "capacity exceeded"})
	case errors.Is(err, booking.ErrSaleAfterDeparture):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "flight already departed"})
	// checkin service
	case errors.Is(err, checkin.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "ticket not found"})
	case errors.Is(err, checkin.ErrAlreadyCheckedIn):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "ticket already checked in"})
	case errors.Is(err, checkin.ErrNoSeatAvailable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "no seat available"})
	case errors.Is(err, checkin.ErrFlightDeparted):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "flight already departed"})
	// query service
	case errors.Is(err, query.ErrFlightNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "flight not found"})
	case errors.Is(err, query.ErrSaleNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "sale not found"})
	// admin service
	case errors.Is(err, admin.ErrAirportConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "airport already exists"})
	case errors.Is(err, admin.ErrAircraftConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "aircraft already exists"})
	case errors.Is(err, admin.ErrAircraftNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "aircraft not found"})
	case errors.Is(err, admin.ErrInvalidSchedule):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "departure must precede arrival"})
	case errors.Is(err, admin.ErrInvalidSeat):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid seat definition"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
