package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/hotel-occupancy/internal/application"
	"github.com/example/hotel-occupancy/internal/booking"
	"github.com/example/hotel-occupancy/internal/room"
)

type hotelService interface {
	Today() time.Time
	ListRooms(ctx context.Context) []room.Room
	GetRoom(ctx context.Context, number string) (room.Room, error)
	Occupancy(ctx context.Context) application.Occupancy
	AddBooking(ctx context.Context, number string, input application.BookingInput) (room.Room, error)
	UpdateBooking(ctx context.Context, params application.UpdateBookingParams) (room.Room, error)
	CheckIn(ctx context.Context, number string) (room.Room, error)
	Checkout(ctx context.Context, number string) (room.Room, error)
	CheckoutPeriod(ctx context.Context, number string, target application.PeriodInput) (room.Room, error)
	Reassign(ctx context.Context, params application.ReassignParams) (room.Room, room.Room, error)
	AddExpense(ctx context.Context, number string, input application.ExpenseInput) (room.Room, error)
	SetTags(ctx context.Context, number string, tags []string) (room.Room, error)
}

// RoomHandler serves the room, booking and occupancy endpoints.
type RoomHandler struct {
	service   hotelService
	responder responder
	logger    *slog.Logger
}

func NewRoomHandler(service hotelService, logger *slog.Logger) *RoomHandler {
	base := defaultLogger(logger)
	return &RoomHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RoomHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return requestLogger(ctx, h.logger, append([]any{"handler", "RoomHandler", "operation", operation}, attrs...)...)
}

func (h *RoomHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	rooms := h.service.ListRooms(r.Context())
	h.log(r.Context(), "List").DebugContext(r.Context(), "rooms listed", "result_count", len(rooms))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomsResponse{Rooms: toRoomDTOs(rooms, h.service.Today())})
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	number := roomNumber(r)
	rm, err := h.service.GetRoom(r.Context(), number)
	h.respondRoom(w, r, h.log(r.Context(), "Get", "room_number", number), rm, err, http.StatusOK)
}

func (h *RoomHandler) Occupancy(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	o := h.service.Occupancy(r.Context())
	h.responder.writeJSON(r.Context(), w, http.StatusOK, occupancyDTO{
		Date:      booking.FormatDate(h.service.Today()),
		Total:     o.Total,
		Vacant:    o.Vacant,
		Reserved:  o.Reserved,
		Arriving:  o.Arriving,
		CheckedIn: o.CheckedIn,
	})
}

func (h *RoomHandler) AddBooking(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	number := roomNumber(r)
	logger := h.log(r.Context(), "AddBooking", "room_number", number)

	var req bookingRequest
	if !h.decode(w, r, logger, &req) {
		return
	}

	rm, err := h.service.AddBooking(r.Context(), number, req.toInput())
	h.respondRoom(w, r, logger, rm, err, http.StatusCreated)
}

func (h *RoomHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	number := roomNumber(r)
	logger := h.log(r.Context(), "UpdateBooking", "room_number", number)

	var req updateBookingRequest
	if !h.decode(w, r, logger, &req) {
		return
	}

	rm, err := h.service.UpdateBooking(r.Context(), application.UpdateBookingParams{
		RoomNumber: number,
		Target:     req.Target.toInput(),
		Input:      req.Booking.toInput(),
	})
	h.respondRoom(w, r, logger, rm, err, http.StatusOK)
}

func (h *RoomHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	number := roomNumber(r)
	rm, err := h.service.CheckIn(r.Context(), number)
	h.respondRoom(w, r, h.log(r.Context(), "CheckIn", "room_number", number), rm, err, http.StatusOK)
}

// Checkout removes the checked-in or expired booking. A body naming a period removes that
// booking instead.
func (h *RoomHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	number := roomNumber(r)
	logger := h.log(r.Context(), "Checkout", "room_number", number)

	var req *periodRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			logger.WarnContext(r.Context(), "failed to decode checkout request", "error", err, "error_kind", "bad_request")
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
			return
		}
	}

	var (
		rm  room.Room
		err error
	)
	if req == nil {
		rm, err = h.service.Checkout(r.Context(), number)
	} else {
		rm, err = h.service.CheckoutPeriod(r.Context(), number, req.toInput())
	}
	h.respondRoom(w, r, logger, rm, err, http.StatusOK)
}

func (h *RoomHandler) Reassign(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	number := roomNumber(r)
	logger := h.log(r.Context(), "Reassign", "room_number", number)

	var req reassignRequest
	if !h.decode(w, r, logger, &req) {
		return
	}

	from, to, err := h.service.Reassign(r.Context(), application.ReassignParams{
		RoomNumber:   number,
		Target:       req.Target.toInput(),
		TargetNumber: strings.TrimSpace(req.TargetRoom),
	})
	if err != nil {
		logger.WarnContext(r.Context(), "reassign failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	today := h.service.Today()
	h.responder.writeJSON(r.Context(), w, http.StatusOK, reassignResponse{
		From: toRoomDTO(from, today),
		To:   toRoomDTO(to, today),
	})
}

func (h *RoomHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	number := roomNumber(r)
	logger := h.log(r.Context(), "AddExpense", "room_number", number)

	var req expenseRequest
	if !h.decode(w, r, logger, &req) {
		return
	}

	rm, err := h.service.AddExpense(r.Context(), number, application.ExpenseInput{
		MenuNumber:  strings.TrimSpace(req.MenuNumber),
		Description: strings.TrimSpace(req.Description),
		Cost:        req.Cost,
	})
	h.respondRoom(w, r, logger, rm, err, http.StatusCreated)
}

func (h *RoomHandler) SetTags(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	number := roomNumber(r)
	logger := h.log(r.Context(), "SetTags", "room_number", number)

	var req tagsRequest
	if !h.decode(w, r, logger, &req) {
		return
	}

	rm, err := h.service.SetTags(r.Context(), number, req.Tags)
	h.respondRoom(w, r, logger, rm, err, http.StatusOK)
}

func (h *RoomHandler) decode(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst any) bool {
	if r.Body == nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.WarnContext(r.Context(), "failed to decode request", "error", err, "error_kind", "bad_request")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return false
	}
	return true
}

func (h *RoomHandler) respondRoom(w http.ResponseWriter, r *http.Request, logger *slog.Logger, rm room.Room, err error, status int) {
	if err != nil {
		logger.WarnContext(r.Context(), "room request failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, status, roomResponse{Room: toRoomDTO(rm, h.service.Today())})
}

func roomNumber(r *http.Request) string {
	return strings.TrimSpace(mux.Vars(r)["number"])
}

type bookingRequest struct {
	GuestName  string `json:"guest_name"`
	GuestPhone string `json:"guest_phone"`
	GuestEmail string `json:"guest_email"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

func (r bookingRequest) toInput() application.BookingInput {
	return application.BookingInput{
		GuestName:  strings.TrimSpace(r.GuestName),
		GuestPhone: strings.TrimSpace(r.GuestPhone),
		GuestEmail: strings.TrimSpace(r.GuestEmail),
		StartDate:  strings.TrimSpace(r.StartDate),
		EndDate:    strings.TrimSpace(r.EndDate),
	}
}

type periodRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r periodRequest) toInput() application.PeriodInput {
	return application.PeriodInput{
		StartDate: strings.TrimSpace(r.StartDate),
		EndDate:   strings.TrimSpace(r.EndDate),
	}
}

type updateBookingRequest struct {
	Target  periodRequest  `json:"target"`
	Booking bookingRequest `json:"booking"`
}

type reassignRequest struct {
	Target     periodRequest `json:"target"`
	TargetRoom string        `json:"target_room"`
}

type expenseRequest struct {
	MenuNumber  string `json:"menu_number"`
	Description string `json:"description"`
	Cost        int64  `json:"cost"`
}

type tagsRequest struct {
	Tags []string `json:"tags"`
}

type roomResponse struct {
	Room roomDTO `json:"room"`
}

type listRoomsResponse struct {
	Rooms []roomDTO `json:"rooms"`
}

type reassignResponse struct {
	From roomDTO `json:"from"`
	To   roomDTO `json:"to"`
}

type occupancyDTO struct {
	Date      string `json:"date"`
	Total     int    `json:"total"`
	Vacant    int    `json:"vacant"`
	Reserved  int    `json:"reserved"`
	Arriving  int    `json:"arriving"`
	CheckedIn int    `json:"checked_in"`
}

type roomDTO struct {
	Number       string       `json:"number"`
	Capacity     string       `json:"capacity"`
	State        string       `json:"state"`
	Tags         []string     `json:"tags"`
	Bookings     []bookingDTO `json:"bookings"`
	Expenses     []expenseDTO `json:"expenses"`
	ExpenseTotal int64        `json:"expense_total"`
}

type guestDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type bookingDTO struct {
	Guest     guestDTO `json:"guest"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Nights    int      `json:"nights"`
	CheckedIn bool     `json:"checked_in"`
}

type expenseDTO struct {
	ID          string `json:"id"`
	MenuNumber  string `json:"menu_number"`
	Description string `json:"description,omitempty"`
	Cost        int64  `json:"cost"`
	ChargedAt   string `json:"charged_at"`
}

func toRoomDTO(rm room.Room, today time.Time) roomDTO {
	bookings := rm.Bookings().All()
	expenses := rm.Expenses()

	dto := roomDTO{
		Number:       rm.Number().String(),
		Capacity:     rm.Capacity().String(),
		State:        string(rm.State(today)),
		Tags:         append([]string{}, rm.Tags()...),
		Bookings:     make([]bookingDTO, 0, len(bookings)),
		Expenses:     make([]expenseDTO, 0, len(expenses)),
		ExpenseTotal: room.TotalCost(expenses),
	}
	for _, b := range bookings {
		g := b.Guest()
		dto.Bookings = append(dto.Bookings, bookingDTO{
			Guest:     guestDTO{Name: g.Name, Phone: g.Phone, Email: g.Email},
			StartDate: booking.FormatDate(b.Period().Start()),
			EndDate:   booking.FormatDate(b.Period().End()),
			Nights:    b.Period().Nights(),
			CheckedIn: b.IsCheckedIn(),
		})
	}
	for _, e := range expenses {
		dto.Expenses = append(dto.Expenses, expenseDTO{
			ID:          e.ID,
			MenuNumber:  e.MenuNumber,
			Description: e.Description,
			Cost:        e.Cost,
			ChargedAt:   e.ChargedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return dto
}

func toRoomDTOs(rooms []room.Room, today time.Time) []roomDTO {
	out := make([]roomDTO, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, toRoomDTO(rm, today))
	}
	return out
}
