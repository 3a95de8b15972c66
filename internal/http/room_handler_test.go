package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/hotel-occupancy/internal/application"
	"github.com/example/hotel-occupancy/internal/persistence"
	"github.com/example/hotel-occupancy/internal/persistence/memory"
	"github.com/example/hotel-occupancy/internal/testfixtures"
)

func newTestRouter(t *testing.T, rooms ...testfixtures.RoomFixture) http.Handler {
	t.Helper()

	svc, _ := testfixtures.NewServiceFactory().NewLoadedHotelService(t, rooms...)
	return NewRouter(RouterConfig{Rooms: NewRoomHandler(svc, nil)})
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeRoom(t *testing.T, rec *httptest.ResponseRecorder) roomDTO {
	t.Helper()

	var resp roomResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Room
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestRoomHandlerLifecycle(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, testfixtures.NewRoomFixture(testfixtures.WithRoomNumber("012")))
	stay := map[string]string{
		"guest_name":  "Alice Pauline",
		"guest_phone": "85355255",
		"start_date":  testfixtures.DateText(0),
		"end_date":    testfixtures.DateText(2),
	}

	rec := do(t, h, http.MethodPost, "/api/v1/rooms/012/bookings", stay)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeRoom(t, rec)
	assert.Equal(t, "active_not_checked_in", created.State)
	require.Len(t, created.Bookings, 1)
	assert.Equal(t, 2, created.Bookings[0].Nights)

	rec = do(t, h, http.MethodPost, "/api/v1/rooms/012/bookings", stay)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "overlapping_bookings", decodeError(t, rec).ErrorCode)

	rec = do(t, h, http.MethodPost, "/api/v1/rooms/012/checkin", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "checked_in", decodeRoom(t, rec).State)

	rec = do(t, h, http.MethodPost, "/api/v1/rooms/012/checkin", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "occupied_room_checkin", decodeError(t, rec).ErrorCode)

	rec = do(t, h, http.MethodPost, "/api/v1/rooms/012/expenses", map[string]any{"menu_number": "B2", "cost": 1250})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, int64(1250), decodeRoom(t, rec).ExpenseTotal)

	rec = do(t, h, http.MethodPost, "/api/v1/rooms/012/checkout", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	done := decodeRoom(t, rec)
	assert.Equal(t, "no_booking", done.State)
	assert.Empty(t, done.Expenses)

	rec = do(t, h, http.MethodPost, "/api/v1/rooms/012/checkout", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "no_booking", decodeError(t, rec).ErrorCode)
}

func TestRoomHandlerQueries(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t,
		testfixtures.NewRoomFixture(testfixtures.WithRoomNumber("001"), testfixtures.WithRoomTags("quiet")),
		testfixtures.NewRoomFixture(
			testfixtures.WithRoomNumber("002"),
			testfixtures.WithBookings(testfixtures.NewBookingFixture(testfixtures.WithStay(-1, 3), testfixtures.CheckedIn())),
		),
		testfixtures.NewRoomFixture(
			testfixtures.WithRoomNumber("003"),
			testfixtures.WithBookings(testfixtures.NewBookingFixture(testfixtures.WithStay(5, 1))),
		),
	)

	rec := do(t, h, http.MethodGet, "/api/v1/rooms", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list listRoomsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list.Rooms, 3)
	assert.Equal(t, []string{"001", "002", "003"}, []string{list.Rooms[0].Number, list.Rooms[1].Number, list.Rooms[2].Number})
	assert.Equal(t, []string{"quiet"}, list.Rooms[0].Tags)
	assert.Equal(t, []string{}, list.Rooms[1].Tags)

	rec = do(t, h, http.MethodGet, "/api/v1/rooms/003", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "has_booking_not_active", decodeRoom(t, rec).State)

	rec = do(t, h, http.MethodGet, "/api/v1/rooms/050", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "room_not_found", decodeError(t, rec).ErrorCode)

	rec = do(t, h, http.MethodGet, "/api/v1/rooms/abc", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeError(t, rec).Errors, "room_number")

	rec = do(t, h, http.MethodGet, "/api/v1/occupancy", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var occ occupancyDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&occ))
	assert.Equal(t, occupancyDTO{Date: testfixtures.DateText(0), Total: 3, Vacant: 1, Reserved: 1, CheckedIn: 1}, occ)
}

func TestRoomHandlerUpdateAndCheckoutPeriod(t *testing.T) {
	t.Parallel()

	first := testfixtures.NewBookingFixture(testfixtures.WithStay(2, 2))
	second := testfixtures.NewBookingFixture(testfixtures.WithStay(6, 1))
	h := newTestRouter(t, testfixtures.NewRoomFixture(
		testfixtures.WithRoomNumber("020"),
		testfixtures.WithBookings(first, second),
	))

	update := map[string]any{
		"target": map[string]string{"start_date": first.StartDate, "end_date": first.EndDate},
		"booking": map[string]string{
			"guest_name": first.GuestName,
			"start_date": testfixtures.DateText(2),
			"end_date":   testfixtures.DateText(7),
		},
	}
	rec := do(t, h, http.MethodPut, "/api/v1/rooms/020/bookings", update)
	assert.Equal(t, http.StatusConflict, rec.Code, "extended stay would overlap the second booking")

	update["booking"].(map[string]string)["end_date"] = testfixtures.DateText(5)
	rec = do(t, h, http.MethodPut, "/api/v1/rooms/020/bookings", update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, testfixtures.DateText(5), decodeRoom(t, rec).Bookings[0].EndDate)

	rec = do(t, h, http.MethodPost, "/api/v1/rooms/020/checkout", map[string]string{"start_date": second.StartDate, "end_date": second.EndDate})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeRoom(t, rec).Bookings, 1)

	rec = do(t, h, http.MethodPost, "/api/v1/rooms/020/checkout", map[string]string{"start_date": second.StartDate, "end_date": second.EndDate})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "booking_not_found", decodeError(t, rec).ErrorCode)

	rec = do(t, h, http.MethodPost, "/api/v1/rooms/020/checkout", map[string]string{"start_date": "31/02/2024", "end_date": "01/03/2024"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeError(t, rec).Errors, "target")
}

func TestRoomHandlerUpdateKeepsCheckedInStayStarted(t *testing.T) {
	t.Parallel()

	staying := testfixtures.NewBookingFixture(testfixtures.WithStay(-1, 3), testfixtures.CheckedIn())
	h := newTestRouter(t, testfixtures.NewRoomFixture(
		testfixtures.WithRoomNumber("021"),
		testfixtures.WithBookings(staying),
	))

	update := map[string]any{
		"target": map[string]string{"start_date": staying.StartDate, "end_date": staying.EndDate},
		"booking": map[string]string{
			"guest_name": staying.GuestName,
			"start_date": testfixtures.DateText(10),
			"end_date":   testfixtures.DateText(12),
		},
	}
	rec := do(t, h, http.MethodPut, "/api/v1/rooms/021/bookings", update)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "checked_in_not_started", decodeError(t, rec).ErrorCode)

	rec = do(t, h, http.MethodGet, "/api/v1/rooms/021", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeRoom(t, rec)
	assert.Equal(t, "checked_in", got.State)
	assert.Equal(t, staying.StartDate, got.Bookings[0].StartDate)
}

func TestRoomHandlerReassign(t *testing.T) {
	t.Parallel()

	staying := testfixtures.NewBookingFixture(testfixtures.WithStay(-1, 3), testfixtures.CheckedIn())
	h := newTestRouter(t,
		testfixtures.NewRoomFixture(testfixtures.WithRoomNumber("030"), testfixtures.WithBookings(staying)),
		testfixtures.NewRoomFixture(testfixtures.WithRoomNumber("031")),
	)

	body := map[string]any{
		"target":      map[string]string{"start_date": staying.StartDate, "end_date": staying.EndDate},
		"target_room": "030",
	}
	rec := do(t, h, http.MethodPost, "/api/v1/rooms/030/reassign", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "original_room_reassign", decodeError(t, rec).ErrorCode)

	body["target_room"] = "031"
	rec = do(t, h, http.MethodPost, "/api/v1/rooms/030/reassign", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp reassignResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "no_booking", resp.From.State)
	assert.Equal(t, "checked_in", resp.To.State)
	assert.Equal(t, staying.GuestName, resp.To.Bookings[0].Guest.Name)
}

func TestRoomHandlerSetTags(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, testfixtures.NewRoomFixture(testfixtures.WithRoomNumber("040")))

	rec := do(t, h, http.MethodPut, "/api/v1/rooms/040/tags", map[string]any{"tags": []string{" balcony", "accessible", "balcony"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"accessible", "balcony"}, decodeRoom(t, rec).Tags)
}

func TestRoomHandlerRejectsMalformedBodies(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, testfixtures.NewRoomFixture(testfixtures.WithRoomNumber("050")))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms/050/bookings", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errBadRequestBody.Error(), decodeError(t, rec).Message)

	rec = do(t, h, http.MethodDelete, "/api/v1/rooms/050", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

type failingRooms struct {
	*memory.Storage
}

func (f failingRooms) SaveRooms(ctx context.Context, rooms []persistence.Room) error {
	return errors.New("disk full")
}

func (f failingRooms) SaveRoom(ctx context.Context, r persistence.Room) error {
	return errors.New("disk full")
}

func TestRoomHandlerHidesPersistenceFailures(t *testing.T) {
	t.Parallel()

	store := memory.New()
	require.NoError(t, store.SaveRooms(context.Background(), []persistence.Room{
		testfixtures.NewRoomFixture(testfixtures.WithRoomNumber("060")).Persistence(),
	}))
	svc := testfixtures.NewServiceFactory().NewHotelService(testfixtures.HotelServiceDeps{Rooms: failingRooms{store}})
	_, err := svc.Load(context.Background(), 0)
	require.NoError(t, err)
	h := NewRouter(RouterConfig{Rooms: NewRoomHandler(svc, nil)})

	rec := do(t, h, http.MethodPut, "/api/v1/rooms/060/tags", map[string]any{"tags": []string{"x"}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "internal server error", resp.Message)
	assert.Empty(t, resp.ErrorCode)

	rec = do(t, h, http.MethodGet, "/api/v1/rooms/060", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeRoom(t, rec).Tags, "failed save must not reach the registry")
}

func TestStatusForKind(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"room_not_found":          http.StatusNotFound,
		"booking_not_found":       http.StatusNotFound,
		"invalid_period":          http.StatusUnprocessableEntity,
		"reassign_order_conflict": http.StatusConflict,
		"expired_booking_pending": http.StatusConflict,
		"checked_in_not_started":  http.StatusConflict,
		"persistence":             http.StatusInternalServerError,
		"corrupt_record":          http.StatusInternalServerError,
		"unexpected":              http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, statusForKind(kind), kind)
	}

	var vErr error = &application.ValidationError{FieldErrors: map[string]string{"guest": "name is required"}}
	rec := httptest.NewRecorder()
	newResponder(nil).handleServiceError(context.Background(), rec, vErr)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, map[string]string{"guest": "name is required"}, decodeError(t, rec).Errors)
}
