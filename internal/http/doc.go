// Package http exposes the hotel service over JSON.
//
// The router serves the following endpoints under /api/v1:
//   - GET /rooms, GET /rooms/{number}: room listing and lookup. Rooms carry their derived
//     lifecycle state for the hotel's current day.
//   - POST /rooms/{number}/bookings: reserves the room. Body: {"guest_name","guest_phone",
//     "guest_email","start_date","end_date"} with dates as day/month/year.
//   - PUT /rooms/{number}/bookings: edits the booking matching "target" with "booking".
//   - POST /rooms/{number}/checkin: checks in the booking active today.
//   - POST /rooms/{number}/checkout: checks out the checked-in or expired booking; a
//     {"start_date","end_date"} body removes that booking instead.
//   - POST /rooms/{number}/reassign: moves the "target" booking to "target_room".
//   - POST /rooms/{number}/expenses, PUT /rooms/{number}/tags.
//   - GET /occupancy: room counts per lifecycle state.
//
// GET /healthz pings the room store and the metrics path serves Prometheus metrics when enabled.
// Request and response DTOs live alongside their handlers.
package http
