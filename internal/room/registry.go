package room

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry holds every room of the hotel keyed by number. Rooms are immutable values, so readers
// get a snapshot that later edits never change; edits swap the stored value under a single lock.
type Registry struct {
	mu    sync.RWMutex
	rooms map[Number]Room
}

// NewRegistry builds a registry from rooms, rejecting repeated numbers.
func NewRegistry(rooms ...Room) (*Registry, error) {
	index, err := indexRooms(rooms)
	if err != nil {
		return nil, err
	}
	return &Registry{rooms: index}, nil
}

// Get returns the room with the given number.
func (r *Registry) Get(number Number) (Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.getLocked(number)
}

// Contains reports whether a room with the same number is registered.
func (r *Registry) Contains(room Room) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[room.number]
	return ok
}

// Len returns the number of rooms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms)
}

// List returns all rooms ordered by number.
func (r *Registry) List() []Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	slices.SortFunc(rooms, func(a, b Room) int {
		return strings.Compare(string(a.number), string(b.number))
	})
	return rooms
}

// Add registers a new room.
func (r *Registry) Add(room Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[room.number]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateRoom, room.number)
	}
	r.rooms[room.number] = room
	return nil
}

// Set replaces target with edited. edited may carry a new number only when no other room holds it.
func (r *Registry) Set(target, edited Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.setLocked(target, edited)
}

// Update applies fn to the room with the given number and stores the result. fn runs under the
// registry lock, so side effects it performs (such as persisting the edited room) are serialized
// with every other edit. When fn fails the registry is left unchanged.
func (r *Registry) Update(number Number, fn func(Room) (Room, error)) (Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.getLocked(number)
	if err != nil {
		return Room{}, err
	}
	edited, err := fn(current)
	if err != nil {
		return Room{}, err
	}
	if err := r.setLocked(current, edited); err != nil {
		return Room{}, err
	}
	return edited, nil
}

// UpdatePair is Update for operations spanning two rooms, such as reassignment. Both rooms are
// stored together or not at all.
func (r *Registry) UpdatePair(first, second Number, fn func(Room, Room) (Room, Room, error)) (Room, Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.getLocked(first)
	if err != nil {
		return Room{}, Room{}, err
	}
	b, err := r.getLocked(second)
	if err != nil {
		return Room{}, Room{}, err
	}
	editedA, editedB, err := fn(a, b)
	if err != nil {
		return Room{}, Room{}, err
	}
	if !editedA.IsSameRoom(a) || !editedB.IsSameRoom(b) {
		return Room{}, Room{}, fmt.Errorf("%w: paired edits cannot renumber rooms", ErrDuplicateRoom)
	}
	r.rooms[a.number] = editedA
	r.rooms[b.number] = editedB
	return editedA, editedB, nil
}

// Replace swaps the whole content of the registry, typically after loading from storage.
func (r *Registry) Replace(rooms []Room) error {
	index, err := indexRooms(rooms)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rooms = index
	return nil
}

func (r *Registry) getLocked(number Number) (Room, error) {
	room, ok := r.rooms[number]
	if !ok {
		return Room{}, fmt.Errorf("%w: %s", ErrRoomNotFound, number)
	}
	return room, nil
}

func (r *Registry) setLocked(target, edited Room) error {
	if _, ok := r.rooms[target.number]; !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, target.number)
	}
	if !target.IsSameRoom(edited) {
		if _, taken := r.rooms[edited.number]; taken {
			return fmt.Errorf("%w: %s", ErrDuplicateRoom, edited.number)
		}
		delete(r.rooms, target.number)
	}
	r.rooms[edited.number] = edited
	return nil
}

func indexRooms(rooms []Room) (map[Number]Room, error) {
	index := make(map[Number]Room, len(rooms))
	for _, room := range rooms {
		if _, ok := index[room.number]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRoom, room.number)
		}
		index[room.number] = room
	}
	return index, nil
}
