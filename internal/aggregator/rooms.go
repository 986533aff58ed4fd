package aggregator

import (
	"github.com/intelligrit/room-index/internal/canon"
	"github.com/intelligrit/room-index/internal/model"
)

// roomArena holds the merged rooms. A room's id is its position in rooms.
type roomArena struct {
	rooms   []model.Room
	byCanon map[string]int
}

func newRoomArena() *roomArena {
	return &roomArena{byCanon: make(map[string]int)}
}

// add stores r under the canonical form of its name and returns its id.
// If a room with the same canonical name exists, its id is returned and r is dropped.
func (a *roomArena) add(r model.Room) (int, bool) {
	key := canon.Name(r.Name)
	if id, ok := a.byCanon[key]; ok {
		return id, false
	}
	id := len(a.rooms)
	a.rooms = append(a.rooms, r)
	a.byCanon[key] = id
	return id, true
}

// replace overwrites the room stored under id, keeping its canonical key.
func (a *roomArena) replace(id int, r model.Room) {
	a.rooms[id] = r
}

// lookup resolves a free-text room name to a room id.
func (a *roomArena) lookup(name string) (int, bool) {
	id, ok := a.byCanon[canon.Name(name)]
	return id, ok
}

func (a *roomArena) len() int { return len(a.rooms) }

// directory collects the rooms of the campus directory by canonical name.
// Its entries only donate building and capacity to catalogue rooms.
type directory map[string]model.DirectoryRoom

func (d directory) put(r model.DirectoryRoom) {
	d[canon.Name(r.Name)] = r
}

func (d directory) get(name string) (model.DirectoryRoom, bool) {
	r, ok := d[canon.Name(name)]
	return r, ok
}
