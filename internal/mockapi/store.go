package mockapi

import (
	"errors"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"codeberg.org/fleetdesk/console/internal/api"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state transition")
)

// account that can log in to the mock backend
type account struct {
	api.User
	Password string
}

// in-memory fixtures backing every endpoint
type Store struct {
	mu sync.RWMutex

	accounts      []account
	vehicles      map[int64]*api.Vehicle
	trips         map[int64]*api.Trip
	drivers       map[int64]*api.Driver
	notifications map[int64]*api.Notification
	history       map[int64][]api.HistoryPoint
	shifts        map[int64][]api.Shift

	nextID int64
	now    func() time.Time
}

func NewStore() *Store {
	s := &Store{
		vehicles:      make(map[int64]*api.Vehicle),
		trips:         make(map[int64]*api.Trip),
		drivers:       make(map[int64]*api.Driver),
		notifications: make(map[int64]*api.Notification),
		history:       make(map[int64][]api.HistoryPoint),
		shifts:        make(map[int64][]api.Shift),
		nextID:        1000,
		now:           time.Now,
	}
	s.seed()
	return s
}

func ptr[T any](v T) *T { return &v }

func (s *Store) seed() {
	now := s.now().UTC().Truncate(time.Minute)

	s.accounts = []account{
		{User: api.User{ID: 1, Name: "Dana Dispatcher", Email: "dispatcher@fleetdesk.dev", Role: "dispatcher"}, Password: "dispatch"},
		{User: api.User{ID: 2, Name: "Alex Admin", Email: "admin@fleetdesk.dev", Role: "admin"}, Password: "admin"},
	}

	s.drivers[1] = &api.Driver{ID: 1, Name: "Sam Rivera", Phone: "+31 6 1111 0001", LicenseNumber: "NL-C-48213", Status: "on_duty", Rating: 4.8, VehicleID: ptr(int64(1))}
	s.drivers[2] = &api.Driver{ID: 2, Name: "Priya Shah", Phone: "+31 6 1111 0002", LicenseNumber: "NL-C-50771", Status: "available", Rating: 4.6}
	s.drivers[3] = &api.Driver{ID: 3, Name: "Tom Becker", Phone: "+31 6 1111 0003", LicenseNumber: "NL-C-39904", Status: "off_duty", Rating: 4.2}

	s.vehicles[1] = &api.Vehicle{ID: 1, Plate: "FD-101-V", Model: "Ford Transit", Type: "van", Capacity: 12, Status: api.VehicleOnTrip, FuelLevel: 0.62, Mileage: 48210, DriverID: ptr(int64(1)),
		Location: &api.Location{Lat: 52.3702, Lng: 4.8952, Speed: 42, Heading: 90, UpdatedAt: now}}
	s.vehicles[2] = &api.Vehicle{ID: 2, Plate: "FD-102-V", Model: "Mercedes Sprinter", Type: "van", Capacity: 14, Status: api.VehicleAvailable, FuelLevel: 0.88, Mileage: 31877,
		Location: &api.Location{Lat: 52.0907, Lng: 5.1214, UpdatedAt: now}}
	s.vehicles[3] = &api.Vehicle{ID: 3, Plate: "FD-201-T", Model: "Volvo FL", Type: "truck", Capacity: 2, Status: api.VehicleMaintenance, FuelLevel: 0.15, Mileage: 120440}
	s.vehicles[4] = &api.Vehicle{ID: 4, Plate: "FD-202-T", Model: "DAF XF", Type: "truck", Capacity: 2, Status: api.VehicleAvailable, FuelLevel: 0.71, Mileage: 98012,
		Location: &api.Location{Lat: 51.9244, Lng: 4.4777, UpdatedAt: now}}

	s.trips[1] = &api.Trip{ID: 1, Origin: "Amsterdam Depot", Destination: "Utrecht Hub", Status: api.TripInProgress, Priority: "high",
		VehicleID: ptr(int64(1)), DriverID: ptr(int64(1)), ScheduledAt: now.Add(-time.Hour), StartedAt: ptr(now.Add(-50 * time.Minute)), DistanceKm: 44}
	s.trips[2] = &api.Trip{ID: 2, Origin: "Utrecht Hub", Destination: "Rotterdam Port", Status: api.TripPending, Priority: "normal",
		ScheduledAt: now.Add(2 * time.Hour), DistanceKm: 57}
	s.trips[3] = &api.Trip{ID: 3, Origin: "Rotterdam Port", Destination: "Den Haag Centrum", Status: api.TripPending, Priority: "low",
		ScheduledAt: now.Add(4 * time.Hour), DistanceKm: 27}
	s.trips[4] = &api.Trip{ID: 4, Origin: "Amsterdam Depot", Destination: "Haarlem", Status: api.TripCompleted, Priority: "normal",
		VehicleID: ptr(int64(2)), DriverID: ptr(int64(2)), ScheduledAt: now.Add(-26 * time.Hour),
		StartedAt: ptr(now.Add(-26 * time.Hour)), CompletedAt: ptr(now.Add(-25 * time.Hour)), DistanceKm: 20}

	s.notifications[1] = &api.Notification{ID: 1, Type: "maintenance", Title: "Service due", Body: "FD-201-T is overdue for service.", CreatedAt: now.Add(-3 * time.Hour)}
	s.notifications[2] = &api.Notification{ID: 2, Type: "trip", Title: "Trip started", Body: "Trip #1 left Amsterdam Depot.", CreatedAt: now.Add(-50 * time.Minute)}
	s.notifications[3] = &api.Notification{ID: 3, Type: "fuel", Title: "Low fuel", Body: "FD-201-T is below 20% fuel.", Read: true, CreatedAt: now.Add(-5 * time.Hour)}

	for id, v := range s.vehicles {
		if v.Location == nil {
			continue
		}
		for i := 5; i >= 1; i-- {
			loc := *v.Location
			loc.Lat -= float64(i) * 0.004
			loc.Lng -= float64(i) * 0.003
			loc.UpdatedAt = now.Add(-time.Duration(i) * 10 * time.Minute)
			s.history[id] = append(s.history[id], api.HistoryPoint{Location: loc})
		}
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	s.shifts[1] = []api.Shift{{Start: day.Add(6 * time.Hour), End: day.Add(14 * time.Hour), Trips: []int64{1}}}
	s.shifts[2] = []api.Shift{{Start: day.Add(14 * time.Hour), End: day.Add(22 * time.Hour)}}
}

func (s *Store) newID() int64 {
	s.nextID++
	return s.nextID
}

// returns the account matching the credentials
func (s *Store) Authenticate(email, password string) (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, email) && a.Password == password {
			return a.User, true
		}
	}
	return api.User{}, false
}

func (s *Store) User(id int64) (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.ID == id {
			return a.User, true
		}
	}
	return api.User{}, false
}

func sortedKeys[T any](m map[int64]T) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// returns one page; page and perPage <= 0 mean everything
func paginate[T any](items []T, page, perPage int) []T {
	if perPage <= 0 {
		return items
	}
	if page <= 0 {
		page = 1
	}

	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}
	}

	end := min(start+perPage, len(items))
	return items[start:end]
}

func (s *Store) Vehicles(f api.VehicleFilter) []api.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(f.Search)
	out := make([]api.Vehicle, 0, len(s.vehicles))

	for _, id := range sortedKeys(s.vehicles) {
		v := s.vehicles[id]

		if f.Status != "" && v.Status != f.Status {
			continue
		}
		if f.Type != "" && v.Type != f.Type {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(v.Plate+" "+v.Model), search) {
			continue
		}

		out = append(out, copyVehicle(v))
	}

	return paginate(out, f.Page, f.PerPage)
}

func copyVehicle(v *api.Vehicle) api.Vehicle {
	c := *v
	if v.Location != nil {
		c.Location = ptr(*v.Location)
	}
	if v.DriverID != nil {
		c.DriverID = ptr(*v.DriverID)
	}
	return c
}

func (s *Store) Vehicle(id int64) (api.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vehicles[id]
	if !ok {
		return api.Vehicle{}, ErrNotFound
	}
	return copyVehicle(v), nil
}

func (s *Store) CreateVehicle(in api.VehicleInput) api.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := in.Status
	if status == "" {
		status = api.VehicleAvailable
	}

	v := &api.Vehicle{ID: s.newID(), Plate: in.Plate, Model: in.Model, Type: in.Type, Capacity: in.Capacity, Status: status, FuelLevel: 1}
	s.vehicles[v.ID] = v

	return copyVehicle(v)
}

func (s *Store) UpdateVehicle(id int64, in api.VehicleInput) (api.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vehicles[id]
	if !ok {
		return api.Vehicle{}, ErrNotFound
	}

	v.Plate, v.Model, v.Type, v.Capacity = in.Plate, in.Model, in.Type, in.Capacity
	if in.Status != "" {
		v.Status = in.Status
	}

	return copyVehicle(v), nil
}

func (s *Store) DeleteVehicle(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vehicles[id]; !ok {
		return ErrNotFound
	}

	delete(s.vehicles, id)
	delete(s.history, id)
	return nil
}

func (s *Store) History(id int64, from, to time.Time) ([]api.HistoryPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.vehicles[id]; !ok {
		return nil, ErrNotFound
	}

	out := make([]api.HistoryPoint, 0, len(s.history[id]))
	for _, p := range s.history[id] {
		if !from.IsZero() && p.UpdatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && p.UpdatedAt.After(to) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// moves every located vehicle a little and returns the vehicles that moved
func (s *Store) Drift(step float64) []api.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	var moved []api.Vehicle

	for _, id := range sortedKeys(s.vehicles) {
		v := s.vehicles[id]
		if v.Location == nil || v.Status != api.VehicleOnTrip {
			continue
		}

		s.history[id] = append(s.history[id], api.HistoryPoint{Location: *v.Location})

		rad := v.Location.Heading * math.Pi / 180
		v.Location.Lat += step * math.Cos(rad)
		v.Location.Lng += step * math.Sin(rad)
		v.Location.UpdatedAt = now

		moved = append(moved, copyVehicle(v))
	}

	return moved
}

func copyTrip(t *api.Trip) api.Trip {
	c := *t
	return c
}

func (s *Store) Trips(f api.TripFilter) []api.Trip {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.Trip, 0, len(s.trips))
	for _, id := range sortedKeys(s.trips) {
		t := s.trips[id]

		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.VehicleID > 0 && (t.VehicleID == nil || *t.VehicleID != f.VehicleID) {
			continue
		}
		if f.DriverID > 0 && (t.DriverID == nil || *t.DriverID != f.DriverID) {
			continue
		}

		out = append(out, copyTrip(t))
	}

	return paginate(out, f.Page, f.PerPage)
}

func (s *Store) Trip(id int64) (api.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.trips[id]
	if !ok {
		return api.Trip{}, ErrNotFound
	}
	return copyTrip(t), nil
}

func (s *Store) CreateTrip(in api.TripInput) api.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()

	priority := in.Priority
	if priority == "" {
		priority = "normal"
	}

	t := &api.Trip{ID: s.newID(), Origin: in.Origin, Destination: in.Destination, Status: api.TripPending,
		Priority: priority, ScheduledAt: in.ScheduledAt, Notes: in.Notes}
	s.trips[t.ID] = t

	return copyTrip(t)
}

func (s *Store) UpdateTrip(id int64, in api.TripInput) (api.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trips[id]
	if !ok {
		return api.Trip{}, ErrNotFound
	}

	t.Origin, t.Destination, t.ScheduledAt, t.Notes = in.Origin, in.Destination, in.ScheduledAt, in.Notes
	if in.Priority != "" {
		t.Priority = in.Priority
	}

	return copyTrip(t), nil
}

// assigns a vehicle and driver to a pending or already assigned trip
func (s *Store) AssignTrip(id int64, a api.Assignment) (api.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trips[id]
	if !ok {
		return api.Trip{}, ErrNotFound
	}
	if t.Status != api.TripPending && t.Status != api.TripAssigned {
		return api.Trip{}, ErrInvalidState
	}

	t.VehicleID = ptr(a.VehicleID)
	t.DriverID = ptr(a.DriverID)
	t.Status = api.TripAssigned

	return copyTrip(t), nil
}

func (s *Store) CancelTrip(id int64, reason string) (api.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trips[id]
	if !ok {
		return api.Trip{}, ErrNotFound
	}
	if t.Status == api.TripCompleted || t.Status == api.TripCancelled {
		return api.Trip{}, ErrInvalidState
	}

	t.Status = api.TripCancelled
	if reason != "" {
		t.Notes = strings.TrimSpace(t.Notes + "\ncancelled: " + reason)
	}

	return copyTrip(t), nil
}

func (s *Store) HasVehicle(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.vehicles[id]
	return ok
}

func (s *Store) HasDriver(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.drivers[id]
	return ok
}

func copyDriver(d *api.Driver) api.Driver {
	c := *d
	if d.VehicleID != nil {
		c.VehicleID = ptr(*d.VehicleID)
	}
	return c
}

func (s *Store) Drivers(status string) []api.Driver {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.Driver, 0, len(s.drivers))
	for _, id := range sortedKeys(s.drivers) {
		d := s.drivers[id]
		if status != "" && d.Status != status {
			continue
		}
		out = append(out, copyDriver(d))
	}
	return out
}

func (s *Store) Driver(id int64) (api.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drivers[id]
	if !ok {
		return api.Driver{}, ErrNotFound
	}
	return copyDriver(d), nil
}

func (s *Store) CreateDriver(in api.DriverInput) api.Driver {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := in.Status
	if status == "" {
		status = "available"
	}

	d := &api.Driver{ID: s.newID(), Name: in.Name, Phone: in.Phone, LicenseNumber: in.LicenseNumber, Status: status, Rating: 5}
	s.drivers[d.ID] = d

	return copyDriver(d)
}

func (s *Store) UpdateDriver(id int64, in api.DriverInput) (api.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drivers[id]
	if !ok {
		return api.Driver{}, ErrNotFound
	}

	d.Name, d.Phone, d.LicenseNumber = in.Name, in.Phone, in.LicenseNumber
	if in.Status != "" {
		d.Status = in.Status
	}

	return copyDriver(d), nil
}

func (s *Store) DeleteDriver(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drivers[id]; !ok {
		return ErrNotFound
	}

	delete(s.drivers, id)
	delete(s.shifts, id)
	return nil
}

func (s *Store) Schedule(id int64) ([]api.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.drivers[id]; !ok {
		return nil, ErrNotFound
	}
	return append([]api.Shift{}, s.shifts[id]...), nil
}

func (s *Store) Notifications(unreadOnly bool) api.NotificationList {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := api.NotificationList{Notifications: []api.Notification{}}
	for _, id := range sortedKeys(s.notifications) {
		n := s.notifications[id]
		if !n.Read {
			list.UnreadCount++
		}
		if unreadOnly && n.Read {
			continue
		}
		list.Notifications = append(list.Notifications, *n)
	}

	sort.SliceStable(list.Notifications, func(i, j int) bool {
		return list.Notifications[i].CreatedAt.After(list.Notifications[j].CreatedAt)
	})

	return list
}

func (s *Store) AddNotification(kind, title, body string) api.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := &api.Notification{ID: s.newID(), Type: kind, Title: title, Body: body, CreatedAt: s.now().UTC()}
	s.notifications[n.ID] = n

	return *n
}

func (s *Store) MarkRead(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return ErrNotFound
	}
	n.Read = true
	return nil
}

func (s *Store) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications {
		n.Read = true
	}
}

func (s *Store) DeleteNotification(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notifications[id]; !ok {
		return ErrNotFound
	}
	delete(s.notifications, id)
	return nil
}
