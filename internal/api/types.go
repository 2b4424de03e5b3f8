package api

import "time"

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// vehicle states reported by the backend
const (
	VehicleAvailable   = "available"
	VehicleOnTrip      = "on_trip"
	VehicleMaintenance = "maintenance"
	VehicleOffline     = "offline"
)

type Location struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Speed     float64   `json:"speed"`
	Heading   float64   `json:"heading"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Vehicle struct {
	ID        int64     `json:"id"`
	Plate     string    `json:"plate"`
	Model     string    `json:"model"`
	Type      string    `json:"type"`
	Capacity  int       `json:"capacity"`
	Status    string    `json:"status"`
	FuelLevel float64   `json:"fuel_level"`
	Mileage   float64   `json:"mileage"`
	DriverID  *int64    `json:"driver_id,omitempty"`
	Location  *Location `json:"location,omitempty"`
}

type VehicleInput struct {
	Plate    string `json:"plate"`
	Model    string `json:"model"`
	Type     string `json:"type"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status,omitempty"`
}

type VehicleFilter struct {
	Status  string
	Type    string
	Search  string
	Page    int
	PerPage int
}

type HistoryPoint struct {
	Location
	TripID *int64 `json:"trip_id,omitempty"`
}

// trip states reported by the backend
const (
	TripPending    = "pending"
	TripAssigned   = "assigned"
	TripInProgress = "in_progress"
	TripCompleted  = "completed"
	TripCancelled  = "cancelled"
)

type Trip struct {
	ID          int64      `json:"id"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	VehicleID   *int64     `json:"vehicle_id,omitempty"`
	DriverID    *int64     `json:"driver_id,omitempty"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DistanceKm  float64    `json:"distance_km"`
	Notes       string     `json:"notes,omitempty"`
}

type TripInput struct {
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Priority    string    `json:"priority,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Notes       string    `json:"notes,omitempty"`
}

type TripFilter struct {
	Status    string
	VehicleID int64
	DriverID  int64
	Page      int
	PerPage   int
}

type Assignment struct {
	VehicleID int64 `json:"vehicle_id"`
	DriverID  int64 `json:"driver_id"`
}

type Driver struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	LicenseNumber string  `json:"license_number"`
	Status        string  `json:"status"`
	Rating        float64 `json:"rating"`
	VehicleID     *int64  `json:"vehicle_id,omitempty"`
}

type DriverInput struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number"`
	Status        string `json:"status,omitempty"`
}

type Shift struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Trips []int64   `json:"trips,omitempty"`
}

type DashboardStats struct {
	ActiveVehicles    int     `json:"active_vehicles"`
	TotalVehicles     int     `json:"total_vehicles"`
	TripsToday        int     `json:"trips_today"`
	PendingTrips      int     `json:"pending_trips"`
	AvailableDrivers  int     `json:"available_drivers"`
	OnTimeRate        float64 `json:"on_time_rate"`
	AverageDelayMins  float64 `json:"average_delay_mins"`
	FuelConsumptionL  float64 `json:"fuel_consumption_l"`
	UnreadAlertsCount int     `json:"unread_alerts_count"`
}

type FleetStats struct {
	ByStatus       map[string]int `json:"by_status"`
	ByType         map[string]int `json:"by_type"`
	Utilization    float64        `json:"utilization"`
	AverageMileage float64        `json:"average_mileage"`
}

type TripSeriesPoint struct {
	Date      string  `json:"date"`
	Completed int     `json:"completed"`
	Cancelled int     `json:"cancelled"`
	Distance  float64 `json:"distance_km"`
}

type TripStats struct {
	Period string            `json:"period"`
	Series []TripSeriesPoint `json:"series"`
}

type DriverPerformance struct {
	DriverID     int64   `json:"driver_id"`
	Name         string  `json:"name"`
	TripsDone    int     `json:"trips_done"`
	OnTimeRate   float64 `json:"on_time_rate"`
	Rating       float64 `json:"rating"`
	DistanceKm   float64 `json:"distance_km"`
	IncidentRate float64 `json:"incident_rate"`
}

type Notification struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}
