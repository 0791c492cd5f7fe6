package Models

// UserAccount is a user row as listed via the admin endpoint.
type UserAccount struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	MobileNumber string `json:"mobileNumber"`
	Role         string `json:"role"`
	IsActive     bool   `json:"isActive"`
	CreatedAt    string `json:"createdAt,omitempty"`
}

// Profile is the authenticated user's profile with server-side aggregates.
type Profile struct {
	DriverName        string  `json:"driverName"`
	MobileNumber      string  `json:"mobileNumber"`
	Role              string  `json:"role"`
	TotalTrips        int     `json:"totalTrips"`
	FuelRecords       int     `json:"fuelRecords"`
	DistanceCoveredKm float64 `json:"distanceCoveredKm"`
	TotalFuelCost     float64 `json:"totalFuelCost"`
}
