package domain

// Property is the read-only listing record the mandate flow references.
type Property struct {
	ID            string
	Title         string
	ProjectName   string
	OwnerID       string
	OwnerName     string
	AddressLine   string
	Locality      string
	City          string
	State         string
	Pincode       string
	PropertyType  string
	CarpetArea    string
	SpecificFloor *int
	TotalPrice    float64
}
