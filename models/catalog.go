package models

// ServicePackage is a fixed-price package from the studio catalog.
type ServicePackage struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ServiceTypes are the photography services offered by the studio.
var ServiceTypes = []string{
	"Wedding Shoot",
	"Pre-Wedding Shoot",
	"Portrait Session",
	"Maternity Shoot",
	"Event Coverage",
	"Product Photography",
}

// Packages is the static package catalog, cheapest first.
var Packages = []ServicePackage{
	{Name: "Bronze Package", Price: 50000},
	{Name: "Silver Package", Price: 75000},
	{Name: "Gold Package", Price: 100000},
	{Name: "Platinum Package", Price: 150000},
}

// PackagePrice returns the catalog price for a package.
func PackagePrice(packageType string) (float64, bool) {
	for _, p := range Packages {
		if p.Name == packageType {
			return p.Price, true
		}
	}
	return 0, false
}

// IsServiceType reports whether the service is offered.
func IsServiceType(serviceType string) bool {
	for _, s := range ServiceTypes {
		if s == serviceType {
			return true
		}
	}
	return false
}
