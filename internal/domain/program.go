// internal/domain/program.go
package domain

// Program is a purchasable neurofeedback training program.
// ID and Creator never change after creation.
type Program struct {
	ID          uint64 `json:"id"`
	Creator     string `json:"creator"` // Principal that created the program, the only one allowed to update it
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int64  `json:"duration"` // Minutes
	Price       int64  `json:"price"`    // Smallest currency unit
	Active      bool   `json:"active"`   // Only active programs can be purchased
}
