package holiday

import "time"

type Holiday struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
