package model

import "time"

// DefaultImageURL is used for movies registered without a poster.
const DefaultImageURL = "https://placehold.co/400x600/000000/FFFFFF?text=No+Image"

// Movie is a catalog entry.  Cast and Showtimes are ordered lists kept as
// JSON documents in the `movies` table.
type Movie struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Genre       string    `json:"genre"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	Duration    string    `json:"duration"`
	Rating      string    `json:"rating"`
	Director    string    `json:"director"`
	Cast        []string  `json:"cast"`
	Showtimes   []string  `json:"showtimes"`
	TicketPrice float64   `json:"ticketPrice"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
