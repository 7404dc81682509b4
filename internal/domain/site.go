package domain

// Site is a tourist site row as served by the API. Optional columns stay
// pointers so the JSON output distinguishes "absent" from zero values.
type Site struct {
	ID          int64    `json:"id"`
	Category    *string  `json:"category"`
	Name        string   `json:"name"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Governorate *string  `json:"governorate"`
	Description *string  `json:"description"`
	Note        *string  `json:"note"`
	Booking     *string  `json:"booking"`
	GMapsLink   *string  `json:"gmaps_link"`
	ImageLink   []string `json:"image_link"`
}
