package domain

type Instruction struct {
	ID               int64   `json:"id"`
	ImageURL         *string `json:"image_url"`
	Place            *string `json:"place"`
	Instructions     *string `json:"instructions"`
	Source           *string `json:"source"`
	IsOfficialSource *bool   `json:"is_official_source"`
}
