package types

// Envelope is the wire shape every endpoint responds with. The paginated list
// endpoints nest a PageData inside Data.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// PageData is the paginated collection envelope. From/To are 1-based inclusive
// positions of the returned slice within the filtered set, zero when empty.
type PageData struct {
	Data        any `json:"data"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	From        int `json:"from"`
	To          int `json:"to"`
}
