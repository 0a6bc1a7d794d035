package model

// GenerateRequest represents a password generation request.
// Pointer fields distinguish a missing value (nil -> configured default) from an explicit one.
type GenerateRequest struct {
	Length         *int  `json:"length"`
	IncludeSpecial *bool `json:"include_special"`
}

// GenerateResponse represents a password generation response.
type GenerateResponse struct {
	Password string `json:"password"`
	Length   int    `json:"length"`
}
