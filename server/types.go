package server

type PairsResponse struct {
	Results []string `json:"results"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
