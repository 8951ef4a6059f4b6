package model

type DevicesRequestBody struct {
	Devices []string `json:"devices"`
}

type WindowRequestBody struct {
	Size int `json:"size"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
