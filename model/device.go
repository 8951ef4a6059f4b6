package model

type Device struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}
