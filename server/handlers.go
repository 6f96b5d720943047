package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Daskott/soilsense/server/alert"
	"github.com/Daskott/soilsense/server/models"
	"github.com/Daskott/soilsense/server/sensor"
	"github.com/go-playground/validator"
	"github.com/pkg/errors"
)

type ResponsePayload struct {
	Errors  []string    `json:"errors"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

type ContactStore interface {
	UpsertContact(name, phoneNumber string) (*models.Contact, error)
	FindContact() (*models.Contact, error)
}

type ManualTrigger interface {
	TriggerManual(ctx context.Context) (*alert.ManualResult, error)
}

type handlers struct {
	contacts ContactStore
	trigger  ManualTrigger
}

type farmerNumberRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

func home(rw http.ResponseWriter, r *http.Request) {
	rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(rw, "Soilsense server is up and running!\n")
}

func (h *handlers) findFarmerNumber(rw http.ResponseWriter, r *http.Request) {
	contact, err := h.contacts.FindContact()
	if errors.Is(err, models.ErrContactNotFound) {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusNotFound)
		return
	}

	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: contact}, http.StatusOK)
}

func (h *handlers) upsertFarmerNumber(rw http.ResponseWriter, r *http.Request) {
	data := farmerNumberRequest{}
	decoder := json.NewDecoder(r.Body)

	err := decoder.Decode(&data)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{"invalid JSON body: " + err.Error()}}, http.StatusBadRequest)
		return
	}

	contact, err := h.contacts.UpsertContact(data.Name, data.PhoneNumber)

	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		writeResponse(rw, ResponsePayload{Errors: validationMessages(validationErr)}, http.StatusBadRequest)
		return
	}

	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: contact}, http.StatusOK)
}

func (h *handlers) triggerSms(rw http.ResponseWriter, r *http.Request) {
	result, err := h.trigger.TriggerManual(r.Context())

	var fetchErr *sensor.FetchError
	switch {
	case errors.Is(err, models.ErrContactNotFound):
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusNotFound)
		return
	case errors.Is(err, alert.ErrCheckInProgress):
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusConflict)
		return
	case errors.As(err, &fetchErr):
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadGateway)
		return
	case err != nil:
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	// Delivery failures are reported, but the request itself still succeeds
	if result.Outcome == alert.OutcomeDeliveryFailed {
		writeResponse(rw, ResponsePayload{Errors: []string{result.Reason}, Data: result}, http.StatusOK)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: result}, http.StatusOK)
}

// validationMessages turns validator errors into messages that refer to the json field names
func validationMessages(validationErr *models.ValidationError) []string {
	fieldErrs, ok := validationErr.Err.(validator.ValidationErrors)
	if !ok {
		return strings.Split(validationErr.Error(), "\n")
	}

	messages := []string{}
	for _, fieldErr := range fieldErrs {
		switch fieldErr.Field() {
		case "PhoneNumber":
			messages = append(messages, "phoneNumber must be a 10 digit number, optionally prefixed with +91")
		case "Name":
			messages = append(messages, "name must be at most 100 characters")
		default:
			messages = append(messages, fmt.Sprintf("%s failed on the '%s' tag", fieldErr.Field(), fieldErr.Tag()))
		}
	}

	return messages
}
