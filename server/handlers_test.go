package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Daskott/soilsense/server/alert"
	"github.com/Daskott/soilsense/server/models"
	"github.com/Daskott/soilsense/server/sensor"
	"github.com/Daskott/soilsense/shared"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualTriggerStub struct {
	result *alert.ManualResult
	err    error
	calls  int
}

func (stub *manualTriggerStub) TriggerManual(ctx context.Context) (*alert.ManualResult, error) {
	stub.calls++
	return stub.result, stub.err
}

type moistureSourceStub struct {
	moisture float64
}

func (stub moistureSourceStub) FetchLatestMoisture(ctx context.Context) (float64, error) {
	return stub.moisture, nil
}

type notifierStub struct {
	sent []string
}

func (stub *notifierStub) SendMessage(ctx context.Context, to, body string) (string, error) {
	stub.sent = append(stub.sent, to)
	return "SM123", nil
}

type TestDataProvider []struct {
	description    string
	method         string
	path           string
	body           string
	expectedStatus int
	expectedOut    string
}

func newTestRouter(t *testing.T, trigger ManualTrigger) (http.Handler, *models.ContactStore) {
	db := models.InitializeTestDb()
	t.Cleanup(func() { models.CloseDB(db) })

	contacts, err := models.NewContactStore(db)
	require.Nil(t, err)

	return NewRouter(contacts, trigger, prometheus.NewRegistry()), contacts
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(method, path, strings.NewReader(body)))
	return recorder
}

func decodePayload(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	payload := map[string]interface{}{}
	require.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	return payload
}

func TestFarmerNumberEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, &manualTriggerStub{})

	cases := TestDataProvider{
		{
			description:    "Should respond to liveness check",
			method:         http.MethodGet,
			path:           "/",
			expectedStatus: http.StatusOK,
			expectedOut:    "up and running",
		},
		{
			description:    "Should return not found when no contact is set",
			method:         http.MethodGet,
			path:           "/api/farmer-number",
			expectedStatus: http.StatusNotFound,
			expectedOut:    models.ErrContactNotFound.Error(),
		},
		{
			description:    "Should reject invalid json",
			method:         http.MethodPost,
			path:           "/api/farmer-number",
			body:           `{"phoneNumber":`,
			expectedStatus: http.StatusBadRequest,
			expectedOut:    "invalid JSON body",
		},
		{
			description:    "Should reject an invalid phone number",
			method:         http.MethodPost,
			path:           "/api/farmer-number",
			body:           `{"name":"Ravi","phoneNumber":"12345"}`,
			expectedStatus: http.StatusBadRequest,
			expectedOut:    "phoneNumber must be a 10 digit number",
		},
		{
			description:    "Should reject a name longer than 100 characters",
			method:         http.MethodPost,
			path:           "/api/farmer-number",
			body:           `{"name":"` + strings.Repeat("a", 101) + `","phoneNumber":"9876543210"}`,
			expectedStatus: http.StatusBadRequest,
			expectedOut:    "name must be at most 100 characters",
		},
		{
			description:    "Should store the contact with a normalized phone number",
			method:         http.MethodPost,
			path:           "/api/farmer-number",
			body:           `{"name":"Ravi","phoneNumber":"9876543210"}`,
			expectedStatus: http.StatusOK,
			expectedOut:    `"phoneNumber":"+919876543210"`,
		},
		{
			description:    "Should return the stored contact",
			method:         http.MethodGet,
			path:           "/api/farmer-number",
			expectedStatus: http.StatusOK,
			expectedOut:    `"name":"Ravi"`,
		},
		{
			description:    "Should replace the stored contact",
			method:         http.MethodPost,
			path:           "/api/farmer-number",
			body:           `{"phoneNumber":"+919123456780"}`,
			expectedStatus: http.StatusOK,
			expectedOut:    `"phoneNumber":"+919123456780"`,
		},
		{
			description:    "Should not allow other methods",
			method:         http.MethodDelete,
			path:           "/api/farmer-number",
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, c := range cases {
		recorder := doRequest(router, c.method, c.path, c.body)

		assert.Equal(t, c.expectedStatus, recorder.Code, c.description)
		assert.Contains(t, recorder.Body.String(), c.expectedOut, c.description)
	}
}

func TestValidationMessagesForOtherFields(t *testing.T) {
	validate, err := shared.NewValidator()
	require.Nil(t, err)

	err = validate.Struct(struct {
		Email string `validate:"required"`
	}{})
	require.NotNil(t, err)

	messages := validationMessages(&models.ValidationError{Err: err})
	assert.Equal(t, []string{"Email failed on the 'required' tag"}, messages)
}

func TestTriggerSmsResponses(t *testing.T) {
	cases := []struct {
		description    string
		stub           *manualTriggerStub
		expectedStatus int
		expectedOut    string
	}{
		{
			description:    "Should return not found when no contact is set",
			stub:           &manualTriggerStub{err: models.ErrContactNotFound},
			expectedStatus: http.StatusNotFound,
		},
		{
			description:    "Should return conflict while a check is running",
			stub:           &manualTriggerStub{err: alert.ErrCheckInProgress},
			expectedStatus: http.StatusConflict,
		},
		{
			description:    "Should return bad gateway when the sensor fails",
			stub:           &manualTriggerStub{err: &sensor.FetchError{URL: "http://sensor", Err: errors.New("refused")}},
			expectedStatus: http.StatusBadGateway,
			expectedOut:    "refused",
		},
		{
			description:    "Should return internal error when the store fails",
			stub:           &manualTriggerStub{err: &models.PersistenceError{Op: "find contact", Err: errors.New("locked")}},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			description: "Should report delivery failures without failing the request",
			stub: &manualTriggerStub{result: &alert.ManualResult{
				Outcome: alert.OutcomeDeliveryFailed, Moisture: 12, Reason: "unreachable"}},
			expectedStatus: http.StatusOK,
			expectedOut:    `"success":false`,
		},
		{
			description: "Should return the message sid when sent",
			stub: &manualTriggerStub{result: &alert.ManualResult{
				Outcome: alert.OutcomeManualSent, Moisture: 12, MessageSid: "SM123"}},
			expectedStatus: http.StatusOK,
			expectedOut:    `"messageSid":"SM123"`,
		},
	}

	for _, c := range cases {
		router, _ := newTestRouter(t, c.stub)
		recorder := doRequest(router, http.MethodGet, "/api/trigger-sms", "")

		assert.Equal(t, c.expectedStatus, recorder.Code, c.description)
		assert.Contains(t, recorder.Body.String(), c.expectedOut, c.description)
		assert.Equal(t, 1, c.stub.calls, c.description)
	}
}

func TestTriggerSmsWithRealWorkflow(t *testing.T) {
	db := models.InitializeTestDb()
	defer models.CloseDB(db)

	contacts, err := models.NewContactStore(db)
	require.Nil(t, err)

	notifier := &notifierStub{}
	workflow := alert.NewWorkflow(moistureSourceStub{moisture: 80}, contacts, notifier, 30, nil, logg)
	router := NewRouter(contacts, workflow, prometheus.NewRegistry())

	recorder := doRequest(router, http.MethodGet, "/api/trigger-sms", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Empty(t, notifier.sent, "Should not send without a contact")

	_, err = contacts.UpsertContact("Ravi", "9876543210")
	require.Nil(t, err)

	recorder = doRequest(router, http.MethodGet, "/api/trigger-sms", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []string{"+919876543210"}, notifier.sent, "Should send regardless of the threshold")

	payload := decodePayload(t, recorder)
	assert.Equal(t, true, payload["success"])
}

func TestCorsHeaders(t *testing.T) {
	router, _ := newTestRouter(t, &manualTriggerStub{})

	recorder := doRequest(router, http.MethodOptions, "/api/farmer-number", "")
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, recorder.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)

	recorder = doRequest(router, http.MethodGet, "/api/farmer-number", "")
	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, &manualTriggerStub{})

	recorder := doRequest(router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
}
