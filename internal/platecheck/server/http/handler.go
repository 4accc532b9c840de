package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
	"github.com/autopeer-io/platecheck/internal/platecheck/core/service"
	"github.com/autopeer-io/platecheck/internal/platecheck/dvla"
	"github.com/autopeer-io/platecheck/pkg/log"
	"github.com/autopeer-io/platecheck/pkg/vrm"
)

const (
	sessionHeader = "X-Session-ID"
	maxBodyBytes  = 1 << 16
)

type handler struct {
	svc     LookupService
	tiers   TierResolver
	enquiry VehicleFetcher
}

// errorResponse is the failure body shared by every endpoint.
type errorResponse struct {
	Success    bool            `json:"success"`
	Error      string          `json:"error"`
	StatusCode int             `json:"statusCode"`
	Kind       model.ErrorKind `json:"kind,omitempty"`
}

type tierBody struct {
	Tier string `json:"tier"`
}

type registrationResponse struct {
	Registration vrm.VRM `json:"registration"`
	Display      string  `json:"display"`
}

type shareResponse struct {
	URL string `json:"url"`
}

func (h *handler) getReport(w http.ResponseWriter, r *http.Request) {
	tier, ok := h.requestTier(w, r)
	if !ok {
		return
	}

	p, err := h.svc.Lookup(r.Context(), r.Header.Get(sessionHeader), mux.Vars(r)["registration"], tier)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) shareReport(w http.ResponseWriter, r *http.Request) {
	tier, ok := h.requestTier(w, r)
	if !ok {
		return
	}

	url, err := h.svc.Share(r.Context(), mux.Vars(r)["registration"], tier)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, shareResponse{URL: url})
}

func (h *handler) formatRegistration(w http.ResponseWriter, r *http.Request) {
	v, err := vrm.Normalize(mux.Vars(r)["input"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, registrationResponse{Registration: v, Display: vrm.Format(v)})
}

func (h *handler) getTier(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, tierBody{Tier: h.tiers.Get().String()})
}

func (h *handler) putTier(w http.ResponseWriter, r *http.Request) {
	var body tierBody
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeFailure(w, http.StatusBadRequest, model.KindInvalidRequest, "request body must be {\"tier\": \"...\"}")
		return
	}

	tier, err := model.ParseTier(body.Tier)
	if err == nil {
		err = h.tiers.Set(tier)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tierBody{Tier: tier.String()})
}

// vehicleEnquiry forwards one enquiry and answers with the raw government
// payload or the failure body.
func (h *handler) vehicleEnquiry(w http.ResponseWriter, r *http.Request) {
	var req dvla.EnquiryRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dvla.FailureResponse{Error: "invalid request body", StatusCode: http.StatusBadRequest})
		return
	}

	v, err := vrm.Normalize(req.RegistrationNumber)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dvla.FailureResponse{Error: err.Error(), StatusCode: http.StatusBadRequest})
		return
	}

	vehicle, err := h.enquiry.Fetch(r.Context(), v)
	if err != nil {
		var apiErr *dvla.APIError
		if !errors.As(err, &apiErr) {
			apiErr = &dvla.APIError{Kind: dvla.KindUnknown, Message: err.Error()}
		}
		failure := apiErr.Failure()
		writeJSON(w, failure.StatusCode, failure)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// requestTier returns the tier query parameter, or the persisted tier when
// the parameter is absent.
func (h *handler) requestTier(w http.ResponseWriter, r *http.Request) (model.Tier, bool) {
	raw := r.URL.Query().Get("tier")
	if raw == "" {
		return h.tiers.Get(), true
	}
	tier, err := model.ParseTier(raw)
	if err != nil {
		writeError(w, r, err)
		return "", false
	}
	return tier, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		re      *model.ResolutionError
		tierErr *model.InvalidTierError
		vrmErr  *vrm.InvalidRegistrationError
	)
	switch {
	case errors.As(err, &re):
		writeFailure(w, re.Kind.HTTPStatus(), re.Kind, re.Message)
	case errors.As(err, &tierErr):
		writeFailure(w, http.StatusBadRequest, model.KindInvalidTier, tierErr.Error())
	case errors.As(err, &vrmErr):
		writeFailure(w, http.StatusBadRequest, model.KindInvalidRegistration, vrmErr.Error())
	case errors.Is(err, service.ErrSuperseded):
		writeFailure(w, http.StatusConflict, "", err.Error())
	case errors.Is(err, service.ErrSharingDisabled):
		writeFailure(w, http.StatusNotImplemented, "", err.Error())
	default:
		log.FromContext(r.Context()).Error(err, "Request failed", "path", r.URL.Path)
		writeFailure(w, http.StatusInternalServerError, "", "internal error")
	}
}

func writeFailure(w http.ResponseWriter, status int, kind model.ErrorKind, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg, StatusCode: status, Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error(err, "Failed to write response")
	}
}
