package dvla

// Vehicle is the success payload of the vehicle-enquiry API.
// Numeric fields the API may omit are pointers so a missing value stays
// distinguishable from zero.
type Vehicle struct {
	RegistrationNumber       string `json:"registrationNumber"`
	TaxStatus                string `json:"taxStatus,omitempty"`
	TaxDueDate               string `json:"taxDueDate,omitempty"`
	MotStatus                string `json:"motStatus,omitempty"`
	MotExpiryDate            string `json:"motExpiryDate,omitempty"`
	Make                     string `json:"make,omitempty"`
	YearOfManufacture        *int   `json:"yearOfManufacture,omitempty"`
	EngineCapacity           *int   `json:"engineCapacity,omitempty"`
	Co2Emissions             *int   `json:"co2Emissions,omitempty"`
	FuelType                 string `json:"fuelType,omitempty"`
	MarkedForExport          bool   `json:"markedForExport"`
	Colour                   string `json:"colour,omitempty"`
	TypeApproval             string `json:"typeApproval,omitempty"`
	RevenueWeight            *int   `json:"revenueWeight,omitempty"`
	DateOfLastV5CIssued      string `json:"dateOfLastV5CIssued,omitempty"`
	Wheelplan                string `json:"wheelplan,omitempty"`
	MonthOfFirstRegistration string `json:"monthOfFirstRegistration,omitempty"`
	EuroStatus               string `json:"euroStatus,omitempty"`
}

// EnquiryRequest is the request body sent for every lookup.
type EnquiryRequest struct {
	RegistrationNumber string `json:"registrationNumber"`
}

// FailureResponse is the failure body used by the enquiry proxy.
type FailureResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	StatusCode int    `json:"statusCode"`
}

// upstreamErrors is the error body returned by the government API itself.
type upstreamErrors struct {
	Errors []struct {
		Status string `json:"status"`
		Code   string `json:"code"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}
