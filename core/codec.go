package core

// Request payload decoding and schema validation. Grounded on the teacher's
// struct-tag JSON convention (core/common_structs.go) plus
// github.com/go-playground/validator/v10, the schema-validation library
// named in other_examples/manifests/certenIO-certen-validator/go.mod — the
// pack's only appearance of a struct-tag validation library, adopted here so
// request validation is declarative rather than a hand-rolled if-chain.

import (
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	_ = validate.RegisterValidation("sector", func(fl validator.FieldLevel) bool {
		return validSector(fl.Field().String())
	})
	_ = validate.RegisterValidation("address", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) == AddressLength
	})
	validate.RegisterStructValidation(measurementRequestLevel, PublishMeasurementRequest{})
}

// PublishMeasurementRequest is the decoded payload of a PublishMeasurement
// transaction (spec.md §4.4).
type PublishMeasurementRequest struct {
	Amount uint64          `json:"amount"`
	Type   MeasurementType `json:"type" validate:"oneof=PRODUCTION CONSUMPTION"`
	Begin  time.Time       `json:"begin" validate:"required"`
	End    time.Time       `json:"end" validate:"required"`
	Sector string          `json:"sector" validate:"sector"`
}

// measurementRequestLevel enforces the hourly-interval constraint that no
// single struct tag expresses: begin < end and end == begin + 1h exactly.
func measurementRequestLevel(sl validator.StructLevel) {
	req := sl.Current().Interface().(PublishMeasurementRequest)
	if req.Begin.IsZero() || req.End.IsZero() {
		return // required tags already flag this
	}
	if !req.End.After(req.Begin) {
		sl.ReportError(req.End, "End", "End", "after_begin", "")
		return
	}
	if !req.End.Equal(req.Begin.Add(time.Hour)) {
		sl.ReportError(req.End, "End", "End", "hourly", "")
	}
}

// IssueGGORequest is the decoded payload of an IssueGGO transaction
// (spec.md §4.5).
type IssueGGORequest struct {
	Origin      string              `json:"origin" validate:"required,address"`
	Destination string              `json:"destination" validate:"required,address"`
	TechType    string              `json:"tech_type"`
	FuelType    string              `json:"fuel_type"`
	Emissions   map[string]Emission `json:"emissions"`
}

// SplitGGOPart is one successor of a SplitGGO transaction.
type SplitGGOPart struct {
	Address string `json:"address" validate:"required,address"`
	Amount  uint64 `json:"amount"`
}

// SplitGGORequest is the decoded payload of a SplitGGO transaction
// (spec.md §4.6). At least two parts are required.
type SplitGGORequest struct {
	Origin string         `json:"origin" validate:"required,address"`
	Parts  []SplitGGOPart `json:"parts" validate:"min=2,dive"`
}

// TransferGGORequest is the decoded payload of a TransferGGO transaction
// (spec.md §4.7).
type TransferGGORequest struct {
	Origin      string `json:"origin" validate:"required,address"`
	Destination string `json:"destination" validate:"required,address"`
}

// RetireGGORequest is the decoded payload of a RetireGGO transaction
// (spec.md §4.8).
type RetireGGORequest struct {
	Origin           string `json:"origin" validate:"required,address"`
	SettlementAddress string `json:"settlement_address" validate:"required,address"`
}

// SettlementRequest is the decoded payload of a Settlement transaction
// (spec.md §4.9).
type SettlementRequest struct {
	SettlementAddress  string   `json:"settlement_address" validate:"required,address"`
	MeasurementAddress string   `json:"measurement_address" validate:"required,address"`
	GGOAddresses       []string `json:"ggo_addresses" validate:"dive,address"`
}

// decodePayload UTF-8 decodes, JSON parses and schema-validates payload into
// a T, per spec.md §4.3. Any failure is an InvalidTransactionError — this is
// the only family of error decodePayload ever returns.
func decodePayload[T any](payload []byte) (T, error) {
	var req T
	if !utf8.Valid(payload) {
		return req, Invalid("The transaction payload was an invalid request. Invalid JSON.")
	}
	if err := json.Unmarshal(payload, &req); err != nil {
		return req, Invalid("The transaction payload was an invalid request. Invalid JSON.")
	}
	if err := validate.Struct(req); err != nil {
		return req, Invalid("%s", schemaErrorMessage(err))
	}
	return req, nil
}

// schemaErrorMessage renders the first validation failure in a stable,
// field-oriented form.
func schemaErrorMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return fmt.Sprintf("The transaction payload was an invalid request. %v", err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "hourly":
		return "The transaction payload was an invalid request. end must equal begin plus one hour."
	case "after_begin":
		return "The transaction payload was an invalid request. begin must be before end."
	case "sector":
		return "The transaction payload was an invalid request. unknown sector."
	case "address":
		return fmt.Sprintf("The transaction payload was an invalid request. %s must be a valid address.", fe.Field())
	case "min":
		return "The transaction payload was an invalid request. at least two parts are required."
	default:
		return fmt.Sprintf("The transaction payload was an invalid request. %s failed %s.", fe.Field(), fe.Tag())
	}
}
