package core

// IssueGGO — spec.md §4.5.

import "encoding/json"

// IssueGGOHandler mints a new GGO at a declared destination address from a
// PRODUCTION measurement.
type IssueGGOHandler struct {
	Policy Policy
}

func (h *IssueGGOHandler) FamilyName() string       { return "IssueGGORequest" }
func (h *IssueGGOHandler) FamilyVersions() []string { return []string{FamilyVersion} }
func (h *IssueGGOHandler) Namespaces() []string     { return []string{FamilyPrefix(FamilyGGO)} }

func (h *IssueGGOHandler) Apply(tx *Transaction, ctx *Context) error {
	req, err := decodePayload[IssueGGORequest](tx.Payload)
	if err != nil {
		return err
	}

	if !h.Policy.CanIssue(tx.Header.SignerPublicKey) {
		return Invalid("Signer is not an authorized GGO issuer!")
	}

	measurement, err := fetchMeasurement(ctx, req.Origin)
	if err != nil {
		return err
	}

	taken, err := addressesNotEmpty(ctx, req.Destination)
	if err != nil {
		return err
	}
	if taken {
		return Invalid("GGO already issued!")
	}

	if measurement.Type != MeasurementProduction {
		return Invalid("Measurement is not of type Production!")
	}

	g := GGO{
		Origin:    req.Origin,
		Amount:    measurement.Amount,
		Begin:     measurement.Begin,
		End:       measurement.End,
		Sector:    measurement.Sector,
		TechType:  req.TechType,
		FuelType:  req.FuelType,
		Emissions: req.Emissions,
		Next:      nil,
	}
	data, err := json.Marshal(g)
	if err != nil {
		return Internalf(err)
	}
	return ctx.Write(map[string][]byte{req.Destination: data})
}
