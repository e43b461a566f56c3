package core

// PublishMeasurement — spec.md §4.4.

import "encoding/json"

// PublishMeasurementHandler creates a new Measurement at the signer-derived
// Measurement address.
type PublishMeasurementHandler struct {
	Policy Policy
}

func (h *PublishMeasurementHandler) FamilyName() string      { return "PublishMeasurementRequest" }
func (h *PublishMeasurementHandler) FamilyVersions() []string { return []string{FamilyVersion} }
func (h *PublishMeasurementHandler) Namespaces() []string {
	return []string{FamilyPrefix(FamilyMeasurement)}
}

func (h *PublishMeasurementHandler) Apply(tx *Transaction, ctx *Context) error {
	req, err := decodePayload[PublishMeasurementRequest](tx.Payload)
	if err != nil {
		return err
	}

	signer, err := decodeSignerPublicKey(tx.Header.SignerPublicKey)
	if err != nil {
		return Internalf(err)
	}
	if !h.Policy.CanPublish(tx.Header.SignerPublicKey) {
		return Invalid("Signer is not an authorized measurement publisher!")
	}

	// Open Question 2 (DESIGN.md): the measurement is always written at the
	// signer's own derived Measurement address, so a publisher can only ever
	// create its own measurement. The header's declared Outputs are not
	// compared against this address.
	address := DeriveAddress(FamilyMeasurement, signer)

	taken, err := addressesNotEmpty(ctx, address)
	if err != nil {
		return err
	}
	if taken {
		return Invalid("Address already in use %q!", address)
	}

	m := Measurement{
		Amount: req.Amount,
		Type:   req.Type,
		Begin:  req.Begin,
		End:    req.End,
		Sector: req.Sector,
	}
	data, err := json.Marshal(m)
	if err != nil {
		return Internalf(err)
	}
	return ctx.Write(map[string][]byte{address: data})
}
