package core

// Settlement — spec.md §4.9. Read order mirrors
// original_source/src/datahub_processor/settlement_handler.py exactly
// (measurement before existing-settlement, existing-vs-new branch before
// the per-GGO loop) so that which guard fires first for a given malformed
// input matches the source step-for-step.

import "encoding/json"

// SettlementHandler accumulates retired GGOs into a Settlement bound to a
// CONSUMPTION measurement.
type SettlementHandler struct{}

func (h *SettlementHandler) FamilyName() string       { return "SettlementRequest" }
func (h *SettlementHandler) FamilyVersions() []string { return []string{FamilyVersion} }
func (h *SettlementHandler) Namespaces() []string {
	return []string{FamilyPrefix(FamilyGGO), FamilyPrefix(FamilySettlement), FamilyPrefix(FamilyMeasurement)}
}

func (h *SettlementHandler) Apply(tx *Transaction, ctx *Context) error {
	req, err := decodePayload[SettlementRequest](tx.Payload)
	if err != nil {
		return err
	}

	measurement, err := fetchMeasurement(ctx, req.MeasurementAddress)
	if err != nil {
		return err
	}

	existing, err := tryFetchSettlement(ctx, req.SettlementAddress)
	if err != nil {
		return err
	}

	signer, err := decodeSignerPublicKey(tx.Header.SignerPublicKey)
	if err != nil {
		return Internalf(err)
	}

	var settlement Settlement
	if existing != nil {
		if existing.Measurement != req.MeasurementAddress {
			return Invalid("Measurement does not equal settlement measurement")
		}
		if !CheckOwner(req.SettlementAddress, FamilySettlement, signer) {
			return Invalid("Invalid key for settlement")
		}
		settlement = *existing
	} else {
		if !sameTail(req.MeasurementAddress, req.SettlementAddress) {
			return Invalid("Not correct settlement address for measurement")
		}
		if measurement.Type != MeasurementConsumption {
			return Invalid("Measurment is not of type consumption")
		}
		if !CheckOwner(req.MeasurementAddress, FamilyMeasurement, signer) {
			return Invalid("Invalid key for measurement")
		}
		settlement = Settlement{Measurement: req.MeasurementAddress}
	}

	for _, ggoAddr := range req.GGOAddresses {
		g, err := fetchGGO(ctx, ggoAddr)
		if err != nil {
			return err
		}
		if g.Next == nil || g.Next.Action != ActionRetire ||
			len(g.Next.Addresses) != 1 || g.Next.Addresses[0] != req.SettlementAddress {
			return Invalid("Invalid retired GGO in settlement")
		}
		if g.Sector != measurement.Sector {
			return Invalid("GGO not produced in same sector as measurement")
		}
		if !g.Begin.Equal(measurement.Begin) {
			return Invalid("GGO not produced at the same time as measurement")
		}
		if settlement.HasPart(ggoAddr) {
			return Invalid("GGO already part of settlement")
		}
		settlement.Parts = append(settlement.Parts, SettlementPart{GGO: ggoAddr, Amount: g.Amount})
	}

	if settlement.TotalAmount() > measurement.Amount {
		return Invalid("Invalid to retire more that measurement amount")
	}

	data, err := json.Marshal(settlement)
	if err != nil {
		return Internalf(err)
	}
	return ctx.Write(map[string][]byte{req.SettlementAddress: data})
}
